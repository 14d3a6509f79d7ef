package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/scholenwerk/basispoort-client/pkg/hostedlicense"
)

// productsCommand groups the product subcommands. Products always live
// under a method, so every subcommand takes the method ID first.
func (c *CLI) productsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage products within a method",
	}

	cmd.AddCommand(c.productsListCommand())
	cmd.AddCommand(c.productsShowCommand())
	cmd.AddCommand(c.productsCreateCommand(false))
	cmd.AddCommand(c.productsCreateCommand(true))
	cmd.AddCommand(c.productsDeleteCommand())
	cmd.AddCommand(c.productsUsersCommand())

	return cmd
}

// productsListCommand lists all products of a method.
func (c *CLI) productsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <method-id>",
		Short: "List all products of a method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.licenseClient()
			if err != nil {
				return err
			}

			list, err := client.GetProducts(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printInfo("%s products in method %s",
				StyleNumber.Render(strconv.Itoa(len(list.Products))),
				StyleHighlight.Render(args[0]))
			for _, product := range list.Products {
				printKeyValue(product.ID, product.Name)
			}
			return nil
		},
	}
}

// productsShowCommand shows one product.
func (c *CLI) productsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <method-id> <product-id>",
		Short: "Show a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.licenseClient()
			if err != nil {
				return err
			}

			product, err := client.GetProduct(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			printInfo("Product %s in method %s",
				StyleHighlight.Render(product.ID), StyleHighlight.Render(args[0]))
			printKeyValue("name", product.Name)
			printKeyValue("code", orDash(product.Code))
			printKeyValue("url", StyleLink.Render(product.URL))
			printKeyValue("icon-url", orDash(product.IconURL))
			printKeyValue("tags", renderTags(product.Tags))
			return nil
		},
	}
}

// productsCreateCommand builds either the create or the update command.
func (c *CLI) productsCreateCommand(update bool) *cobra.Command {
	var (
		code       string
		iconURL    string
		iconFile   string
		teacherApp bool
		testApp    bool
	)

	use, short := "create <method-id> <product-id> <name> <url>", "Register a new product"
	if update {
		use, short = "update <method-id> <product-id> <name> <url>", "Replace an existing product"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.licenseClient()
			if err != nil {
				return err
			}

			product, err := hostedlicense.NewProductDetails(args[1], args[2], args[3])
			if err != nil {
				return err
			}
			if code != "" {
				product.WithCode(code)
			}
			if iconURL != "" {
				if _, err := product.WithIconURL(iconURL); err != nil {
					return err
				}
			}
			if iconFile != "" {
				if _, err := product.WithIconFile(iconFile); err != nil {
					return err
				}
			}
			if teacherApp {
				product.AsTeacherApplication()
			}
			if testApp {
				product.AsTestApplication()
			}

			if update {
				if err := client.UpdateProduct(cmd.Context(), args[0], product); err != nil {
					return err
				}
				printSuccess("Updated product %s", product.ID)
				return nil
			}
			if err := client.CreateProduct(cmd.Context(), args[0], product); err != nil {
				return err
			}
			printSuccess("Created product %s", product.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "product code")
	cmd.Flags().StringVar(&iconURL, "icon-url", "", "icon URL (absolute)")
	cmd.Flags().StringVar(&iconFile, "icon-file", "", "icon file to inline (SVG or PNG)")
	cmd.Flags().BoolVar(&teacherApp, "teacher-app", false, "tag as teacher application")
	cmd.Flags().BoolVar(&testApp, "test-app", false, "tag as test application")
	cmd.MarkFlagsMutuallyExclusive("icon-url", "icon-file")

	return cmd
}

// productsDeleteCommand removes a product.
func (c *CLI) productsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <method-id> <product-id>",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.licenseClient()
			if err != nil {
				return err
			}
			if err := client.DeleteProduct(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			printSuccess("Deleted product %s", args[1])
			return nil
		},
	}
}

// productsUsersCommand lists or changes the users licensed for a
// product. Mirrors the methods users command.
func (c *CLI) productsUsersCommand() *cobra.Command {
	var (
		set      bool
		add      bool
		remove   bool
		clear    bool
		userIDs  []int64
		chainIDs []string
	)

	cmd := &cobra.Command{
		Use:   "users <method-id> <product-id>",
		Short: "List or change the users licensed for a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.licenseClient()
			if err != nil {
				return err
			}
			methodID, productID := args[0], args[1]
			ctx := cmd.Context()

			if clear {
				if len(chainIDs) > 0 {
					err = client.DeleteProductUserChainIDs(ctx, methodID, productID)
				} else {
					err = client.DeleteProductUserIDs(ctx, methodID, productID)
				}
				if err != nil {
					return err
				}
				printSuccess("Cleared licenses for product %s", productID)
				return nil
			}

			if !set && !add && !remove {
				return c.listProductUsers(cmd, client, methodID, productID)
			}

			if len(chainIDs) > 0 {
				users, err := parseChainIDList(chainIDs)
				if err != nil {
					return err
				}
				switch {
				case set:
					err = client.SetProductUserChainIDs(ctx, methodID, productID, users)
				case add:
					err = client.AddProductUserChainIDs(ctx, methodID, productID, users)
				case remove:
					err = client.RemoveProductUserChainIDs(ctx, methodID, productID, users)
				}
				if err != nil {
					return err
				}
			} else {
				users := &hostedlicense.UserIDList{Users: toRestIDs(userIDs)}
				switch {
				case set:
					err = client.SetProductUserIDs(ctx, methodID, productID, users)
				case add:
					err = client.AddProductUserIDs(ctx, methodID, productID, users)
				case remove:
					err = client.RemoveProductUserIDs(ctx, methodID, productID, users)
				}
				if err != nil {
					return err
				}
			}

			printSuccess("Changed licenses for product %s", productID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&set, "set", false, "replace the licensed users")
	cmd.Flags().BoolVar(&add, "add", false, "license additional users")
	cmd.Flags().BoolVar(&remove, "remove", false, "revoke licenses for the given users")
	cmd.Flags().BoolVar(&clear, "clear", false, "revoke all licenses")
	cmd.Flags().Int64SliceVar(&userIDs, "user", nil, "Basispoort user IDs")
	cmd.Flags().StringSliceVar(&chainIDs, "chain-id", nil, "ECK chain IDs as institution:eck-id")
	cmd.MarkFlagsMutuallyExclusive("set", "add", "remove", "clear")
	cmd.MarkFlagsMutuallyExclusive("user", "chain-id")

	return cmd
}

func (c *CLI) listProductUsers(cmd *cobra.Command, client *hostedlicense.Client, methodID, productID string) error {
	users, err := client.GetProductUserIDs(cmd.Context(), methodID, productID)
	if err != nil {
		return err
	}
	chainUsers, err := client.GetProductUserChainIDs(cmd.Context(), methodID, productID)
	if err != nil {
		return err
	}

	printInfo("%s licensed users, %s by chain ID",
		StyleNumber.Render(strconv.Itoa(len(users.Users))),
		StyleNumber.Render(strconv.Itoa(len(chainUsers.Users))))
	for _, id := range users.Users {
		printDetail("%s", id.String())
	}
	for _, user := range chainUsers.Users {
		printDetail("%s:%s", user.InstitutionID.String(), user.ChainID)
	}
	return nil
}
