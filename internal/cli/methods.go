package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scholenwerk/basispoort-client/pkg/errors"
	"github.com/scholenwerk/basispoort-client/pkg/hostedlicense"
)

// methodsCommand groups the hosted license provider method subcommands.
func (c *CLI) methodsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "methods",
		Short: "Manage hosted license provider methods and their users",
	}

	cmd.AddCommand(c.methodsListCommand())
	cmd.AddCommand(c.methodsShowCommand())
	cmd.AddCommand(c.methodsCreateCommand(false))
	cmd.AddCommand(c.methodsCreateCommand(true))
	cmd.AddCommand(c.methodsDeleteCommand())
	cmd.AddCommand(c.methodsUsersCommand())

	return cmd
}

// methodsListCommand lists all methods of the provider.
func (c *CLI) methodsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.licenseClient()
			if err != nil {
				return err
			}

			list, err := client.GetMethods(cmd.Context())
			if err != nil {
				return err
			}

			printInfo("%s methods for provider %s",
				StyleNumber.Render(strconv.Itoa(len(list.Methods))),
				StyleHighlight.Render(client.IdentityCode()))
			for _, method := range list.Methods {
				printKeyValue(method.ID, method.Name)
			}
			return nil
		},
	}
}

// methodsShowCommand shows one method.
func (c *CLI) methodsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <method-id>",
		Short: "Show a method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.licenseClient()
			if err != nil {
				return err
			}

			method, err := client.GetMethod(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printInfo("Method %s", StyleHighlight.Render(method.ID))
			printKeyValue("name", method.Name)
			printKeyValue("code", orDash(method.Code))
			if method.URL != nil {
				printKeyValue("url", StyleLink.Render(*method.URL))
			} else {
				printKeyValue("url", "-")
			}
			printKeyValue("icon-url", orDash(method.IconURL))
			printKeyValue("tags", renderTags(method.Tags))
			return nil
		},
	}
}

// methodsCreateCommand builds either the create or the update command;
// both take the same flags and differ only in the final call.
func (c *CLI) methodsCreateCommand(update bool) *cobra.Command {
	var (
		code       string
		rawURL     string
		iconURL    string
		iconFile   string
		teacherApp bool
		testApp    bool
	)

	use, short := "create <method-id> <name>", "Register a new method"
	if update {
		use, short = "update <method-id> <name>", "Replace an existing method"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.licenseClient()
			if err != nil {
				return err
			}

			method := hostedlicense.NewMethodDetails(args[0], args[1])
			if code != "" {
				method.WithCode(code)
			}
			if rawURL != "" {
				if _, err := method.WithURL(rawURL); err != nil {
					return err
				}
			}
			if iconURL != "" {
				if _, err := method.WithIconURL(iconURL); err != nil {
					return err
				}
			}
			if iconFile != "" {
				if _, err := method.WithIconFile(iconFile); err != nil {
					return err
				}
			}
			if teacherApp {
				method.AsTeacherApplication()
			}
			if testApp {
				method.AsTestApplication()
			}

			if update {
				if err := client.UpdateMethod(cmd.Context(), method); err != nil {
					return err
				}
				printSuccess("Updated method %s", method.ID)
				return nil
			}
			if err := client.CreateMethod(cmd.Context(), method); err != nil {
				return err
			}
			printSuccess("Created method %s", method.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "method code")
	cmd.Flags().StringVar(&rawURL, "url", "", "method URL (absolute)")
	cmd.Flags().StringVar(&iconURL, "icon-url", "", "icon URL (absolute)")
	cmd.Flags().StringVar(&iconFile, "icon-file", "", "icon file to inline (SVG or PNG)")
	cmd.Flags().BoolVar(&teacherApp, "teacher-app", false, "tag as teacher application")
	cmd.Flags().BoolVar(&testApp, "test-app", false, "tag as test application")
	cmd.MarkFlagsMutuallyExclusive("icon-url", "icon-file")

	return cmd
}

// methodsDeleteCommand removes a method.
func (c *CLI) methodsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <method-id>",
		Short: "Remove a method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.licenseClient()
			if err != nil {
				return err
			}
			if err := client.DeleteMethod(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted method %s", args[0])
			return nil
		},
	}
}

// methodsUsersCommand lists or changes the users licensed for a method.
func (c *CLI) methodsUsersCommand() *cobra.Command {
	var (
		set      bool
		add      bool
		remove   bool
		clear    bool
		userIDs  []int64
		chainIDs []string
	)

	cmd := &cobra.Command{
		Use:   "users <method-id>",
		Short: "List or change the users licensed for a method",
		Long: `List or change the users licensed for a method.

Users are addressed either by Basispoort user ID (--user) or by ECK
chain ID (--chain-id institution:eck-id). Without a change flag the
current licenses are listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.licenseClient()
			if err != nil {
				return err
			}
			methodID := args[0]
			ctx := cmd.Context()

			if clear {
				if len(chainIDs) > 0 {
					err = client.DeleteMethodUserChainIDs(ctx, methodID)
				} else {
					err = client.DeleteMethodUserIDs(ctx, methodID)
				}
				if err != nil {
					return err
				}
				printSuccess("Cleared licenses for method %s", methodID)
				return nil
			}

			if !set && !add && !remove {
				return c.listMethodUsers(cmd, client, methodID)
			}

			if len(chainIDs) > 0 {
				users, err := parseChainIDList(chainIDs)
				if err != nil {
					return err
				}
				switch {
				case set:
					err = client.SetMethodUserChainIDs(ctx, methodID, users)
				case add:
					err = client.AddMethodUserChainIDs(ctx, methodID, users)
				case remove:
					err = client.RemoveMethodUserChainIDs(ctx, methodID, users)
				}
				if err != nil {
					return err
				}
			} else {
				users := &hostedlicense.UserIDList{Users: toRestIDs(userIDs)}
				switch {
				case set:
					err = client.SetMethodUserIDs(ctx, methodID, users)
				case add:
					err = client.AddMethodUserIDs(ctx, methodID, users)
				case remove:
					err = client.RemoveMethodUserIDs(ctx, methodID, users)
				}
				if err != nil {
					return err
				}
			}

			printSuccess("Changed licenses for method %s", methodID)
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

func (c *CLI) listMethodUsers(cmd *cobra.Command, client *hostedlicense.Client, methodID string) error {
	users, err := client.GetMethodUserIDs(cmd.Context(), methodID)
	if err != nil {
		return err
	}
	chainUsers, err := client.GetMethodUserChainIDs(cmd.Context(), methodID)
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

// parseChainIDList parses institution:eck-id pairs.
func parseChainIDList(raw []string) (*hostedlicense.UserChainIDList, error) {
	users := make([]hostedlicense.UserChainID, len(raw))
	for i, pair := range raw {
		institution, chainID, ok := strings.Cut(pair, ":")
		if !ok || chainID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"chain ID %q must have the form institution:eck-id", pair)
		}
		institutionID, err := parseInstitutionID(institution)
		if err != nil {
			return nil, err
		}
		users[i] = hostedlicense.UserChainID{InstitutionID: institutionID, ChainID: chainID}
	}
	return &hostedlicense.UserChainIDList{Users: users}, nil
}

func renderTags(tags []hostedlicense.ApplicationTag) string {
	if len(tags) == 0 {
		return "-"
	}
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = string(tag)
	}
	return strings.Join(parts, ", ")
}
