package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/scholenwerk/basispoort-client/pkg/errors"
	"github.com/scholenwerk/basispoort-client/pkg/hostedlicense"
	"github.com/scholenwerk/basispoort-client/pkg/rest"
)

// batchFile is the TOML format for bulk permission changes:
//
//	methods  = ["rekenen-8"]
//	products = ["werkboek-digitaal"]
//	users    = [101, 102]
//
//	[[chain_users]]
//	institution = 42
//	eck_id      = "https://ketenid.nl/201/abc"
type batchFile struct {
	Methods    []string         `toml:"methods"`
	Products   []string         `toml:"products"`
	Users      []int64          `toml:"users"`
	ChainUsers []batchChainUser `toml:"chain_users"`
}

type batchChainUser struct {
	Institution int64  `toml:"institution"`
	ChainID     string `toml:"eck_id"`
}

// permissionsCommand groups the bulk permission subcommands.
func (c *CLI) permissionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Grant or revoke license permissions in bulk",
	}

	cmd.AddCommand(c.permissionsChangeCommand(false))
	cmd.AddCommand(c.permissionsChangeCommand(true))

	return cmd
}

// permissionsChangeCommand builds the grant or revoke command; both
// read the same batch file format.
func (c *CLI) permissionsChangeCommand(revoke bool) *cobra.Command {
	use, short := "grant <batch-file>", "Grant permissions from a TOML batch file"
	if revoke {
		use, short = "revoke <batch-file>", "Revoke permissions from a TOML batch file"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.licenseClient()
			if err != nil {
				return err
			}

			req, err := loadBatchFile(args[0])
			if err != nil {
				return err
			}

			verb := "Granting"
			if revoke {
				verb = "Revoking"
			}
			spinner := newSpinner(cmd.Context(), fmt.Sprintf("%s permissions for %d users", verb, len(req.UserIDs)+len(req.UserChainIDs)))
			spinner.Start()

			if revoke {
				err = client.BulkRevokePermissions(cmd.Context(), req)
			} else {
				err = client.BulkGrantPermissions(cmd.Context(), req)
			}
			if err != nil {
				if spinner.Cancelled() {
					spinner.Stop()
					return err
				}
				spinner.StopWithError(errors.UserMessage(err))
				return err
			}

			spinner.StopWithSuccess(fmt.Sprintf("Applied %d method and %d product permissions",
				len(req.MethodIDs), len(req.ProductIDs)))
			return nil
		},
	}
}

// loadBatchFile parses and validates a TOML batch file into a bulk
// permission request.
func loadBatchFile(path string) (*hostedlicense.BulkRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "reading batch file %q", path)
	}

	var batch batchFile
	if err := toml.Unmarshal(data, &batch); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing batch file %q", path)
	}

	if len(batch.Methods) == 0 && len(batch.Products) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"batch file %q names no methods or products", path)
	}
	if len(batch.Users) == 0 && len(batch.ChainUsers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"batch file %q names no users", path)
	}

	req := &hostedlicense.BulkRequest{
		MethodIDs:    batch.Methods,
		ProductIDs:   batch.Products,
		UserIDs:      toRestIDs(batch.Users),
		UserChainIDs: make([]hostedlicense.UserChainID, len(batch.ChainUsers)),
	}
	if req.MethodIDs == nil {
		req.MethodIDs = []string{}
	}
	if req.ProductIDs == nil {
		req.ProductIDs = []string{}
	}
	for i, user := range batch.ChainUsers {
		if user.ChainID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"batch file %q: chain_users[%d] is missing eck_id", path, i)
		}
		req.UserChainIDs[i] = hostedlicense.UserChainID{
			InstitutionID: rest.ID(user.Institution),
			ChainID:       user.ChainID,
		}
	}
	return req, nil
}
