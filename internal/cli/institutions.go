package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/scholenwerk/basispoort-client/pkg/errors"
	"github.com/scholenwerk/basispoort-client/pkg/institutions"
	"github.com/scholenwerk/basispoort-client/pkg/rest"
)

// institutionsCommand groups the institution inspection subcommands.
func (c *CLI) institutionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "institutions",
		Aliases: []string{"inst"},
		Short:   "Inspect institutions, rosters, and synchronization permissions",
	}

	cmd.AddCommand(c.institutionsListCommand())
	cmd.AddCommand(c.institutionsSearchCommand())
	cmd.AddCommand(c.institutionsShowCommand())
	cmd.AddCommand(c.institutionsGroupsCommand())
	cmd.AddCommand(c.institutionsStudentsCommand())
	cmd.AddCommand(c.institutionsStaffCommand())
	cmd.AddCommand(c.institutionsPermissionCommand())
	cmd.AddCommand(c.institutionsMutationsCommand())

	return cmd
}

// institutionsListCommand lists the IDs of all visible institutions.
func (c *CLI) institutionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the IDs of all institutions visible to this publisher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.institutionsClient()
			if err != nil {
				return err
			}

			tracker := newProgress(c.Logger)
			ids, err := client.GetInstitutionIDs(cmd.Context())
			if err != nil {
				return err
			}
			tracker.done(fmt.Sprintf("Fetched %d institutions", len(ids)))

			for _, id := range ids {
				fmt.Println(id.String())
			}
			printNewline()
			printNextStep("Inspect one", appName+" institutions show <id>")
			return nil
		},
	}
}

// institutionsSearchCommand searches institutions by address criteria.
func (c *CLI) institutionsSearchCommand() *cobra.Command {
	var (
		name       string
		city       string
		brinCode   string
		branchCode string
		zipCode    string
		activeOnly bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search institutions by name or address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.institutionsClient()
			if err != nil {
				return err
			}

			predicate := institutions.NewSearchPredicate()
			if name != "" {
				predicate.WithName(name)
			}
			if city != "" {
				predicate.WithCity(city)
			}
			if brinCode != "" {
				predicate.WithBrinCode(brinCode)
			}
			if branchCode != "" {
				predicate.WithBranchCode(branchCode)
			}
			if zipCode != "" {
				predicate.WithZipCode(zipCode)
			}
			predicate.ActiveOnly(activeOnly)

			results, err := client.FindInstitutions(cmd.Context(), predicate)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				printWarning("No institutions matched")
				return nil
			}

			printInfo("%s matching institutions", StyleNumber.Render(strconv.Itoa(len(results))))
			for _, result := range results {
				printKeyValue(result.ID.String(), fmt.Sprintf("%s, %s (brin %s/%s)",
					orDash(result.Name), orDash(result.City), orDash(result.BrinCode), orDash(result.BranchCode)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter on institution name")
	cmd.Flags().StringVar(&city, "city", "", "filter on city")
	cmd.Flags().StringVar(&brinCode, "brin", "", "filter on BRIN code")
	cmd.Flags().StringVar(&branchCode, "branch", "", "filter on branch code")
	cmd.Flags().StringVar(&zipCode, "zip", "", "filter on zip code")
	cmd.Flags().BoolVar(&activeOnly, "active-only", true, "only return active institutions")

	return cmd
}

// institutionsShowCommand shows the overview and address details of one
// institution. Without an argument it opens an interactive picker.
func (c *CLI) institutionsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show the overview and details of an institution",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.institutionsClient()
			if err != nil {
				return err
			}

			id, err := c.resolveInstitutionID(cmd, client, args)
			if err != nil {
				return err
			}

			overview, err := client.GetInstitutionOverview(cmd.Context(), id)
			if err != nil {
				return err
			}
			details, err := client.GetInstitutionDetails(cmd.Context(), id)
			if err != nil {
				return err
			}

			printInfo("Institution %s", StyleHighlight.Render(id.String()))
			printKeyValue("name", orDash(details.Name))
			printKeyValue("brin", orDash(details.BrinCode))
			printKeyValue("branch", orDash(details.BranchCode))
			printKeyValue("street", fmt.Sprintf("%s %s", orDash(details.Street), orDash(details.HouseNumber)))
			printKeyValue("city", fmt.Sprintf("%s %s", orDash(details.ZipCode), orDash(details.City)))
			printKeyValue("phone", orDash(details.Phone))
			printKeyValue("email", orDash(details.Email))
			printKeyValue("students", StyleNumber.Render(strconv.Itoa(overview.StudentCount)))
			printKeyValue("staff", StyleNumber.Render(strconv.Itoa(overview.StaffCount)))
			printKeyValue("mutated", overview.Metadata.MutationTimestamp.Format(time.RFC3339))

			ref, err := client.GetInstitutionShortcutReference(cmd.Context(), id)
			if err != nil {
				printWarning("shortcut reference unavailable: %s", errors.UserMessage(err))
				return nil
			}
			printKeyValue("shortcut", ref)
			return nil
		},
	}
}

// institutionsGroupsCommand lists the groups of an institution.
func (c *CLI) institutionsGroupsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "groups <id>",
		Short: "List the groups of an institution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.institutionsClient()
			if err != nil {
				return err
			}
			id, err := parseInstitutionID(args[0])
			if err != nil {
				return err
			}

			groups, err := client.GetInstitutionGroups(cmd.Context(), id)
			if err != nil {
				return err
			}

			printInfo("%s groups", StyleNumber.Render(strconv.Itoa(len(groups.Groups))))
			for _, group := range groups.Groups {
				label := group.Name
				if group.Year != nil {
					label += " " + StyleDim.Render("(year "+*group.Year+")")
				}
				printKeyValue(group.ID.String(), label)
			}
			return nil
		},
	}
}

// institutionsStudentsCommand lists students, optionally restricted to
// explicit user IDs or ECK chain IDs.
func (c *CLI) institutionsStudentsCommand() *cobra.Command {
	var (
		studentIDs []int64
		chainIDs   []string
	)

	cmd := &cobra.Command{
		Use:   "students <id>",
		Short: "List the students of an institution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.institutionsClient()
			if err != nil {
				return err
			}
			id, err := parseInstitutionID(args[0])
			if err != nil {
				return err
			}
			if len(studentIDs) > 0 && len(chainIDs) > 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--student and --chain-id are mutually exclusive")
			}

			var students *institutions.InstitutionStudents
			switch {
			case len(studentIDs) > 0:
				students, err = client.GetInstitutionStudentsByID(cmd.Context(), id, toRestIDs(studentIDs))
			case len(chainIDs) > 0:
				students, err = client.GetInstitutionStudentsByChainID(cmd.Context(), id, chainIDs)
			default:
				students, err = client.GetInstitutionStudents(cmd.Context(), id)
			}
			if err != nil {
				return err
			}

			printInfo("%s students", StyleNumber.Render(strconv.Itoa(len(students.Students))))
			for _, student := range students.Students {
				label := personName(student.FirstName, student.Infix, student.LastName)
				if student.ChainID != nil {
					label += " " + StyleDim.Render(*student.ChainID)
				}
				printKeyValue(student.ID.String(), label)
			}
			return nil
		},
	}

	cmd.Flags().Int64SliceVar(&studentIDs, "student", nil, "restrict to these student IDs")
	cmd.Flags().StringSliceVar(&chainIDs, "chain-id", nil, "restrict to these ECK chain IDs")

	return cmd
}

// institutionsStaffCommand lists the staff of an institution.
func (c *CLI) institutionsStaffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "staff <id>",
		Short: "List the staff of an institution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.institutionsClient()
			if err != nil {
				return err
			}
			id, err := parseInstitutionID(args[0])
			if err != nil {
				return err
			}

			staff, err := client.GetInstitutionStaff(cmd.Context(), id)
			if err != nil {
				return err
			}

			printInfo("%s staff members", StyleNumber.Render(strconv.Itoa(len(staff.Staff))))
			for _, member := range staff.Staff {
				label := personName(member.FirstName, member.Infix, member.LastName)
				if member.Role != nil {
					label += " " + StyleDim.Render("("+*member.Role+")")
				}
				printKeyValue(member.ID.String(), label)
			}
			return nil
		},
	}
}

// institutionsPermissionCommand inspects, requests, or relinquishes the
// synchronization permission of an institution.
func (c *CLI) institutionsPermissionCommand() *cobra.Command {
	var (
		request    bool
		relinquish bool
	)

	cmd := &cobra.Command{
		Use:   "permission <id>",
		Short: "Inspect or change the synchronization permission of an institution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.institutionsClient()
			if err != nil {
				return err
			}
			id, err := parseInstitutionID(args[0])
			if err != nil {
				return err
			}

			if relinquish {
				if err := client.RelinquishSynchronizationPermission(cmd.Context(), id); err != nil {
					return err
				}
				printSuccess("Relinquished synchronization permission for institution %s", id.String())
				return nil
			}

			permission, err := client.GetSynchronizationPermission(cmd.Context(), id, request)
			if err != nil {
				return err
			}

			switch {
			case permission.Granted:
				printSuccess("Synchronization permission granted")
			case permission.Requested:
				printInfo("Synchronization permission requested, waiting for the institution")
			default:
				printWarning("No synchronization permission")
				printNextStep("Request it", fmt.Sprintf("%s institutions permission %s --request", appName, id.String()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&request, "request", false, "file a permission request with the institution")
	cmd.Flags().BoolVar(&relinquish, "relinquish", false, "give up the synchronization permission")
	cmd.MarkFlagsMutuallyExclusive("request", "relinquish")

	return cmd
}

// institutionsMutationsCommand lists institutions that granted or
// revoked synchronization permission on a given date.
func (c *CLI) institutionsMutationsCommand() *cobra.Command {
	var (
		date    string
		revoked bool
	)

	cmd := &cobra.Command{
		Use:   "mutations",
		Short: "List permission grants or revocations on a given date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.institutionsClient()
			if err != nil {
				return err
			}

			day, err := time.Parse("2006-01-02", date)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing --date %q, expected YYYY-MM-DD", date)
			}

			var ids []rest.ID
			if revoked {
				ids, err = client.GetSynchronizationPermissionsRevoked(cmd.Context(), day)
			} else {
				ids, err = client.GetSynchronizationPermissionsGranted(cmd.Context(), day)
			}
			if err != nil {
				return err
			}

			verb := "granted"
			if revoked {
				verb = "revoked"
			}
			printInfo("%s institutions %s permission on %s",
				StyleNumber.Render(strconv.Itoa(len(ids))), verb, date)
			for _, id := range ids {
				fmt.Println(id.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "date to inspect (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&revoked, "revoked", false, "list revocations instead of grants")

	return cmd
}

// resolveInstitutionID parses the positional ID or, when absent, runs
// the interactive picker over an institution search.
func (c *CLI) resolveInstitutionID(cmd *cobra.Command, client *institutions.Client, args []string) (rest.ID, error) {
	if len(args) == 1 {
		return parseInstitutionID(args[0])
	}

	spinner := newSpinner(cmd.Context(), "Fetching institutions")
	spinner.Start()
	results, err := client.FindInstitutions(cmd.Context(), institutions.NewSearchPredicate().ActiveOnly(true))
	spinner.Stop()
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "no institutions available to pick from")
	}

	items := make([]institutionItem, len(results))
	for i, result := range results {
		items[i] = institutionItem{ID: result.ID, Name: orDash(result.Name), City: orDash(result.City)}
	}

	item, ok, err := pickInstitution(items)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidInput, "no institution selected")
	}
	return item.ID, nil
}

func parseInstitutionID(raw string) (rest.ID, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing institution ID %q", raw)
	}
	return rest.ID(id), nil
}

func toRestIDs(raw []int64) []rest.ID {
	ids := make([]rest.ID, len(raw))
	for i, v := range raw {
		ids[i] = rest.ID(v)
	}
	return ids
}
