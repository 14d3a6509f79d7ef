// Package institutions implements the institutions service
// ("Instellingen V2") API: institution lookups, group/student/staff
// rosters, synchronization permissions, and institution search.
package institutions

import (
	"context"
	"net/url"
	"time"

	"github.com/scholenwerk/basispoort-client/pkg/rest"
)

const dateFormat = "2006-01-02"

// Client is a typed client for the institutions service.
type Client struct {
	rest     *rest.Client
	basePath string
}

// NewClient returns an institutions service client.
func NewClient(rc *rest.Client) *Client {
	return &Client{
		rest:     rc,
		basePath: "rest/v2/",
	}
}

func (c *Client) path(p string) string {
	return c.basePath + p
}

func (c *Client) institutionPath(institutionID rest.ID, suffix string) (string, error) {
	p, err := rest.Expand("instellingen/{instellingId}", "instellingId", institutionID.String())
	if err != nil {
		return "", err
	}
	return c.basePath + p + suffix, nil
}

// GetInstitutionIDs fetches the IDs of all institutions visible to this
// publisher.
func (c *Client) GetInstitutionIDs(ctx context.Context) ([]rest.ID, error) {
	var ids []rest.ID
	if err := c.rest.Get(ctx, c.path("instellingen"), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetInstitutionOverview fetches the summary view of an institution.
func (c *Client) GetInstitutionOverview(ctx context.Context, institutionID rest.ID) (*InstitutionOverview, error) {
	p, err := c.institutionPath(institutionID, "")
	if err != nil {
		return nil, err
	}
	var overview InstitutionOverview
	if err := c.rest.Get(ctx, p, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// GetInstitutionDetails fetches the address-level view of an
// institution.
func (c *Client) GetInstitutionDetails(ctx context.Context, institutionID rest.ID) (*InstitutionDetails, error) {
	p, err := c.institutionPath(institutionID, "/details")
	if err != nil {
		return nil, err
	}
	var details InstitutionDetails
	if err := c.rest.Get(ctx, p, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// GetInstitutionGroups fetches the groups of an institution.
func (c *Client) GetInstitutionGroups(ctx context.Context, institutionID rest.ID) (*InstitutionGroups, error) {
	p, err := c.institutionPath(institutionID, "/groepen")
	if err != nil {
		return nil, err
	}
	var groups InstitutionGroups
	if err := c.rest.Get(ctx, p, &groups); err != nil {
		return nil, err
	}
	return &groups, nil
}

// GetInstitutionStudents fetches all students of an institution.
func (c *Client) GetInstitutionStudents(ctx context.Context, institutionID rest.ID) (*InstitutionStudents, error) {
	p, err := c.institutionPath(institutionID, "/leerlingen")
	if err != nil {
		return nil, err
	}
	var students InstitutionStudents
	if err := c.rest.Get(ctx, p, &students); err != nil {
		return nil, err
	}
	return &students, nil
}

// GetInstitutionStudentsByID fetches the given students of an
// institution, selected by Basispoort ID.
func (c *Client) GetInstitutionStudentsByID(ctx context.Context, institutionID rest.ID, studentIDs []rest.ID) (*InstitutionStudents, error) {
	p, err := c.institutionPath(institutionID, "/leerlingen")
	if err != nil {
		return nil, err
	}
	var students InstitutionStudents
	if err := c.rest.Post(ctx, p, studentIDs, &students); err != nil {
		return nil, err
	}
	return &students, nil
}

// GetInstitutionStudentsByChainID fetches the given students of an
// institution, selected by ECK chain ID.
func (c *Client) GetInstitutionStudentsByChainID(ctx context.Context, institutionID rest.ID, chainIDs []string) (*InstitutionStudents, error) {
	p, err := c.institutionPath(institutionID, "/leerlingen_eckid")
	if err != nil {
		return nil, err
	}
	var students InstitutionStudents
	if err := c.rest.Post(ctx, p, chainIDs, &students); err != nil {
		return nil, err
	}
	return &students, nil
}

// GetInstitutionStaff fetches the staff of an institution.
func (c *Client) GetInstitutionStaff(ctx context.Context, institutionID rest.ID) (*InstitutionStaff, error) {
	p, err := c.institutionPath(institutionID, "/staf")
	if err != nil {
		return nil, err
	}
	var staff InstitutionStaff
	if err := c.rest.Get(ctx, p, &staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

// GetInstitutionShortcutReference fetches the shortcut reference token
// of an institution.
func (c *Client) GetInstitutionShortcutReference(ctx context.Context, institutionID rest.ID) (string, error) {
	p, err := c.institutionPath(institutionID, "/ref")
	if err != nil {
		return "", err
	}
	var ref string
	if err := c.rest.Get(ctx, p, &ref); err != nil {
		return "", err
	}
	return ref, nil
}

// GetSynchronizationPermission fetches the synchronization permission
// state of an institution. When requestPermission is true, the call
// also files a permission request with the institution's ICT
// coordinator.
func (c *Client) GetSynchronizationPermission(ctx context.Context, institutionID rest.ID, requestPermission bool) (*SynchronizationPermission, error) {
	p, err := c.institutionPath(institutionID, "/uitgever/synchronizationpermission")
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if requestPermission {
		query.Set("request-permission", "true")
	} else {
		query.Set("request-permission", "false")
	}

	var permission SynchronizationPermission
	if err := c.rest.GetQuery(ctx, p, query, &permission); err != nil {
		return nil, err
	}
	return &permission, nil
}

// RelinquishSynchronizationPermission gives up the synchronization
// permission for an institution.
func (c *Client) RelinquishSynchronizationPermission(ctx context.Context, institutionID rest.ID) error {
	p, err := c.institutionPath(institutionID, "/uitgever/synchronizationpermission")
	if err != nil {
		return err
	}
	return c.rest.Delete(ctx, p, nil)
}

// GetSynchronizationPermissionsGranted fetches the institutions that
// granted synchronization permission on the given date.
func (c *Client) GetSynchronizationPermissionsGranted(ctx context.Context, date time.Time) ([]rest.ID, error) {
	return c.getPermissionMutations(ctx, "toegekend", date)
}

// GetSynchronizationPermissionsRevoked fetches the institutions that
// revoked synchronization permission on the given date.
func (c *Client) GetSynchronizationPermissionsRevoked(ctx context.Context, date time.Time) ([]rest.ID, error) {
	return c.getPermissionMutations(ctx, "ingetrokken", date)
}

func (c *Client) getPermissionMutations(ctx context.Context, mutation string, date time.Time) ([]rest.ID, error) {
	p, err := rest.Expand("instellingen/synchronizationpermission/{mutation}/{date}",
		"mutation", mutation, "date", date.Format(dateFormat))
	if err != nil {
		return nil, err
	}
	var ids []rest.ID
	if err := c.rest.Get(ctx, c.basePath+p, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// FindInstitutions searches institutions by address criteria.
func (c *Client) FindInstitutions(ctx context.Context, predicate *SearchPredicate) ([]InstitutionSearchResult, error) {
	var results []InstitutionSearchResult
	if err := c.rest.GetQuery(ctx, c.path("nawsearch"), predicate.Values(), &results); err != nil {
		return nil, err
	}
	return results, nil
}
