package institutions

import (
	"net/url"
	"strconv"
	"time"

	"github.com/scholenwerk/basispoort-client/pkg/rest"
)

// ResultMetadata carries the service's snapshot timestamps attached to
// institution responses.
type ResultMetadata struct {
	MutationTimestamp   time.Time `json:"mutationTimestamp"`
	GenerationTimestamp time.Time `json:"generationTimestamp"`
}

// InstitutionOverview is the summary view of an institution.
type InstitutionOverview struct {
	Metadata     ResultMetadata `json:"metaResult"`
	Name         *string        `json:"naam,omitempty"`
	BrinCode     *string        `json:"brincode,omitempty"`
	BranchCode   *string        `json:"dependancecode,omitempty"`
	City         *string        `json:"plaats,omitempty"`
	StudentCount int            `json:"aantalLeerlingen"`
	StaffCount   int            `json:"aantalStaf"`
}

// InstitutionDetails is the address-level view of an institution.
// Institutions can have sparse records, so every field is optional.
type InstitutionDetails struct {
	Name        *string `json:"naam,omitempty"`
	BrinCode    *string `json:"brincode,omitempty"`
	BranchCode  *string `json:"dependancecode,omitempty"`
	Street      *string `json:"straat,omitempty"`
	HouseNumber *string `json:"huisnummer,omitempty"`
	ZipCode     *string `json:"postcode,omitempty"`
	City        *string `json:"plaats,omitempty"`
	Phone       *string `json:"telefoon,omitempty"`
	Email       *string `json:"email,omitempty"`
}

// InstitutionGroups wraps the group list of an institution.
type InstitutionGroups struct {
	Groups []Group `json:"groepen"`
}

// Group is a class or year group within an institution.
type Group struct {
	ID   rest.ID `json:"id"`
	Name string  `json:"naam"`
	Year *string `json:"jaargroep,omitempty"`
}

// InstitutionStudents wraps the student list of an institution.
type InstitutionStudents struct {
	Students []Student `json:"leerlingen"`
}

// Student is an institution student. The chain ID is only present for
// students with an ECK identity.
type Student struct {
	ID        rest.ID  `json:"id"`
	ChainID   *string  `json:"eckId,omitempty"`
	FirstName string   `json:"voornaam"`
	Infix     *string  `json:"tussenvoegsel,omitempty"`
	LastName  string   `json:"achternaam"`
	GroupID   *rest.ID `json:"groepId,omitempty"`
}

// InstitutionStaff wraps the staff list of an institution.
type InstitutionStaff struct {
	Staff []StaffMember `json:"staf"`
}

// StaffMember is an institution staff member.
type StaffMember struct {
	ID        rest.ID `json:"id"`
	ChainID   *string `json:"eckId,omitempty"`
	FirstName string  `json:"voornaam"`
	Infix     *string `json:"tussenvoegsel,omitempty"`
	LastName  string  `json:"achternaam"`
	Role      *string `json:"rol,omitempty"`
}

// SynchronizationPermission reports whether the institution allows this
// publisher to synchronize its data, and whether a permission request
// is pending.
type SynchronizationPermission struct {
	Granted   bool `json:"toegekend"`
	Requested bool `json:"aangevraagd"`
}

// InstitutionSearchResult is a single hit from the institution search.
type InstitutionSearchResult struct {
	ID         rest.ID `json:"id"`
	Name       *string `json:"naam,omitempty"`
	BrinCode   *string `json:"brincode,omitempty"`
	BranchCode *string `json:"dependancecode,omitempty"`
	City       *string `json:"plaats,omitempty"`
}

// SearchPredicate builds the query for the institution search
// ("nawsearch") endpoint. Setters chain; unset criteria are omitted
// from the query entirely.
type SearchPredicate struct {
	values url.Values
}

// NewSearchPredicate returns an empty predicate.
func NewSearchPredicate() *SearchPredicate {
	return &SearchPredicate{values: url.Values{}}
}

// WithBrinCode filters on the institution's BRIN code.
func (p *SearchPredicate) WithBrinCode(code string) *SearchPredicate {
	p.values.Set("brincode", code)
	return p
}

// WithBranchCode filters on the institution's branch code.
func (p *SearchPredicate) WithBranchCode(code string) *SearchPredicate {
	p.values.Set("dependancecode", code)
	return p
}

// WithName filters on the institution name.
func (p *SearchPredicate) WithName(name string) *SearchPredicate {
	p.values.Set("naam", name)
	return p
}

// WithCity filters on the institution city.
func (p *SearchPredicate) WithCity(city string) *SearchPredicate {
	p.values.Set("plaats", city)
	return p
}

// WithZipCode filters on the institution zip code.
func (p *SearchPredicate) WithZipCode(zipCode string) *SearchPredicate {
	p.values.Set("postcode", zipCode)
	return p
}

// ActiveOnly restricts results to active institutions.
func (p *SearchPredicate) ActiveOnly(activeOnly bool) *SearchPredicate {
	p.values.Set("activeOnly", strconv.FormatBool(activeOnly))
	return p
}

// Values returns a copy of the predicate's query values.
func (p *SearchPredicate) Values() url.Values {
	values := url.Values{}
	for key, vals := range p.values {
		for _, v := range vals {
			values.Add(key, v)
		}
	}
	return values
}
