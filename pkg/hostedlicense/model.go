package hostedlicense

import (
	"encoding/base64"
	"net/url"
	"os"
	"path/filepath"
	"slices"

	"github.com/scholenwerk/basispoort-client/pkg/errors"
	"github.com/scholenwerk/basispoort-client/pkg/rest"
)

// ApplicationTag marks how Basispoort presents a method or product to
// institution users.
type ApplicationTag string

const (
	TagTeacherApplication ApplicationTag = "leerkrachtApplicatie"
	TagTestApplication    ApplicationTag = "toetsApplicatie"
)

// MethodDetailsList wraps the method collection response.
type MethodDetailsList struct {
	Methods []MethodDetails `json:"methodes"`
}

// MethodDetails describes a licensed method. Optional fields are
// pointers and serialize only when set.
type MethodDetails struct {
	ID      string           `json:"id"`
	Code    *string          `json:"code,omitempty"`
	Name    string           `json:"naam"`
	Icon    *string          `json:"icon,omitempty"`
	IconURL *string          `json:"iconUrl,omitempty"`
	URL     *string          `json:"url,omitempty"`
	Tags    []ApplicationTag `json:"tags"`
}

// NewMethodDetails returns a method with only the required fields set.
func NewMethodDetails(id, name string) *MethodDetails {
	return &MethodDetails{
		ID:   id,
		Name: name,
		Tags: []ApplicationTag{},
	}
}

// WithCode sets the method code.
func (m *MethodDetails) WithCode(code string) *MethodDetails {
	m.Code = &code
	return m
}

// WithIcon sets the inline icon data.
func (m *MethodDetails) WithIcon(icon string) *MethodDetails {
	m.Icon = &icon
	return m
}

// WithIconFile reads an icon file and sets the inline icon data.
func (m *MethodDetails) WithIconFile(path string) (*MethodDetails, error) {
	icon, err := IconFromFile(path)
	if err != nil {
		return nil, err
	}
	return m.WithIcon(icon), nil
}

// WithIconURL sets the icon URL after validating it.
func (m *MethodDetails) WithIconURL(rawURL string) (*MethodDetails, error) {
	u, err := parseAbsoluteURL(rawURL)
	if err != nil {
		return nil, err
	}
	m.IconURL = &u
	return m, nil
}

// WithURL sets the method URL after validating it.
func (m *MethodDetails) WithURL(rawURL string) (*MethodDetails, error) {
	u, err := parseAbsoluteURL(rawURL)
	if err != nil {
		return nil, err
	}
	m.URL = &u
	return m, nil
}

// AsTeacherApplication tags the method as a teacher application.
func (m *MethodDetails) AsTeacherApplication() *MethodDetails {
	m.Tags = addTag(m.Tags, TagTeacherApplication)
	return m
}

// AsTestApplication tags the method as a test application.
func (m *MethodDetails) AsTestApplication() *MethodDetails {
	m.Tags = addTag(m.Tags, TagTestApplication)
	return m
}

// ProductDetailsList wraps the product collection response.
type ProductDetailsList struct {
	Products []ProductDetails `json:"producten"`
}

// ProductDetails describes a licensed product within a method. Unlike
// MethodDetails, the URL is required.
type ProductDetails struct {
	ID      string           `json:"id"`
	Code    *string          `json:"code,omitempty"`
	Name    string           `json:"naam"`
	Icon    *string          `json:"icon,omitempty"`
	IconURL *string          `json:"iconUrl,omitempty"`
	URL     string           `json:"url"`
	Tags    []ApplicationTag `json:"tags"`
}

// NewProductDetails returns a product with the required fields set.
func NewProductDetails(id, name, rawURL string) (*ProductDetails, error) {
	u, err := parseAbsoluteURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &ProductDetails{
		ID:   id,
		Name: name,
		URL:  u,
		Tags: []ApplicationTag{},
	}, nil
}

// WithCode sets the product code.
func (p *ProductDetails) WithCode(code string) *ProductDetails {
	p.Code = &code
	return p
}

// WithIcon sets the inline icon data.
func (p *ProductDetails) WithIcon(icon string) *ProductDetails {
	p.Icon = &icon
	return p
}

// WithIconFile reads an icon file and sets the inline icon data.
func (p *ProductDetails) WithIconFile(path string) (*ProductDetails, error) {
	icon, err := IconFromFile(path)
	if err != nil {
		return nil, err
	}
	return p.WithIcon(icon), nil
}

// WithIconURL sets the icon URL after validating it.
func (p *ProductDetails) WithIconURL(rawURL string) (*ProductDetails, error) {
	u, err := parseAbsoluteURL(rawURL)
	if err != nil {
		return nil, err
	}
	p.IconURL = &u
	return p, nil
}

// AsTeacherApplication tags the product as a teacher application.
func (p *ProductDetails) AsTeacherApplication() *ProductDetails {
	p.Tags = addTag(p.Tags, TagTeacherApplication)
	return p
}

// AsTestApplication tags the product as a test application.
func (p *ProductDetails) AsTestApplication() *ProductDetails {
	p.Tags = addTag(p.Tags, TagTestApplication)
	return p
}

// UserIDList carries Basispoort user IDs for license assignment.
type UserIDList struct {
	Users []rest.ID `json:"gebruikers"`
}

// UserChainID identifies a user by institution and ECK chain ID.
type UserChainID struct {
	InstitutionID rest.ID `json:"instellingId"`
	ChainID       string  `json:"eckId"`
}

// UserChainIDList carries chain-ID user references.
type UserChainIDList struct {
	Users []UserChainID `json:"gebruikers"`
}

// BulkRequest grants or revokes permissions for many users on many
// methods and products in one call.
type BulkRequest struct {
	MethodIDs    []string      `json:"methodes"`
	ProductIDs   []string      `json:"producten"`
	UserIDs      []rest.ID     `json:"gebruikers"`
	UserChainIDs []UserChainID `json:"gebruikerEckIds"`
}

// IconFromFile reads an icon file and encodes it as base64, prefixed by
// a mime type for the extensions the service recognizes.
func IconFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "reading icon file %q", path)
	}

	var prefix string
	switch filepath.Ext(path) {
	case ".svg":
		prefix = "image/svg+xml,"
	case ".png":
		prefix = "image/png,"
	}

	return prefix + base64.StdEncoding.EncodeToString(data), nil
}

func parseAbsoluteURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidURL, err, "parsing URL %q", rawURL)
	}
	if !u.IsAbs() {
		return "", errors.New(errors.ErrCodeInvalidURL, "URL %q is not absolute", rawURL)
	}
	return u.String(), nil
}

func addTag(tags []ApplicationTag, tag ApplicationTag) []ApplicationTag {
	if slices.Contains(tags, tag) {
		return tags
	}
	return append(tags, tag)
}
