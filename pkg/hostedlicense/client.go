// Package hostedlicense implements the hosted license provider service
// ("Hosted Lika") API: method and product management, license
// assignment per user ID or ECK chain ID, and bulk permission changes.
package hostedlicense

import (
	"context"
	"net/url"

	"github.com/scholenwerk/basispoort-client/pkg/errors"
	"github.com/scholenwerk/basispoort-client/pkg/rest"
)

// Client is a typed client for the hosted license provider API. All
// endpoint paths are scoped under the provider's identity code.
type Client struct {
	rest         *rest.Client
	identityCode string
	basePath     string
}

// NewClient returns a hosted license provider client for the given
// identity code. The code is validated as a single path segment.
func NewClient(rc *rest.Client, identityCode string) (*Client, error) {
	if err := errors.ValidateIdentityCode(identityCode); err != nil {
		return nil, err
	}
	return &Client{
		rest:         rc,
		identityCode: identityCode,
		basePath:     "hosted-lika/management/lika/" + url.PathEscape(identityCode) + "/",
	}, nil
}

// IdentityCode returns the provider identity code this client is
// scoped to.
func (c *Client) IdentityCode() string {
	return c.identityCode
}

func (c *Client) path(p string) string {
	return c.basePath + p
}

func (c *Client) methodPath(methodID, suffix string) (string, error) {
	p, err := rest.Expand("methode/{methodeId}", "methodeId", methodID)
	if err != nil {
		return "", err
	}
	return c.basePath + p + suffix, nil
}

func (c *Client) productPath(methodID, productID, suffix string) (string, error) {
	p, err := rest.Expand("methode/{methodeId}/product/{productId}",
		"methodeId", methodID, "productId", productID)
	if err != nil {
		return "", err
	}
	return c.basePath + p + suffix, nil
}

// GetMethods fetches all methods of the provider.
func (c *Client) GetMethods(ctx context.Context) (*MethodDetailsList, error) {
	var list MethodDetailsList
	if err := c.rest.Get(ctx, c.path("methode"), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetMethod fetches a single method.
func (c *Client) GetMethod(ctx context.Context, methodID string) (*MethodDetails, error) {
	p, err := c.methodPath(methodID, "")
	if err != nil {
		return nil, err
	}
	var method MethodDetails
	if err := c.rest.Get(ctx, p, &method); err != nil {
		return nil, err
	}
	return &method, nil
}

// CreateMethod registers a new method.
func (c *Client) CreateMethod(ctx context.Context, method *MethodDetails) error {
	if err := errors.ValidateResourceID(method.ID); err != nil {
		return err
	}
	return c.rest.Post(ctx, c.path("methode"), method, nil)
}

// UpdateMethod replaces an existing method, addressed by its ID.
func (c *Client) UpdateMethod(ctx context.Context, method *MethodDetails) error {
	p, err := c.methodPath(method.ID, "")
	if err != nil {
		return err
	}
	return c.rest.Put(ctx, p, method, nil)
}

// DeleteMethod removes a method.
func (c *Client) DeleteMethod(ctx context.Context, methodID string) error {
	p, err := c.methodPath(methodID, "")
	if err != nil {
		return err
	}
	return c.rest.Delete(ctx, p, nil)
}

// GetMethodUserIDs fetches the users licensed for a method.
func (c *Client) GetMethodUserIDs(ctx context.Context, methodID string) (*UserIDList, error) {
	p, err := c.methodPath(methodID, "/gebruiker")
	if err != nil {
		return nil, err
	}
	var users UserIDList
	if err := c.rest.Get(ctx, p, &users); err != nil {
		return nil, err
	}
	return &users, nil
}

// SetMethodUserIDs replaces the users licensed for a method.
func (c *Client) SetMethodUserIDs(ctx context.Context, methodID string, users *UserIDList) error {
	p, err := c.methodPath(methodID, "/gebruiker")
	if err != nil {
		return err
	}
	return c.rest.Put(ctx, p, users, nil)
}

// DeleteMethodUserIDs revokes the method license for all users.
func (c *Client) DeleteMethodUserIDs(ctx context.Context, methodID string) error {
	p, err := c.methodPath(methodID, "/gebruiker")
	if err != nil {
		return err
	}
	return c.rest.Delete(ctx, p, nil)
}

// AddMethodUserIDs licenses additional users for a method.
func (c *Client) AddMethodUserIDs(ctx context.Context, methodID string, users *UserIDList) error {
	p, err := c.methodPath(methodID, "/gebruiker/addlist")
	if err != nil {
		return err
	}
	return c.rest.Post(ctx, p, users, nil)
}

// RemoveMethodUserIDs revokes the method license for the given users.
func (c *Client) RemoveMethodUserIDs(ctx context.Context, methodID string, users *UserIDList) error {
	p, err := c.methodPath(methodID, "/gebruiker/removelist")
	if err != nil {
		return err
	}
	return c.rest.Post(ctx, p, users, nil)
}

// GetMethodUserChainIDs fetches the chain-ID users licensed for a
// method.
func (c *Client) GetMethodUserChainIDs(ctx context.Context, methodID string) (*UserChainIDList, error) {
	p, err := c.methodPath(methodID, "/gebruiker_eckid")
	if err != nil {
		return nil, err
	}
	var users UserChainIDList
	if err := c.rest.Get(ctx, p, &users); err != nil {
		return nil, err
	}
	return &users, nil
}

// SetMethodUserChainIDs replaces the chain-ID users licensed for a
// method.
func (c *Client) SetMethodUserChainIDs(ctx context.Context, methodID string, users *UserChainIDList) error {
	p, err := c.methodPath(methodID, "/gebruiker_eckid")
	if err != nil {
		return err
	}
	return c.rest.Put(ctx, p, users, nil)
}

// DeleteMethodUserChainIDs revokes the method license for all chain-ID
// users.
func (c *Client) DeleteMethodUserChainIDs(ctx context.Context, methodID string) error {
	p, err := c.methodPath(methodID, "/gebruiker_eckid")
	if err != nil {
		return err
	}
	return c.rest.Delete(ctx, p, nil)
}

// AddMethodUserChainIDs licenses additional chain-ID users for a
// method.
func (c *Client) AddMethodUserChainIDs(ctx context.Context, methodID string, users *UserChainIDList) error {
	p, err := c.methodPath(methodID, "/gebruiker_eckid/addlist")
	if err != nil {
		return err
	}
	return c.rest.Post(ctx, p, users, nil)
}

// RemoveMethodUserChainIDs revokes the method license for the given
// chain-ID users.
func (c *Client) RemoveMethodUserChainIDs(ctx context.Context, methodID string, users *UserChainIDList) error {
	p, err := c.methodPath(methodID, "/gebruiker_eckid/removelist")
	if err != nil {
		return err
	}
	return c.rest.Post(ctx, p, users, nil)
}

// GetProducts fetches all products of a method.
func (c *Client) GetProducts(ctx context.Context, methodID string) (*ProductDetailsList, error) {
	p, err := c.methodPath(methodID, "/product")
	if err != nil {
		return nil, err
	}
	var list ProductDetailsList
	if err := c.rest.Get(ctx, p, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, methodID, productID string) (*ProductDetails, error) {
	p, err := c.productPath(methodID, productID, "")
	if err != nil {
		return nil, err
	}
	var product ProductDetails
	if err := c.rest.Get(ctx, p, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct registers a new product under a method.
func (c *Client) CreateProduct(ctx context.Context, methodID string, product *ProductDetails) error {
	if err := errors.ValidateResourceID(product.ID); err != nil {
		return err
	}
	p, err := c.methodPath(methodID, "/product")
	if err != nil {
		return err
	}
	return c.rest.Post(ctx, p, product, nil)
}

// UpdateProduct replaces an existing product, addressed by its ID.
func (c *Client) UpdateProduct(ctx context.Context, methodID string, product *ProductDetails) error {
	p, err := c.productPath(methodID, product.ID, "")
	if err != nil {
		return err
	}
	return c.rest.Put(ctx, p, product, nil)
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, methodID, productID string) error {
	p, err := c.productPath(methodID, productID, "")
	if err != nil {
		return err
	}
	return c.rest.Delete(ctx, p, nil)
}

// GetProductUserIDs fetches the users licensed for a product.
func (c *Client) GetProductUserIDs(ctx context.Context, methodID, productID string) (*UserIDList, error) {
	p, err := c.productPath(methodID, productID, "/gebruiker")
	if err != nil {
		return nil, err
	}
	var users UserIDList
	if err := c.rest.Get(ctx, p, &users); err != nil {
		return nil, err
	}
	return &users, nil
}

// SetProductUserIDs replaces the users licensed for a product.
func (c *Client) SetProductUserIDs(ctx context.Context, methodID, productID string, users *UserIDList) error {
	p, err := c.productPath(methodID, productID, "/gebruiker")
	if err != nil {
		return err
	}
	return c.rest.Put(ctx, p, users, nil)
}

// DeleteProductUserIDs revokes the product license for all users.
func (c *Client) DeleteProductUserIDs(ctx context.Context, methodID, productID string) error {
	p, err := c.productPath(methodID, productID, "/gebruiker")
	if err != nil {
		return err
	}
	return c.rest.Delete(ctx, p, nil)
}

// AddProductUserIDs licenses additional users for a product.
func (c *Client) AddProductUserIDs(ctx context.Context, methodID, productID string, users *UserIDList) error {
	p, err := c.productPath(methodID, productID, "/gebruiker/addlist")
	if err != nil {
		return err
	}
	return c.rest.Post(ctx, p, users, nil)
}

// RemoveProductUserIDs revokes the product license for the given users.
func (c *Client) RemoveProductUserIDs(ctx context.Context, methodID, productID string, users *UserIDList) error {
	p, err := c.productPath(methodID, productID, "/gebruiker/removelist")
	if err != nil {
		return err
	}
	return c.rest.Post(ctx, p, users, nil)
}

// GetProductUserChainIDs fetches the chain-ID users licensed for a
// product.
func (c *Client) GetProductUserChainIDs(ctx context.Context, methodID, productID string) (*UserChainIDList, error) {
	p, err := c.productPath(methodID, productID, "/gebruiker_eckid")
	if err != nil {
		return nil, err
	}
	var users UserChainIDList
	if err := c.rest.Get(ctx, p, &users); err != nil {
		return nil, err
	}
	return &users, nil
}

// SetProductUserChainIDs replaces the chain-ID users licensed for a
// product.
func (c *Client) SetProductUserChainIDs(ctx context.Context, methodID, productID string, users *UserChainIDList) error {
	p, err := c.productPath(methodID, productID, "/gebruiker_eckid")
	if err != nil {
		return err
	}
	return c.rest.Put(ctx, p, users, nil)
}

// DeleteProductUserChainIDs revokes the product license for all
// chain-ID users.
func (c *Client) DeleteProductUserChainIDs(ctx context.Context, methodID, productID string) error {
	p, err := c.productPath(methodID, productID, "/gebruiker_eckid")
	if err != nil {
		return err
	}
	return c.rest.Delete(ctx, p, nil)
}

// AddProductUserChainIDs licenses additional chain-ID users for a
// product.
func (c *Client) AddProductUserChainIDs(ctx context.Context, methodID, productID string, users *UserChainIDList) error {
	p, err := c.productPath(methodID, productID, "/gebruiker_eckid/addlist")
	if err != nil {
		return err
	}
	return c.rest.Post(ctx, p, users, nil)
}

// RemoveProductUserChainIDs revokes the product license for the given
// chain-ID users.
func (c *Client) RemoveProductUserChainIDs(ctx context.Context, methodID, productID string, users *UserChainIDList) error {
	p, err := c.productPath(methodID, productID, "/gebruiker_eckid/removelist")
	if err != nil {
		return err
	}
	return c.rest.Post(ctx, p, users, nil)
}

// BulkGrantPermissions grants permissions for many users on many
// methods and products at once.
func (c *Client) BulkGrantPermissions(ctx context.Context, req *BulkRequest) error {
	return c.rest.Post(ctx, c.path("permissions/grant"), req, nil)
}

// BulkRevokePermissions revokes permissions for many users on many
// methods and products at once.
func (c *Client) BulkRevokePermissions(ctx context.Context, req *BulkRequest) error {
	return c.rest.Post(ctx, c.path("permissions/revoke"), req, nil)
}
