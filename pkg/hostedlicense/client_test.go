package hostedlicense

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/scholenwerk/basispoort-client/pkg/errors"
	"github.com/scholenwerk/basispoort-client/pkg/rest"
)

// testClient serves a mock hosted license provider API and returns a
// Client scoped to the identity code "uitgeverij-x".
func testClient(t *testing.T, configure func(chi.Router)) *Client {
	t.Helper()

	router := chi.NewRouter()
	router.Route("/hosted-lika/management/lika/uitgeverij-x", configure)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	base, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatalf("parsing server URL: %v", err)
	}

	rc, err := rest.NewClientBuilder("unused.pem", rest.EnvironmentTest).
		BaseURL(base).
		HTTPClient(server.Client()).
		Logger(log.New(io.Discard)).
		Build()
	if err != nil {
		t.Fatalf("building rest client: %v", err)
	}

	client, err := NewClient(rc, "uitgeverij-x")
	if err != nil {
		t.Fatalf("building hosted license client: %v", err)
	}
	return client
}

func TestNewClientRejectsUnsafeIdentityCode(t *testing.T) {
	rc, err := rest.NewClientBuilder("unused.pem", rest.EnvironmentTest).
		HTTPClient(&http.Client{}).
		Logger(log.New(io.Discard)).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	for _, code := range []string{"", "a/b", ".."} {
		if _, err := NewClient(rc, code); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("NewClient(%q) error = %v, want INVALID_INPUT", code, err)
		}
	}
}

func TestMethodLifecycle(t *testing.T) {
	var created, updated, deleted bool

	client := testClient(t, func(r chi.Router) {
		r.Get("/methode", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`{"methodes": [{"id": "m-1", "naam": "Rekenen", "tags": []}]}`))
		})
		r.Post("/methode", func(w http.ResponseWriter, req *http.Request) {
			var method MethodDetails
			if err := json.NewDecoder(req.Body).Decode(&method); err != nil {
				t.Errorf("decoding create body: %v", err)
			}
			if method.ID != "m-2" {
				t.Errorf("created method ID = %q, want m-2", method.ID)
			}
			created = true
		})
		r.Get("/methode/{methodeId}", func(w http.ResponseWriter, req *http.Request) {
			if id := chi.URLParam(req, "methodeId"); id != "m-1" {
				t.Errorf("methodeId = %q, want m-1", id)
			}
			w.Write([]byte(`{"id": "m-1", "naam": "Rekenen", "code": "rek", "tags": ["leerkrachtApplicatie"]}`))
		})
		r.Put("/methode/{methodeId}", func(w http.ResponseWriter, req *http.Request) {
			updated = true
		})
		r.Delete("/methode/{methodeId}", func(w http.ResponseWriter, req *http.Request) {
			deleted = true
			w.WriteHeader(http.StatusNoContent)
		})
	})

	ctx := t.Context()

	list, err := client.GetMethods(ctx)
	if err != nil {
		t.Fatalf("GetMethods() error = %v", err)
	}
	if len(list.Methods) != 1 || list.Methods[0].ID != "m-1" {
		t.Errorf("GetMethods() = %+v", list)
	}

	method, err := client.GetMethod(ctx, "m-1")
	if err != nil {
		t.Fatalf("GetMethod() error = %v", err)
	}
	if method.Code == nil || *method.Code != "rek" {
		t.Errorf("method code = %v, want rek", method.Code)
	}
	if len(method.Tags) != 1 || method.Tags[0] != TagTeacherApplication {
		t.Errorf("method tags = %v", method.Tags)
	}

	if err := client.CreateMethod(ctx, NewMethodDetails("m-2", "Taal")); err != nil {
		t.Fatalf("CreateMethod() error = %v", err)
	}
	if err := client.UpdateMethod(ctx, NewMethodDetails("m-1", "Rekenen 2.0")); err != nil {
		t.Fatalf("UpdateMethod() error = %v", err)
	}
	if err := client.DeleteMethod(ctx, "m-1"); err != nil {
		t.Fatalf("DeleteMethod() error = %v", err)
	}

	if !created || !updated || !deleted {
		t.Errorf("handler hits: created=%v updated=%v deleted=%v", created, updated, deleted)
	}
}

func TestCreateMethodValidatesID(t *testing.T) {
	client := testClient(t, func(r chi.Router) {})

	err := client.CreateMethod(t.Context(), NewMethodDetails("m/../1", "Rekenen"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("CreateMethod() error = %v, want INVALID_INPUT", err)
	}
}

func TestMethodUserIDs(t *testing.T) {
	var setBody, addBody, removeBody UserIDList

	client := testClient(t, func(r chi.Router) {
		r.Get("/methode/{methodeId}/gebruiker", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`{"gebruikers": [11, 12, 13]}`))
		})
		r.Put("/methode/{methodeId}/gebruiker", func(w http.ResponseWriter, req *http.Request) {
			json.NewDecoder(req.Body).Decode(&setBody)
		})
		r.Post("/methode/{methodeId}/gebruiker/addlist", func(w http.ResponseWriter, req *http.Request) {
			json.NewDecoder(req.Body).Decode(&addBody)
		})
		r.Post("/methode/{methodeId}/gebruiker/removelist", func(w http.ResponseWriter, req *http.Request) {
			json.NewDecoder(req.Body).Decode(&removeBody)
		})
		r.Delete("/methode/{methodeId}/gebruiker", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	ctx := t.Context()

	users, err := client.GetMethodUserIDs(ctx, "m-1")
	if err != nil {
		t.Fatalf("GetMethodUserIDs() error = %v", err)
	}
	if len(users.Users) != 3 || users.Users[0] != 11 {
		t.Errorf("GetMethodUserIDs() = %+v", users)
	}

	if err := client.SetMethodUserIDs(ctx, "m-1", &UserIDList{Users: []rest.ID{1, 2}}); err != nil {
		t.Fatalf("SetMethodUserIDs() error = %v", err)
	}
	if len(setBody.Users) != 2 {
		t.Errorf("set body = %+v", setBody)
	}

	if err := client.AddMethodUserIDs(ctx, "m-1", &UserIDList{Users: []rest.ID{3}}); err != nil {
		t.Fatalf("AddMethodUserIDs() error = %v", err)
	}
	if len(addBody.Users) != 1 || addBody.Users[0] != 3 {
		t.Errorf("add body = %+v", addBody)
	}

	if err := client.RemoveMethodUserIDs(ctx, "m-1", &UserIDList{Users: []rest.ID{1}}); err != nil {
		t.Fatalf("RemoveMethodUserIDs() error = %v", err)
	}
	if len(removeBody.Users) != 1 {
		t.Errorf("remove body = %+v", removeBody)
	}

	if err := client.DeleteMethodUserIDs(ctx, "m-1"); err != nil {
		t.Fatalf("DeleteMethodUserIDs() error = %v", err)
	}
}

func TestMethodUserChainIDs(t *testing.T) {
	var setBody UserChainIDList

	client := testClient(t, func(r chi.Router) {
		r.Get("/methode/{methodeId}/gebruiker_eckid", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`{"gebruikers": [{"instellingId": 42, "eckId": "eck-1"}]}`))
		})
		r.Put("/methode/{methodeId}/gebruiker_eckid", func(w http.ResponseWriter, req *http.Request) {
			json.NewDecoder(req.Body).Decode(&setBody)
		})
	})

	ctx := t.Context()

	users, err := client.GetMethodUserChainIDs(ctx, "m-1")
	if err != nil {
		t.Fatalf("GetMethodUserChainIDs() error = %v", err)
	}
	if len(users.Users) != 1 || users.Users[0].InstitutionID != 42 || users.Users[0].ChainID != "eck-1" {
		t.Errorf("GetMethodUserChainIDs() = %+v", users)
	}

	err = client.SetMethodUserChainIDs(ctx, "m-1", &UserChainIDList{
		Users: []UserChainID{{InstitutionID: 42, ChainID: "eck-2"}},
	})
	if err != nil {
		t.Fatalf("SetMethodUserChainIDs() error = %v", err)
	}
	if len(setBody.Users) != 1 || setBody.Users[0].ChainID != "eck-2" {
		t.Errorf("set body = %+v", setBody)
	}
}

func TestProductEndpoints(t *testing.T) {
	var createdProduct ProductDetails

	client := testClient(t, func(r chi.Router) {
		r.Get("/methode/{methodeId}/product", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`{"producten": [{"id": "p-1", "naam": "Oefenen", "url": "https://example.com/app", "tags": []}]}`))
		})
		r.Post("/methode/{methodeId}/product", func(w http.ResponseWriter, req *http.Request) {
			json.NewDecoder(req.Body).Decode(&createdProduct)
		})
		r.Get("/methode/{methodeId}/product/{productId}", func(w http.ResponseWriter, req *http.Request) {
			if id := chi.URLParam(req, "productId"); id != "p-1" {
				t.Errorf("productId = %q, want p-1", id)
			}
			w.Write([]byte(`{"id": "p-1", "naam": "Oefenen", "url": "https://example.com/app", "tags": []}`))
		})
		r.Get("/methode/{methodeId}/product/{productId}/gebruiker", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(`{"gebruikers": [7]}`))
		})
	})

	ctx := t.Context()

	list, err := client.GetProducts(ctx, "m-1")
	if err != nil {
		t.Fatalf("GetProducts() error = %v", err)
	}
	if len(list.Products) != 1 || list.Products[0].URL != "https://example.com/app" {
		t.Errorf("GetProducts() = %+v", list)
	}

	product, err := NewProductDetails("p-2", "Toetsen", "https://example.com/toets")
	if err != nil {
		t.Fatal(err)
	}
	if err := client.CreateProduct(ctx, "m-1", product); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if createdProduct.ID != "p-2" {
		t.Errorf("created product = %+v", createdProduct)
	}

	if _, err := client.GetProduct(ctx, "m-1", "p-1"); err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}

	users, err := client.GetProductUserIDs(ctx, "m-1", "p-1")
	if err != nil {
		t.Fatalf("GetProductUserIDs() error = %v", err)
	}
	if len(users.Users) != 1 || users.Users[0] != 7 {
		t.Errorf("GetProductUserIDs() = %+v", users)
	}
}

func TestBulkPermissions(t *testing.T) {
	var grant, revoke BulkRequest

	client := testClient(t, func(r chi.Router) {
		r.Post("/permissions/grant", func(w http.ResponseWriter, req *http.Request) {
			json.NewDecoder(req.Body).Decode(&grant)
		})
		r.Post("/permissions/revoke", func(w http.ResponseWriter, req *http.Request) {
			json.NewDecoder(req.Body).Decode(&revoke)
		})
	})

	ctx := t.Context()

	req := &BulkRequest{
		MethodIDs:    []string{"m-1"},
		ProductIDs:   []string{"p-1"},
		UserIDs:      []rest.ID{1, 2},
		UserChainIDs: []UserChainID{{InstitutionID: 42, ChainID: "eck-1"}},
	}

	if err := client.BulkGrantPermissions(ctx, req); err != nil {
		t.Fatalf("BulkGrantPermissions() error = %v", err)
	}
	if len(grant.MethodIDs) != 1 || len(grant.UserIDs) != 2 || len(grant.UserChainIDs) != 1 {
		t.Errorf("grant body = %+v", grant)
	}

	if err := client.BulkRevokePermissions(ctx, req); err != nil {
		t.Fatalf("BulkRevokePermissions() error = %v", err)
	}
	if len(revoke.ProductIDs) != 1 {
		t.Errorf("revoke body = %+v", revoke)
	}
}
