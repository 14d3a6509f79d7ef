package rest

import (
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/scholenwerk/basispoort-client/pkg/errors"
)

// testClient spins up a mock server and returns a Client pointed at it.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatalf("parsing server URL: %v", err)
	}

	client, err := NewClientBuilder("unused.pem", EnvironmentTest).
		BaseURL(base).
		HTTPClient(server.Client()).
		Logger(log.New(io.Discard)).
		Build()
	if err != nil {
		t.Fatalf("building client: %v", err)
	}
	return client
}

func TestPostDecodesCreatedResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/rest/v2/instellingen" {
			t.Errorf("path = %s, want /rest/v2/instellingen", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("Accept = %q, want application/json", accept)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 42}`))
	})

	client := testClient(t, handler)

	var created struct {
		ID ID `json:"id"`
	}
	err := client.Post(t.Context(), "rest/v2/instellingen", map[string]string{"naam": "De Regenboog"}, &created)
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if created.ID != 42 {
		t.Errorf("created ID = %v, want 42", created.ID)
	}
}

func TestPutSendsRequestBody(t *testing.T) {
	var received []byte
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})

	client := testClient(t, handler)

	body := map[string]any{"naam": "Rekenen", "tags": []string{"leerkrachtApplicatie"}}
	if err := client.Put(t.Context(), "methode/m-1", body, nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	want := `{"naam":"Rekenen","tags":["leerkrachtApplicatie"]}`
	if string(received) != want {
		t.Errorf("request body = %s, want %s", received, want)
	}
}

func TestErrorStatusCarriesDecodedPayload(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "boom"}`))
	})

	client := testClient(t, handler)

	err := client.Get(t.Context(), "rest/v2/instellingen", nil)
	if err == nil {
		t.Fatal("Get() error = nil, want status error")
	}

	var statusErr *errors.StatusError
	if !stderrors.As(err, &statusErr) {
		t.Fatalf("error type = %T, want *errors.StatusError", err)
	}
	if statusErr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", statusErr.Status)
	}
	payload, ok := statusErr.Payload.(map[string]any)
	if !ok || payload["error"] != "boom" {
		t.Errorf("Payload = %#v, want map with error=boom", statusErr.Payload)
	}
	if statusErr.Raw != `{"error": "boom"}` {
		t.Errorf("Raw = %q", statusErr.Raw)
	}
	if !errors.Is(err, errors.ErrCodeErrorStatus) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeErrorStatus)
	}
}

func TestErrorStatusWithNonJSONBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("instelling niet gevonden"))
	})

	client := testClient(t, handler)

	err := client.Get(t.Context(), "rest/v2/instellingen/999", nil)

	var statusErr *errors.StatusError
	if !stderrors.As(err, &statusErr) {
		t.Fatalf("error type = %T, want *errors.StatusError", err)
	}
	if statusErr.Payload != nil {
		t.Errorf("Payload = %#v, want nil for non-JSON body", statusErr.Payload)
	}
	if statusErr.Raw != "instelling niet gevonden" {
		t.Errorf("Raw = %q", statusErr.Raw)
	}
}

func TestDeserializationErrorKeepsStatus(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`["not", "an", "object"]`))
	})

	client := testClient(t, handler)

	var out struct {
		Name string `json:"naam"`
	}
	err := client.Get(t.Context(), "rest/v2/instellingen/1", &out)
	if err == nil {
		t.Fatal("Get() error = nil, want deserialization error")
	}

	var desErr *errors.DeserializationError
	if !stderrors.As(err, &desErr) {
		t.Fatalf("error type = %T, want *errors.DeserializationError", err)
	}
	if desErr.Status != http.StatusOK {
		t.Errorf("Status = %d, want 200", desErr.Status)
	}
	if desErr.Snippet != `["not", "an", "object"]` {
		t.Errorf("Snippet = %q", desErr.Snippet)
	}
}

func TestEmptyBodyWithExpectedContent(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	client := testClient(t, handler)

	var out struct{}
	err := client.Get(t.Context(), "rest/v2/instellingen/1", &out)
	if !errors.Is(err, errors.ErrCodeDeserialization) {
		t.Errorf("error = %v, want DESERIALIZATION_ERROR", err)
	}
}

func TestNoContentResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	client := testClient(t, handler)

	if err := client.Delete(t.Context(), "methode/m-1", nil); err != nil {
		t.Errorf("Delete() error = %v, want nil", err)
	}
}

func TestGetQueryEncodesParameters(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("brincode") != "12AB" {
			t.Errorf("brincode = %q, want 12AB", q.Get("brincode"))
		}
		if q.Get("activeOnly") != "true" {
			t.Errorf("activeOnly = %q, want true", q.Get("activeOnly"))
		}
		w.Write([]byte(`[]`))
	})

	client := testClient(t, handler)

	query := url.Values{}
	query.Set("brincode", "12AB")
	query.Set("activeOnly", "true")

	var results []any
	if err := client.GetQuery(t.Context(), "rest/v2/instellingen/nawsearch", query, &results); err != nil {
		t.Fatalf("GetQuery() error = %v", err)
	}
}

func TestBaseURLWithoutSeparatorFailsBeforeSending(t *testing.T) {
	var requests int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base, _ := url.Parse(server.URL + "/api")
	client, err := NewClientBuilder("unused.pem", EnvironmentTest).
		BaseURL(base).
		HTTPClient(server.Client()).
		Logger(log.New(io.Discard)).
		Build()
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	err = client.Get(t.Context(), "instellingen", nil)
	if !errors.Is(err, errors.ErrCodeInvalidURL) {
		t.Errorf("error = %v, want INVALID_URL", err)
	}
	if requests != 0 {
		t.Errorf("server received %d requests, want 0", requests)
	}
}

func TestLeadingSlashPathRejected(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	err := client.Get(t.Context(), "/rest/v2/instellingen", nil)
	if !errors.Is(err, errors.ErrCodeInvalidURL) {
		t.Errorf("error = %v, want INVALID_URL", err)
	}
}

func TestTransportErrorWrapsCause(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base, _ := url.Parse(server.URL + "/")
	server.Close()

	client, err := NewClientBuilder("unused.pem", EnvironmentTest).
		BaseURL(base).
		HTTPClient(&http.Client{}).
		Logger(log.New(io.Discard)).
		Build()
	if err != nil {
		t.Fatalf("building client: %v", err)
	}

	err = client.Get(t.Context(), "rest/v2/instellingen", nil)
	if !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("error = %v, want TRANSPORT_ERROR", err)
	}
}

func TestConcurrentGets(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 7}`))
	})

	client := testClient(t, handler)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out struct {
				ID ID `json:"id"`
			}
			if err := client.Get(t.Context(), "rest/v2/instellingen/7", &out); err != nil {
				errs <- err
				return
			}
			if out.ID != 7 {
				errs <- stderrors.New("unexpected ID")
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Get() error = %v", err)
	}
}

func TestBuildMissingCertificate(t *testing.T) {
	_, err := NewClientBuilder(filepath.Join(t.TempDir(), "missing.pem"), EnvironmentTest).
		Logger(log.New(io.Discard)).
		Build()
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("error = %v, want IO_ERROR", err)
	}
}

func TestBuildMalformedCertificate(t *testing.T) {
	certFile := filepath.Join(t.TempDir(), "garbage.pem")
	if err := os.WriteFile(certFile, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewClientBuilder(certFile, EnvironmentTest).
		Logger(log.New(io.Discard)).
		Build()
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("error = %v, want IO_ERROR", err)
	}
}
