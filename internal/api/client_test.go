package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234/api/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Path != "/api" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL returned nil error for missing host")
	}
}

func TestClient_ResolveKeepsBasePath(t *testing.T) {
	c, err := NewClient("http://example.com/api/")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if got := c.resolve("/items/7"); got != "http://example.com/api/items/7" {
		t.Fatalf("resolve = %q, want http://example.com/api/items/7", got)
	}
}

func TestClient_ItemEndpoints(t *testing.T) {
	t.Parallel()

	type call struct {
		method string
		path   string
		body   string
	}
	var calls []call
	var headers http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, call{r.Method, r.URL.Path, strings.TrimSpace(string(body))})
		headers = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/items":
			_ = json.NewEncoder(w).Encode([]Item{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}})
		case r.Method == http.MethodGet && r.URL.Path == "/api/items/2":
			_ = json.NewEncoder(w).Encode(Item{ID: 2, Title: "B"})
		case r.Method == http.MethodPost && r.URL.Path == "/api/items":
			_ = json.NewEncoder(w).Encode(Item{ID: 3, Title: "C", Description: "new"})
		case r.Method == http.MethodPut && r.URL.Path == "/api/items/3":
			_ = json.NewEncoder(w).Encode(Item{ID: 3, Title: "C2", Description: "new"})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/items/3":
			_, _ = w.Write([]byte(`{"message":"Item deleted successfully"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/health":
			_, _ = w.Write([]byte(`{"status":"healthy"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL + "/api")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	items, err := c.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems returned error: %v", err)
	}
	if len(items) != 2 || items[0].ID != 1 || items[1].ID != 2 {
		t.Fatalf("ListItems = %#v, want ids 1,2 in order", items)
	}
	if headers.Get("X-Request-ID") == "" {
		t.Fatalf("X-Request-ID header missing")
	}
	if !strings.HasPrefix(headers.Get("User-Agent"), "taskflow/") {
		t.Fatalf("User-Agent = %q, want taskflow/*", headers.Get("User-Agent"))
	}

	item, err := c.GetItem(ctx, 2)
	if err != nil || item.ID != 2 {
		t.Fatalf("GetItem = %#v, %v; want id 2", item, err)
	}

	created, err := c.CreateItem(ctx, CreateItemDTO{Title: "C", Description: "new"})
	if err != nil || created.ID != 3 {
		t.Fatalf("CreateItem = %#v, %v; want id 3", created, err)
	}
	if headers.Get("Content-Type") != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", headers.Get("Content-Type"))
	}

	title := "C2"
	updated, err := c.UpdateItem(ctx, 3, UpdateItemDTO{Title: &title})
	if err != nil || updated.Title != "C2" {
		t.Fatalf("UpdateItem = %#v, %v; want title C2", updated, err)
	}

	if err := c.DeleteItem(ctx, 3); err != nil {
		t.Fatalf("DeleteItem returned error: %v", err)
	}

	health, err := c.Health(ctx)
	if err != nil || !health.Healthy() {
		t.Fatalf("Health = %#v, %v; want healthy", health, err)
	}

	want := []call{
		{http.MethodGet, "/api/items", ""},
		{http.MethodGet, "/api/items/2", ""},
		{http.MethodPost, "/api/items", `{"title":"C","description":"new"}`},
		{http.MethodPut, "/api/items/3", `{"title":"C2"}`},
		{http.MethodDelete, "/api/items/3", ""},
		{http.MethodGet, "/api/health", ""},
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %#v, want %d calls", calls, len(want))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d = %#v, want %#v", i, calls[i], want[i])
		}
	}
}

func TestClient_ErrorNormalization(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/items/404":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Item not found"}`))
		case "/items/500":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/items/422":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"detail":[{"loc":["body","title"],"msg":"field required"},{"loc":["body","description"],"msg":"too long"}]}`))
		case "/items/409":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"detail":{"code":7}}`))
		case "/items/400":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":null}`))
		case "/items/bad":
			_, _ = w.Write([]byte(`{not-json`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantMsg    string
	}{
		{name: "detail field", path: "/items/404", wantStatus: 404, wantMsg: "Item not found"},
		{name: "plain body", path: "/items/500", wantStatus: 500, wantMsg: DefaultErrorMessage},
		{name: "validation list detail", path: "/items/422", wantStatus: 422, wantMsg: "field required; too long"},
		{name: "object detail", path: "/items/409", wantStatus: 409, wantMsg: `{"code":7}`},
		{name: "null detail", path: "/items/400", wantStatus: 400, wantMsg: DefaultErrorMessage},
		{name: "undecodable success", path: "/items/bad", wantStatus: 200, wantMsg: "decode response"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out Item
			err := c.Send(context.Background(), http.MethodGet, tc.path, nil, &out)
			var terr *TransportError
			if !errors.As(err, &terr) {
				t.Fatalf("Send error = %v, want *TransportError", err)
			}
			if terr.StatusCode != tc.wantStatus {
				t.Fatalf("StatusCode = %d, want %d", terr.StatusCode, tc.wantStatus)
			}
			if !strings.Contains(terr.Message, tc.wantMsg) {
				t.Fatalf("Message = %q, want it to contain %q", terr.Message, tc.wantMsg)
			}
		})
	}
}

func TestClient_NetworkFailureCarriesUnderlyingMessage(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.ListItems(context.Background())
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("ListItems error = %v, want *TransportError", err)
	}
	if terr.StatusCode != 0 {
		t.Fatalf("StatusCode = %d, want 0", terr.StatusCode)
	}
	if terr.Err == nil || terr.Message != terr.Err.Error() {
		t.Fatalf("Message = %q, want underlying error text %v", terr.Message, terr.Err)
	}
	if terr.Message == DefaultErrorMessage {
		t.Fatalf("Message should not be the default for network failures")
	}
}

func TestClient_TimeoutSurfacesAsTransportError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewClient(server.URL, WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	err = c.DeleteItem(context.Background(), 1)
	var terr *TransportError
	if !errors.As(err, &terr) || terr.StatusCode != 0 {
		t.Fatalf("DeleteItem error = %v, want network-level TransportError", err)
	}
}

func TestNewClient_TimeoutIndependentOfOptionOrder(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want time.Duration
	}{
		{name: "defaults", want: DefaultTimeout},
		{name: "custom client without timeout", opts: []Option{WithHTTPClient(&http.Client{})}, want: DefaultTimeout},
		{name: "timeout then client", opts: []Option{WithTimeout(time.Second), WithHTTPClient(&http.Client{})}, want: time.Second},
		{name: "client then timeout", opts: []Option{WithHTTPClient(&http.Client{}), WithTimeout(time.Second)}, want: time.Second},
		{name: "client keeps its own timeout", opts: []Option{WithHTTPClient(&http.Client{Timeout: 3 * time.Second})}, want: 3 * time.Second},
		{name: "non-positive timeout ignored", opts: []Option{WithTimeout(0)}, want: DefaultTimeout},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewClient("", tc.opts...)
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			if c.http.Timeout != tc.want {
				t.Fatalf("Timeout = %v, want %v", c.http.Timeout, tc.want)
			}
		})
	}
}

func TestWithHTTPClient_DoesNotMutateCallerClient(t *testing.T) {
	supplied := &http.Client{}
	c, err := NewClient("", WithHTTPClient(supplied), WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if supplied.Timeout != 0 {
		t.Fatalf("caller client Timeout = %v, want untouched 0", supplied.Timeout)
	}
	if c.http == supplied {
		t.Fatalf("client shares the caller's *http.Client")
	}
}

func TestClient_RecordsMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/items/1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics returned error: %v", err)
	}
	c, err := NewClient(server.URL, WithMetrics(m))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if _, err := c.ListItems(context.Background()); err != nil {
		t.Fatalf("ListItems returned error: %v", err)
	}
	_, _ = c.GetItem(context.Background(), 1)

	if got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "200")); got != 1 {
		t.Fatalf("requests{GET,200} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "404")); got != 1 {
		t.Fatalf("requests{GET,404} = %v, want 1", got)
	}
	if _, err := NewMetrics(reg); err == nil {
		t.Fatalf("NewMetrics on same registry returned nil error, want duplicate registration error")
	}
}

func TestItemDTOValidate(t *testing.T) {
	long := strings.Repeat("x", MaxTitleLength+1)
	empty := ""
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "create ok", err: CreateItemDTO{Title: "A"}.Validate(), want: nil},
		{name: "create empty title", err: CreateItemDTO{}.Validate(), want: ErrEmptyTitle},
		{name: "create long title", err: CreateItemDTO{Title: long}.Validate(), want: ErrTitleTooLong},
		{name: "create long description", err: CreateItemDTO{Title: "A", Description: strings.Repeat("x", MaxDescriptionLength+1)}.Validate(), want: ErrDescriptionLimit},
		{name: "update nothing", err: UpdateItemDTO{}.Validate(), want: nil},
		{name: "update empty title", err: UpdateItemDTO{Title: &empty}.Validate(), want: ErrEmptyTitle},
		{name: "create multibyte title", err: CreateItemDTO{Title: strings.Repeat("项", MaxTitleLength)}.Validate(), want: nil},
	}
	for _, tc := range tests {
		if !errors.Is(tc.err, tc.want) {
			t.Fatalf("%s: Validate = %v, want %v", tc.name, tc.err, tc.want)
		}
	}
}
