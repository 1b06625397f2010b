package state_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/api"
	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/sandbox"
	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/state"
)

func newSandboxStore(t *testing.T) (*state.Store, *sandbox.Repository) {
	t.Helper()
	db, err := sandbox.OpenSQLite("")
	if err != nil {
		t.Fatalf("OpenSQLite returned error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo, err := sandbox.NewRepository(db)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	srv := httptest.NewServer(sandbox.New(repo, nil, sandbox.Options{}))
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL + "/api")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return state.New(client), repo
}

func TestStoreAgainstSandbox_Scenario(t *testing.T) {
	ctx := context.Background()
	store, repo := newSandboxStore(t)

	a, err := repo.Create(ctx, api.CreateItemDTO{Title: "A"})
	if err != nil {
		t.Fatalf("seed Create returned error: %v", err)
	}

	if _, err := store.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	b, err := store.Create(ctx, api.CreateItemDTO{Title: "B"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	title := "B2"
	if _, err := store.Update(ctx, b.ID, api.UpdateItemDTO{Title: &title}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if len(store.Items()) != 2 {
		t.Fatalf("Items = %#v, want 2 entries", store.Items())
	}
	if err := store.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	items := store.Items()
	if len(items) != 1 || items[0].ID != b.ID || items[0].Title != "B2" {
		t.Fatalf("Items = %#v, want only B2", items)
	}
	snap := store.Snapshot()
	if snap.Loading || snap.HasError() {
		t.Fatalf("snapshot loading=%v err=%q, want idle without error", snap.Loading, snap.Err)
	}
}

func TestStoreAgainstSandbox_GetByIDMissing(t *testing.T) {
	ctx := context.Background()
	store, _ := newSandboxStore(t)

	_, err := store.GetByID(ctx, 99)
	if !errors.Is(err, state.ErrFetchOneFailed) {
		t.Fatalf("GetByID error = %v, want ErrFetchOneFailed", err)
	}
	var terr *api.TransportError
	if !errors.As(err, &terr) || terr.StatusCode != 404 || terr.Message != "Item not found" {
		t.Fatalf("GetByID error = %v, want 404 Item not found", err)
	}
	if store.Err() != state.EnglishMessages.FetchOneFailed {
		t.Fatalf("Err() = %q, want %q", store.Err(), state.EnglishMessages.FetchOneFailed)
	}
	if len(store.Items()) != 0 {
		t.Fatalf("Items = %#v, want untouched empty collection", store.Items())
	}
}

func TestStoreAgainstSandbox_CreateFailureUsesFixedMessage(t *testing.T) {
	ctx := context.Background()
	store, _ := newSandboxStore(t)

	_, err := store.Create(ctx, api.CreateItemDTO{Title: ""})
	if !errors.Is(err, state.ErrCreateFailed) {
		t.Fatalf("Create error = %v, want ErrCreateFailed", err)
	}
	if store.Err() != state.EnglishMessages.CreateFailed {
		t.Fatalf("Err() = %q, want fixed create message", store.Err())
	}
}
