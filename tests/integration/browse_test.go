// Package integration exercises the full stack against the mock backend:
// api client, record store, query engine, view state, and controllers.
package integration

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/cookbookd/recipe-browser/internal/testutil"
	"github.com/cookbookd/recipe-browser/pkg/api"
	"github.com/cookbookd/recipe-browser/pkg/auth"
	"github.com/cookbookd/recipe-browser/pkg/browse"
	"github.com/cookbookd/recipe-browser/pkg/catalog"
	"github.com/cookbookd/recipe-browser/pkg/favorites"
	"github.com/cookbookd/recipe-browser/pkg/query"
	"github.com/cookbookd/recipe-browser/pkg/store"
)

func setupStack(t *testing.T, records []catalog.Record) (*testutil.MockBackend, *api.Client, *store.Store) {
	t.Helper()

	mock := testutil.NewMockBackend(records)
	t.Cleanup(mock.Close)

	client, err := api.New(api.DefaultConfig(mock.URL()))
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}

	s, err := store.New(store.Config{Fetcher: client})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	return mock, client, s
}

func waitLoaded(t *testing.T, loading func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !loading() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("controller did not finish loading")
}

func TestListBrowsing_EndToEnd(t *testing.T) {
	records := []catalog.Record{
		{RecordID: "a1", DisplayID: 1, Title: "Apple Pie", ExtractedIngredients: catalog.StringList{"apple", "flour"}},
		{RecordID: "a2", DisplayID: 2, Title: "Garlic Chicken", ExtractedIngredients: catalog.StringList{"garlic", "chicken"}},
		{RecordID: "a3", DisplayID: 3, Title: "apple crumble", ExtractedIngredients: catalog.StringList{"apple", "oats"}},
	}
	mock, _, s := setupStack(t, records)

	c, err := browse.NewListController(browse.ListConfig{Store: s})
	if err != nil {
		t.Fatalf("NewListController: %v", err)
	}

	c.Mount(context.Background(), url.Values{})
	waitLoaded(t, c.Loading)

	c.SetSearch("apple")
	c.SetSortField(query.FieldTitle)

	got, pag := c.View()
	if len(got) != 2 || got[0].Title != "Apple Pie" || got[1].Title != "apple crumble" {
		t.Errorf("view = %+v", got)
	}
	if pag.Total != 2 {
		t.Errorf("total = %d", pag.Total)
	}

	// A second mount reuses the session cache.
	c.Unmount()
	c.Mount(context.Background(), url.Values{})
	waitLoaded(t, c.Loading)

	if got := mock.PathCount("/recipes"); got != 1 {
		t.Errorf("collection fetched %d times across mounts, want 1", got)
	}
}

func TestDetail_CacheFirstAcrossPages(t *testing.T) {
	mock, _, s := setupStack(t, testutil.SampleRecords(5))

	list, err := browse.NewListController(browse.ListConfig{Store: s})
	if err != nil {
		t.Fatalf("NewListController: %v", err)
	}
	list.Mount(context.Background(), url.Values{})
	waitLoaded(t, list.Loading)

	detail, err := browse.NewDetailController(browse.DetailConfig{Store: s})
	if err != nil {
		t.Fatalf("NewDetailController: %v", err)
	}

	rec, err := detail.Load(context.Background(), "rec-003")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Title != "Recipe 3" {
		t.Errorf("Title = %q", rec.Title)
	}

	// The record came from the identity cache, not a network call.
	if got := mock.PathCount("/recipes/rec-003"); got != 0 {
		t.Errorf("detail load hit the backend %d times, want 0", got)
	}

	prev, next := detail.Neighbors("rec-003")
	if prev != "rec-002" || next != "rec-004" {
		t.Errorf("Neighbors = %q, %q", prev, next)
	}
}

func TestAuthAndFavorites_EndToEnd(t *testing.T) {
	mock, client, s := setupStack(t, testutil.SampleRecords(2))
	ctx := context.Background()

	manager, err := auth.New(auth.Config{Backend: client})
	if err != nil {
		t.Fatalf("auth.New: %v", err)
	}
	if err := manager.Login(ctx, "tester@example.com", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !manager.IsAuthenticated() {
		t.Fatal("not authenticated after login")
	}

	fav, err := favorites.New(favorites.Config{Backend: client})
	if err != nil {
		t.Fatalf("favorites.New: %v", err)
	}
	detail, err := browse.NewDetailController(browse.DetailConfig{Store: s, Favorites: fav})
	if err != nil {
		t.Fatalf("NewDetailController: %v", err)
	}

	token := manager.Token()
	favorited, err := detail.ToggleFavorite(ctx, token, "rec-001")
	if err != nil || !favorited {
		t.Fatalf("ToggleFavorite = %v, %v, want true, nil", favorited, err)
	}
	if !mock.IsFavorite("rec-001") {
		t.Error("backend did not record the favorite")
	}

	status, err := detail.FavoriteStatus(ctx, token, "rec-001")
	if err != nil || !status {
		t.Errorf("FavoriteStatus = %v, %v, want true, nil", status, err)
	}

	manager.Logout()
	if _, err := detail.ToggleFavorite(ctx, manager.Token(), "rec-001"); err == nil {
		t.Error("toggle after logout should fail")
	}
}

func TestGalleryBrowsing_EndToEnd(t *testing.T) {
	records := []catalog.Record{
		{RecordID: "g1", Title: "Chicken Rice", ExtractedIngredients: catalog.StringList{"chicken", "rice"}},
		{RecordID: "g2", Title: "Chicken Soup", ExtractedIngredients: catalog.StringList{"chicken"}},
		{RecordID: "g3", Title: "Plain Rice", ExtractedIngredients: catalog.StringList{"rice"}},
	}
	_, _, s := setupStack(t, records)

	c, err := browse.NewGalleryController(browse.GalleryConfig{Store: s})
	if err != nil {
		t.Fatalf("NewGalleryController: %v", err)
	}
	c.Mount(context.Background(), url.Values{"ingredients": {"chicken,rice"}})
	waitLoaded(t, c.Loading)

	got, _ := c.View()
	if len(got) != 1 || got[0].RecordID != "g1" {
		t.Errorf("chicken+rice view = %+v", got)
	}

	c.ToggleTag("rice")
	c.ToggleTag("chicken")
	got, _ = c.View()
	if len(got) != len(records) {
		t.Errorf("cleared view has %d records, want %d", len(got), len(records))
	}
}
