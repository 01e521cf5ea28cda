package redis

import (
	"context"
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/webring/internal/widget"
)

func TestLinksKey(t *testing.T) {
	key := LinksKey("indie-games")
	if key != "webring:links:indie-games" {
		t.Errorf("LinksKey() = %q", key)
	}
}

func TestParseCounters(t *testing.T) {
	got := parseCounters(map[string]string{
		"https://a.example": "3",
		"https://b.example": "nope",
		"https://c.example": "-1",
	})
	want := map[string]int64{"https://a.example": 3, "https://c.example": -1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseCounters() = %v, want %v", got, want)
	}
}

func TestSortCategories(t *testing.T) {
	cs := []CategoryStats{
		{Name: "music", Impressions: 2},
		{Name: "art", Impressions: 5},
		{Name: "games", Impressions: 2},
	}
	sortCategories(cs)

	var names []string
	for _, c := range cs {
		names = append(names, c.Name)
	}
	if !reflect.DeepEqual(names, []string{"art", "games", "music"}) {
		t.Errorf("order = %v", names)
	}
}

func newTestStore(t *testing.T, source string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), source)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestStoreRoundTrip(t *testing.T) {
	const source = "https://ring.example/public/"
	store, mr := newTestStore(t, source)
	ctx := context.Background()

	art := widget.NewCategoryDisplayMap()
	art.Set("art", []widget.DisplayLink{
		{Title: "A", URL: "https://a.example"},
		{Title: "B", URL: "https://b.example"},
	})
	art.Set("music", nil)

	games := widget.NewCategoryDisplayMap()
	games.Set("games", []widget.DisplayLink{{Title: "G", URL: "https://g.example"}})

	tests := []struct {
		name   string
		source string
		state  widget.RenderState
	}{
		{"art once", source, widget.OkState(art)},
		{"art twice", source, widget.OkState(art)},
		{"games", source, widget.OkState(games)},
		{"error state", source, widget.ErrorState()},
		{"foreign source", "https://other.example/", widget.OkState(games)},
	}
	for _, tt := range tests {
		if err := store.RecordImpressions(ctx, tt.source, tt.state); err != nil {
			t.Fatalf("RecordImpressions(%s): %v", tt.name, err)
		}
	}

	stats, err := store.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Renders != 3 {
		t.Errorf("Renders = %d, want 3", stats.Renders)
	}

	var names []string
	for _, c := range stats.Categories {
		names = append(names, c.Name)
	}
	if !reflect.DeepEqual(names, []string{"art", "games"}) {
		t.Fatalf("categories = %v, want [art games]", names)
	}
	if stats.Categories[0].Impressions != 2 || stats.Categories[1].Impressions != 1 {
		t.Errorf("impressions = %+v", stats.Categories)
	}
	wantLinks := map[string]int64{"https://a.example": 2, "https://b.example": 2}
	if !reflect.DeepEqual(stats.Categories[0].Links, wantLinks) {
		t.Errorf("art links = %v, want %v", stats.Categories[0].Links, wantLinks)
	}
	if stats.Categories[1].Links["https://g.example"] != 1 {
		t.Errorf("games links = %v", stats.Categories[1].Links)
	}

	if mr.Exists(LinksKey("music")) {
		t.Error("empty categories should not create a links hash")
	}
}

func TestGetStatsEmpty(t *testing.T) {
	store, _ := newTestStore(t, "https://ring.example/")

	stats, err := store.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Renders != 0 || len(stats.Categories) != 0 {
		t.Errorf("GetStats() = %+v, want zero", stats)
	}
}

func TestStorePing(t *testing.T) {
	store, mr := newTestStore(t, "")
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	mr.Close()
	if err := store.Ping(context.Background()); err == nil {
		t.Error("Ping should fail once the server is gone")
	}
}
