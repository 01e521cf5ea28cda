package widget

import (
	"context"
	"reflect"
	"testing"
)

func TestFetchAllEmptyRequestFetchesFirstCategoryOnly(t *testing.T) {
	log, _ := observedLogger()
	src := &fakeSource{
		index: RemoteIndex{Categories: []string{"art", "music"}},
		files: map[string]CategoryFile{
			"art":   makeFile(6, "art"),
			"music": makeFile(2, "music"),
		},
	}

	cfg := DefaultConfiguration()
	state := NewFetcher(src, log).FetchAll(context.Background(), cfg)

	if state.Failed {
		t.Fatal("state should not be failed")
	}
	if !reflect.DeepEqual(src.fetched, []string{"art"}) {
		t.Errorf("fetched = %q, want only art", src.fetched)
	}
	links, ok := state.Categories.Get("art")
	if !ok || len(links) != 4 {
		t.Errorf("art links = %d, want 4", len(links))
	}
	if _, ok := state.Categories.Get("music"); ok {
		t.Error("music should not be in the display map")
	}
}

func TestFetchAllMapsOwnerToTitle(t *testing.T) {
	log, _ := observedLogger()
	src := &fakeSource{
		index: RemoteIndex{Categories: []string{"art"}},
		files: map[string]CategoryFile{
			"art": {Links: []RemoteLink{{Owner: "Ada", URL: "https://ada.example"}}},
		},
	}

	state := NewFetcher(src, log).FetchAll(context.Background(), DefaultConfiguration())

	links, _ := state.Categories.Get("art")
	want := []DisplayLink{{Title: "Ada", URL: "https://ada.example"}}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("links = %+v, want %+v", links, want)
	}
}

func TestFetchAllInvalidCategoriesIsError(t *testing.T) {
	log, _ := observedLogger()
	src := &fakeSource{
		index: RemoteIndex{Categories: []string{"art"}},
		files: map[string]CategoryFile{"art": makeFile(3, "art")},
	}
	cfg := DefaultConfiguration()
	cfg.Categories = []string{"missing"}

	state := NewFetcher(src, log).FetchAll(context.Background(), cfg)

	if !state.Failed {
		t.Error("state should be failed")
	}
	if len(src.fetched) != 0 {
		t.Errorf("no category should be fetched, got %q", src.fetched)
	}
}

func TestFetchAllIndexFailureIsError(t *testing.T) {
	log, _ := observedLogger()
	src := &fakeSource{indexErr: errNetwork}

	state := NewFetcher(src, log).FetchAll(context.Background(), DefaultConfiguration())
	if !state.Failed {
		t.Error("state should be failed")
	}
}

func TestFetchAllPartialFailure(t *testing.T) {
	log, _ := observedLogger()
	src := &fakeSource{
		index: RemoteIndex{Categories: []string{"art", "music"}},
		files: map[string]CategoryFile{"music": makeFile(2, "music")},
		fails: map[string]error{"art": errNetwork},
	}
	cfg := DefaultConfiguration()
	cfg.Categories = []string{"art", "music"}

	state := NewFetcher(src, log).FetchAll(context.Background(), cfg)

	if state.Failed {
		t.Fatal("one good category should keep the widget alive")
	}
	if !reflect.DeepEqual(src.fetched, []string{"art", "music"}) {
		t.Errorf("fetch order = %q", src.fetched)
	}
	art, ok := state.Categories.Get("art")
	if !ok || len(art) != 0 {
		t.Errorf("art should be stored empty, got %v (present=%v)", art, ok)
	}
	music, _ := state.Categories.Get("music")
	if len(music) != 2 {
		t.Errorf("music links = %d, want 2", len(music))
	}
	if !reflect.DeepEqual(state.Categories.Categories(), []string{"art", "music"}) {
		t.Errorf("categories order = %q", state.Categories.Categories())
	}
}

func TestFetchAllEveryCategoryEmptyIsError(t *testing.T) {
	log, _ := observedLogger()
	src := &fakeSource{
		index: RemoteIndex{Categories: []string{"art", "music"}},
		files: map[string]CategoryFile{"music": {}},
		fails: map[string]error{"art": errNetwork},
	}
	cfg := DefaultConfiguration()
	cfg.Categories = []string{"art", "music"}

	state := NewFetcher(src, log).FetchAll(context.Background(), cfg)
	if !state.Failed {
		t.Error("state should be failed when every category is empty")
	}
}

func TestFetchAllUsesConfiguredSource(t *testing.T) {
	log, _ := observedLogger()
	src := &fakeSource{
		index: RemoteIndex{Categories: []string{"art"}},
		files: map[string]CategoryFile{"art": makeFile(1, "art")},
	}
	cfg := DefaultConfiguration()
	cfg.DataSource = "https://ring.example/"

	NewFetcher(src, log).FetchAll(context.Background(), cfg)

	for _, b := range src.bases {
		if b != "https://ring.example/" {
			t.Errorf("base = %q, want configured source", b)
		}
	}
}

func TestCategoryDisplayMap(t *testing.T) {
	m := NewCategoryDisplayMap()
	m.Set("b", nil)
	m.Set("a", []DisplayLink{{Title: "x"}})
	m.Set("b", []DisplayLink{{Title: "y"}})

	if !reflect.DeepEqual(m.Categories(), []string{"b", "a"}) {
		t.Errorf("Categories() = %q", m.Categories())
	}
	if n := len(m.Categories()); n != 2 {
		t.Errorf("len(Categories()) = %d", n)
	}
	if links, _ := m.Get("b"); len(links) != 1 || links[0].Title != "y" {
		t.Errorf("Get(b) = %+v", links)
	}
	if !m.HasAnyLinks() {
		t.Error("HasAnyLinks() = false")
	}

	var zero CategoryDisplayMap
	zero.Set("c", nil)
	if links, ok := zero.Get("c"); !ok || links == nil {
		t.Error("zero value map should accept Set and store an empty slice")
	}
}
