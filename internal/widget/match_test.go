package widget

import (
	"reflect"
	"slices"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestMatchCategoriesEmptyRequest(t *testing.T) {
	tests := []struct {
		name      string
		available []string
		want      []string
	}{
		{"first available", []string{"art", "music"}, []string{"art"}},
		{"index order wins", []string{"music", "art"}, []string{"music"}},
		{"nothing available", []string{}, []string{}},
		{"nil available", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := observedLogger()
			got := MatchCategories(nil, tt.available, log)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MatchCategories() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatchCategoriesFiltersAndKeepsOrder(t *testing.T) {
	log, logs := observedLogger()
	available := []string{"art", "music", "games"}

	got := MatchCategories([]string{"games", "missing", "art", "games"}, available, log)

	want := []string{"games", "art", "games"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchCategories() = %q, want %q", got, want)
	}

	dropped := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	if len(dropped) != 1 {
		t.Fatalf("got %d drop reports, want 1", len(dropped))
	}
	if dropped[0].ContextMap()["category"] != "missing" {
		t.Errorf("drop report category = %v", dropped[0].ContextMap()["category"])
	}
	if _, ok := dropped[0].ContextMap()["available"]; !ok {
		t.Error("drop report should list valid alternatives")
	}
}

func TestMatchCategoriesNoneValid(t *testing.T) {
	log, _ := observedLogger()

	got := MatchCategories([]string{"missing"}, []string{"art"}, log)
	if len(got) != 0 {
		t.Errorf("MatchCategories() = %q, want empty", got)
	}
}

func TestMatchCategoriesResultIsSubset(t *testing.T) {
	log, _ := observedLogger()
	available := []string{"a", "b", "c"}
	requests := [][]string{
		{"c", "a"},
		{"x", "y"},
		{"b", "x", "b", "a"},
		{""},
	}

	for _, req := range requests {
		got := MatchCategories(req, available, log)

		// Every result is available and results appear in request order.
		pos := 0
		for _, c := range got {
			if !slices.Contains(available, c) {
				t.Errorf("MatchCategories(%q) returned unknown %q", req, c)
			}
			for pos < len(req) && req[pos] != c {
				pos++
			}
			if pos == len(req) {
				t.Errorf("MatchCategories(%q) = %q breaks request order", req, got)
				break
			}
			pos++
		}
	}
}
