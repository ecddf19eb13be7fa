package viewstate

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/cookbookd/recipe-browser/pkg/query"
)

func TestParseListState(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  ListState
	}{
		{
			name:  "empty query yields defaults",
			query: "",
			want:  DefaultListState(),
		},
		{
			name:  "all parameters",
			query: "search=apple&mode=ingredient&sort=title&order=desc&page=3",
			want: ListState{
				Page:       3,
				Search:     "apple",
				SearchMode: query.ModeIngredient,
				SortField:  query.FieldTitle,
				SortOrder:  query.OrderDesc,
			},
		},
		{
			name:  "invalid enums fall back to defaults",
			query: "mode=loudly&sort=calories&order=sideways",
			want:  DefaultListState(),
		},
		{
			name:  "malformed page falls back to zero",
			query: "page=banana",
			want:  DefaultListState(),
		},
		{
			name:  "negative page falls back to zero",
			query: "page=-2",
			want:  DefaultListState(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			got := ParseListState(values)
			if got != tt.want {
				t.Errorf("ParseListState(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestListState_ValuesOmitDefaults(t *testing.T) {
	if got := DefaultListState().Encode(); got != "" {
		t.Errorf("default state should serialize empty, got %q", got)
	}

	s := DefaultListState().WithSearch("soup").WithSortOrder(query.OrderDesc)
	values := s.Values()
	if values.Get(ParamSearch) != "soup" {
		t.Errorf("search = %q", values.Get(ParamSearch))
	}
	if values.Get(ParamOrder) != "desc" {
		t.Errorf("order = %q", values.Get(ParamOrder))
	}
	if values.Has(ParamMode) || values.Has(ParamSort) || values.Has(ParamPage) {
		t.Errorf("default fields leaked into query: %v", values)
	}
}

func TestListState_RoundTrip(t *testing.T) {
	states := []ListState{
		DefaultListState(),
		{Page: 7, Search: "noodle soup", SearchMode: query.ModeIngredient, SortField: query.FieldTitle, SortOrder: query.OrderDesc},
		{Page: 0, Search: "", SearchMode: query.ModeTitle, SortField: query.FieldTitle, SortOrder: query.OrderAsc},
	}

	for _, want := range states {
		got := ParseListState(want.Values())
		if got != want {
			t.Errorf("round trip changed state: got %+v, want %+v", got, want)
		}
	}
}

func TestListState_MutationsResetPage(t *testing.T) {
	base := ListState{Page: 3, SearchMode: query.ModeTitle, SortField: query.FieldID, SortOrder: query.OrderAsc}

	tests := []struct {
		name string
		got  ListState
	}{
		{"search change", base.WithSearch("pie")},
		{"mode change", base.WithSearchMode(query.ModeIngredient)},
		{"sort field change", base.WithSortField(query.FieldTitle)},
		{"sort order change", base.WithSortOrder(query.OrderDesc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Page != 0 {
				t.Errorf("Page = %d, want 0", tt.got.Page)
			}
		})
	}

	if got := base.WithPage(5); got.Page != 5 {
		t.Errorf("WithPage(5).Page = %d", got.Page)
	}
	if got := base.WithPage(-1); got.Page != 0 {
		t.Errorf("WithPage(-1).Page = %d, want 0", got.Page)
	}
}

func TestParseGalleryState(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  GalleryState
	}{
		{
			name:  "empty",
			query: "",
			want:  GalleryState{},
		},
		{
			name:  "tags and page",
			query: "ingredients=chicken,rice,garlic&page=2",
			want:  GalleryState{Page: 2, SelectedTags: []string{"chicken", "rice", "garlic"}},
		},
		{
			name:  "empty tag entries dropped",
			query: "ingredients=chicken,,rice,",
			want:  GalleryState{SelectedTags: []string{"chicken", "rice"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			got := ParseGalleryState(values)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseGalleryState(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestGalleryState_RoundTrip(t *testing.T) {
	states := []GalleryState{
		{},
		{Page: 4, SelectedTags: []string{"chicken", "rice"}},
		{SelectedTags: []string{"egg"}},
	}

	for _, want := range states {
		got := ParseGalleryState(want.Values())
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip changed state: got %+v, want %+v", got, want)
		}
	}
}

func TestGalleryState_ToggleTag(t *testing.T) {
	s := GalleryState{Page: 2}

	s = s.ToggleTag("chicken")
	if !s.HasTag("chicken") {
		t.Fatal("tag should be selected after first toggle")
	}
	if s.Page != 0 {
		t.Errorf("Page = %d after toggle, want 0", s.Page)
	}

	// Toggling again returns to the empty selection.
	s = s.WithPage(3).ToggleTag("chicken")
	if len(s.SelectedTags) != 0 {
		t.Errorf("SelectedTags = %v, want empty", s.SelectedTags)
	}
	if s.Page != 0 {
		t.Errorf("Page = %d after toggle, want 0", s.Page)
	}
}

func TestGalleryState_ToggleKeepsOrder(t *testing.T) {
	s := GalleryState{}
	for _, tag := range []string{"a", "b", "c"} {
		s = s.ToggleTag(tag)
	}
	s = s.ToggleTag("b")

	if !reflect.DeepEqual(s.SelectedTags, []string{"a", "c"}) {
		t.Errorf("SelectedTags = %v, want [a c]", s.SelectedTags)
	}
}

func TestGalleryState_ClearTags(t *testing.T) {
	s := GalleryState{Page: 5, SelectedTags: []string{"a", "b"}}
	s = s.ClearTags()

	if len(s.SelectedTags) != 0 || s.Page != 0 {
		t.Errorf("ClearTags() = %+v", s)
	}
}
