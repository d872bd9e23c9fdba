package state

import (
	"reflect"
	"testing"
)

func TestSetFilterTracksCursorAndRestoresPosition(t *testing.T) {
	l := newTestList("one", "two", "three")
	l.Cursor = 2
	l.SetFilter("two", len("two"))

	if l.FilterCursor != len("two") {
		t.Fatalf("expected cursor at end, got %d", l.FilterCursor)
	}
	if len(l.Items) != 1 || l.Items[0].ID != "two" || l.Cursor != 0 {
		t.Fatalf("expected only 'two' selected, got %#v at %d", l.Items, l.Cursor)
	}

	l.SetFilter("", 0)
	if l.Cursor != 2 {
		t.Fatalf("expected cursor restored to 2, got %d", l.Cursor)
	}
	if l.LastCursor != -1 {
		t.Fatalf("expected last cursor reset, got %d", l.LastCursor)
	}
}

func TestInsertAndDeleteFilterText(t *testing.T) {
	l := newTestList("alpha")
	if !l.InsertFilterText("ab") || l.Filter != "ab" || l.FilterCursor != 2 {
		t.Fatalf("unexpected filter state %q/%d", l.Filter, l.FilterCursor)
	}
	l.FilterCursor = 1
	l.InsertFilterText("z")
	if l.Filter != "azb" || l.FilterCursor != 2 {
		t.Fatalf("expected insert into middle, got %q/%d", l.Filter, l.FilterCursor)
	}
	if !l.DeleteFilterRuneBackward() || l.Filter != "ab" || l.FilterCursor != 1 {
		t.Fatalf("unexpected state after delete %q/%d", l.Filter, l.FilterCursor)
	}

	l.SetFilter("abc def", len("abc def"))
	if !l.DeleteFilterWordBackward() || l.Filter != "abc " {
		t.Fatalf("expected trailing word removed, got %q", l.Filter)
	}

	l.SetFilter("abc", 0)
	if l.DeleteFilterRuneBackward() {
		t.Fatal("expected delete at start to fail")
	}
}

func TestFilterCursorMovement(t *testing.T) {
	l := newTestList("one")
	l.SetFilter("one two", len("one two"))
	if !l.MoveFilterCursor(-1) || l.FilterCursor != 6 {
		t.Fatalf("expected cursor 6, got %d", l.FilterCursor)
	}
	if !l.MoveFilterCursorStart() || l.FilterCursor != 0 {
		t.Fatalf("expected cursor at start, got %d", l.FilterCursor)
	}
	if l.MoveFilterCursor(-1) {
		t.Fatal("expected no movement before start")
	}
	if !l.MoveFilterCursorEnd() || l.FilterCursor != 7 {
		t.Fatalf("expected cursor at end, got %d", l.FilterCursor)
	}
}

func TestFilterItems(t *testing.T) {
	items := []Item{{ID: "1", Label: "Alpha"}, {ID: "2", Label: "Beta"}}
	if got := FilterItems(items, "alp"); len(got) != 1 || got[0].Label != "Alpha" {
		t.Fatalf("unexpected filtered results %#v", got)
	}
	if got := FilterItems(items, "ta"); len(got) != 1 || got[0].Label != "Beta" {
		t.Fatalf("expected match for Beta, got %#v", got)
	}
	if got := FilterItems(items, "  "); !reflect.DeepEqual(got, items) {
		t.Fatalf("expected blank filter to keep everything, got %#v", got)
	}
	if len(FilterItems(items, "nomatch")) != 0 {
		t.Fatal("expected empty results when nothing matches")
	}
	clone := CloneItems(items)
	clone[0].Label = "changed"
	if items[0].Label != "Alpha" {
		t.Fatal("expected clone to be independent")
	}
}

func TestBestMatchIndex(t *testing.T) {
	items := []Item{
		{ID: "1", Label: "Explain"},
		{ID: "2", Label: "Refactor"},
		{ID: "3", Label: "Review"},
	}
	tests := []struct {
		query string
		want  int
	}{
		{"Refactor", 1},
		{"rev", 2},
		{"rf", 1},
		{"zzz", 0},
	}
	for _, tt := range tests {
		if got := BestMatchIndex(items, tt.query); got != tt.want {
			t.Fatalf("query %q: expected %d, got %d", tt.query, tt.want, got)
		}
	}
	if got := BestMatchIndex(nil, "anything"); got != -1 {
		t.Fatalf("expected -1 for empty slice, got %d", got)
	}
}
