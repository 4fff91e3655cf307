package vselect

import "testing"

func TestViewRecordsEveryHop(t *testing.T) {
	st := newFakeStore()
	user := newFakeObj(map[string]any{"name": "A"})
	root := newFakeObj(map[string]any{"user": user})

	var rec recorder
	set := rec.begin()
	v := newView(st, root, &rec)

	name := v.Obj("user").String("name")
	rec.end()

	if name != "A" {
		t.Errorf("expected A, got %s", name)
	}
	if _, ok := set[root]["user"]; !ok {
		t.Error("expected the root's user key to be recorded")
	}
	if _, ok := set[user]["name"]; !ok {
		t.Error("expected the user's name key to be recorded")
	}
	releaseAccessSet(set)
}

func TestViewScalarsPassThroughUnwrapped(t *testing.T) {
	st := newFakeStore()
	root := newFakeObj(map[string]any{"count": 7, "none": nil})

	var rec recorder
	rec.begin()
	v := newView(st, root, &rec)

	if got := v.Get("count"); got != 7 {
		t.Errorf("expected 7, got %v", got)
	}
	if got := v.Get("none"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := v.Get("missing"); got != nil {
		t.Errorf("expected nil for missing key, got %v", got)
	}
	set := rec.set
	rec.end()
	releaseAccessSet(set)
}

func TestViewListReads(t *testing.T) {
	st := newFakeStore()
	inner := newFakeObj(map[string]any{"id": 1})
	list := &fakeList{items: []any{"x", inner}}
	root := newFakeObj(map[string]any{"items": list})

	var rec recorder
	set := rec.begin()
	v := newView(st, root, &rec)

	items := v.Obj("items")
	if got := items.Len(); got != 2 {
		t.Errorf("expected length 2, got %d", got)
	}
	if got := items.Index(0); got != "x" {
		t.Errorf("expected x, got %v", got)
	}
	if id := items.ObjAt(1).Int("id"); id != 1 {
		t.Errorf("expected id 1, got %d", id)
	}
	rec.end()

	if _, ok := set[list][lengthKey]; !ok {
		t.Error("expected the list length read to be recorded")
	}
	if _, ok := set[list]["0"]; !ok {
		t.Error("expected index 0 to be recorded")
	}
	if _, ok := set[list]["1"]; !ok {
		t.Error("expected index 1 to be recorded")
	}
	if _, ok := set[inner]["id"]; !ok {
		t.Error("expected the element's id key to be recorded")
	}
	releaseAccessSet(set)
}

func TestViewTypedHelpers(t *testing.T) {
	st := newFakeStore()
	root := newFakeObj(map[string]any{
		"s": "hello",
		"i": 3,
		"f": 1.5,
		"b": true,
	})

	var rec recorder
	rec.begin()
	v := newView(st, root, &rec)

	if got := v.String("s"); got != "hello" {
		t.Errorf("expected hello, got %s", got)
	}
	if got := v.Int("i"); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := v.Float64("f"); got != 1.5 {
		t.Errorf("expected 1.5, got %v", got)
	}
	if !v.Bool("b") {
		t.Error("expected true")
	}
	if got := v.String("i"); got != "" {
		t.Errorf("expected zero value on type mismatch, got %q", got)
	}
	if got := v.Obj("s"); got != nil {
		t.Errorf("expected nil view for scalar value, got %v", got)
	}
	set := rec.set
	rec.end()
	releaseAccessSet(set)
}

func TestViewReadsWithTrackingDisabled(t *testing.T) {
	st := newFakeStore()
	user := newFakeObj(map[string]any{"name": "A"})
	root := newFakeObj(map[string]any{"user": user})

	var rec recorder // never activated
	v := newView(st, root, &rec)

	if name := v.Obj("user").String("name"); name != "A" {
		t.Errorf("expected nested reads to work untracked, got %q", name)
	}
}
