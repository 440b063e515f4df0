package pipeline

import "testing"

func itemWithID(value, id string) *Item[string] {
	item := NewItem(value, nil)
	if id != "" {
		item.Metadata().Add(ItemID{ID: id})
	}
	return item
}

func unwrapAll(items []*Item[string]) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Unwrap()
	}
	return out
}

func TestDeduplicatingMergeFirstSeenWins(t *testing.T) {
	t.Parallel()

	var target []*Item[string]
	first := []*Item[string]{
		itemWithID("A", "id-a"),
		itemWithID("B", "id-b"),
	}
	second := []*Item[string]{
		itemWithID("A2", "id-a"), // duplicate, dropped
		itemWithID("C", "id-c"),
	}

	DeduplicatingItemIDMerge[string]{}.Merge(&target, first, second)

	want := []string{"A", "B", "C"}
	got := unwrapAll(target)
	if len(got) != len(want) {
		t.Fatalf("merged %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("merged[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDeduplicatingMergeKeepsItemsWithoutIDs(t *testing.T) {
	t.Parallel()

	var target []*Item[string]
	source := []*Item[string]{
		itemWithID("anon1", ""),
		itemWithID("anon2", ""),
		itemWithID("named", "id-x"),
		itemWithID("named-dup", "id-x"),
	}

	DeduplicatingItemIDMerge[string]{}.Merge(&target, source)

	want := []string{"anon1", "anon2", "named"}
	got := unwrapAll(target)
	if len(got) != len(want) {
		t.Fatalf("merged %v, want %v", got, want)
	}
}

func TestDeduplicatingMergeRespectsExistingTarget(t *testing.T) {
	t.Parallel()

	target := []*Item[string]{itemWithID("existing", "id-a")}
	source := []*Item[string]{itemWithID("incoming", "id-a"), itemWithID("new", "id-b")}

	DeduplicatingItemIDMerge[string]{}.Merge(&target, source)

	want := []string{"existing", "new"}
	got := unwrapAll(target)
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("merged %v, want %v", got, want)
	}
}

func TestAllItemsMerge(t *testing.T) {
	t.Parallel()

	var target []*Item[string]
	AllItemsMerge[string]{}.Merge(&target,
		[]*Item[string]{itemWithID("A", "id-a")},
		[]*Item[string]{itemWithID("A2", "id-a")},
	)
	if len(target) != 2 {
		t.Errorf("merged %d items, want 2 (no deduplication)", len(target))
	}
}
