package pipeline

import (
	"context"
	"testing"
)

func TestItemIDTransformStageHashes(t *testing.T) {
	t.Parallel()

	stage := NewItemIDTransformStage[string]("hash-ids", MD5ItemIDTransform, SHA1ItemIDTransform)

	item := NewItem("doc", nil)
	item.Metadata().Add(ItemID{ID: "http://example.org"})
	items := []*Item[string]{item}

	if err := stage.Execute(context.Background(), &items); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	ids := MetadataOf[ItemID](item.Metadata())
	want := []string{
		"http://example.org",
		"{md5}dab521de65f9250b4cca7383feef67dc",
		"{sha1}ff7c1f10ab54968058fdcfaadf1b2457cd5d1a3f",
	}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d: %v", len(ids), len(want), ids)
	}
	for i := range want {
		if ids[i].ID != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i].ID, want[i])
		}
	}
}

func TestItemIDTransformStageNoIDs(t *testing.T) {
	t.Parallel()

	stage := NewItemIDTransformStage[string]("hash-ids", MD5ItemIDTransform)
	items := []*Item[string]{NewItem("doc", nil)}

	if err := stage.Execute(context.Background(), &items); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := len(MetadataOf[ItemID](items[0].Metadata())); got != 0 {
		t.Errorf("item without ids gained %d ids", got)
	}
}
