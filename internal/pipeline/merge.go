package pipeline

// MergeStrategy folds one or more source collections into a target
// collection. Strategies decide what to do with duplicate items.
type MergeStrategy[T any] interface {
	Merge(target *[]*Item[T], sources ...[]*Item[T])
}

// DeduplicatingItemIDMerge adds items from the sources in order, skipping
// any item carrying an ItemID already seen in the target or in an earlier
// source item. Items without any ItemID are always added. First seen wins,
// and relative order within and across sources is preserved.
type DeduplicatingItemIDMerge[T any] struct{}

// Merge implements MergeStrategy.
func (DeduplicatingItemIDMerge[T]) Merge(target *[]*Item[T], sources ...[]*Item[T]) {
	seen := make(map[string]struct{})
	for _, item := range *target {
		for _, id := range MetadataOf[ItemID](item.Metadata()) {
			seen[id.ID] = struct{}{}
		}
	}
	for _, source := range sources {
		for _, item := range source {
			ids := MetadataOf[ItemID](item.Metadata())
			if len(ids) == 0 {
				*target = append(*target, item)
				continue
			}
			dup := false
			for _, id := range ids {
				if _, ok := seen[id.ID]; ok {
					dup = true
					break
				}
			}
			if dup {
				continue
			}
			for _, id := range ids {
				seen[id.ID] = struct{}{}
			}
			*target = append(*target, item)
		}
	}
}

// AllItemsMerge adds every source item to the target unconditionally.
type AllItemsMerge[T any] struct{}

// Merge implements MergeStrategy.
func (AllItemsMerge[T]) Merge(target *[]*Item[T], sources ...[]*Item[T]) {
	for _, source := range sources {
		*target = append(*target, source...)
	}
}
