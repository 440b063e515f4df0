package pipeline

import "time"

// Kind tags a metadata variant. Each Metadata implementation returns a
// constant Kind, which is what the item metadata map is keyed by.
type Kind string

// Metadata variant tags.
const (
	KindErrorStatus           Kind = "error-status"
	KindWarningStatus         Kind = "warning-status"
	KindInfoStatus            Kind = "info-status"
	KindItemID                Kind = "item-id"
	KindItemTag               Kind = "item-tag"
	KindRegistrationAuthority Kind = "registration-authority"
	KindComponentInfo         Kind = "component-info"
)

// Metadata is an immutable annotation attached to an Item. Implementations
// are value records; once attached to an item they must not be mutated, which
// is what makes sharing them between item copies safe.
type Metadata interface {
	// MetadataKind returns the variant tag for this entry.
	MetadataKind() Kind
}

// ErrorStatus records a fatal-for-this-item problem found by a component.
// Items carrying an ErrorStatus are normally dropped or reported by a later
// stage; the error never aborts the pipeline by itself.
type ErrorStatus struct {
	Component string
	Message   string
}

// MetadataKind implements Metadata.
func (ErrorStatus) MetadataKind() Kind { return KindErrorStatus }

// WarningStatus records a non-fatal problem found by a component.
type WarningStatus struct {
	Component string
	Message   string
}

// MetadataKind implements Metadata.
func (WarningStatus) MetadataKind() Kind { return KindWarningStatus }

// InfoStatus records purely informational output from a component.
type InfoStatus struct {
	Component string
	Message   string
}

// MetadataKind implements Metadata.
func (InfoStatus) MetadataKind() Kind { return KindInfoStatus }

// ItemID carries a unique identifier for an item, such as a SAML entityID or
// a hashed form of one. An item may carry several (the original identifier
// plus transformed versions).
type ItemID struct {
	ID string
}

// MetadataKind implements Metadata.
func (ItemID) MetadataKind() Kind { return KindItemID }

// ItemTag carries a non-unique grouping label for an item. Tags become
// query terms alongside item IDs.
type ItemTag struct {
	Tag string
}

// MetadataKind implements Metadata.
func (ItemTag) MetadataKind() Kind { return KindItemTag }

// RegistrationAuthority records the authority that registered the entity
// wrapped by an item.
type RegistrationAuthority struct {
	Authority string
}

// MetadataKind implements Metadata.
func (RegistrationAuthority) MetadataKind() Kind { return KindRegistrationAuthority }

// ComponentInfo records that a component operated on an item, and when.
// Appended by Pipeline.Execute after each stage completes.
type ComponentInfo struct {
	Component string
	Start     time.Time
	Complete  time.Time
}

// MetadataKind implements Metadata.
func (ComponentInfo) MetadataKind() Kind { return KindComponentInfo }

// MetadataMap is a kind-keyed multimap of metadata entries. Entries of the
// same kind keep insertion order. The zero value is not usable; construct
// with NewMetadataMap.
//
// MetadataMap is not safe for concurrent mutation; an item belongs to exactly
// one pipeline execution at a time (see Pipeline).
type MetadataMap struct {
	entries map[Kind][]Metadata
}

// NewMetadataMap creates an empty metadata map.
func NewMetadataMap() *MetadataMap {
	return &MetadataMap{entries: make(map[Kind][]Metadata)}
}

// Add appends an entry under its kind.
func (m *MetadataMap) Add(md Metadata) {
	k := md.MetadataKind()
	m.entries[k] = append(m.entries[k], md)
}

// AddAll appends every entry in order.
func (m *MetadataMap) AddAll(mds ...Metadata) {
	for _, md := range mds {
		m.Add(md)
	}
}

// Get returns all entries of the given kind in insertion order. The returned
// slice must not be modified.
func (m *MetadataMap) Get(k Kind) []Metadata {
	return m.entries[k]
}

// Has reports whether at least one entry of the given kind is present.
func (m *MetadataMap) Has(k Kind) bool {
	return len(m.entries[k]) > 0
}

// Kinds returns the set of kinds with at least one entry, in no particular
// order.
func (m *MetadataMap) Kinds() []Kind {
	kinds := make([]Kind, 0, len(m.entries))
	for k, v := range m.entries {
		if len(v) > 0 {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Len returns the total number of entries across all kinds.
func (m *MetadataMap) Len() int {
	n := 0
	for _, v := range m.entries {
		n += len(v)
	}
	return n
}

// MetadataOf returns all entries of the concrete variant T in insertion
// order. The variant is resolved through the zero value's kind tag, so no
// reflection is involved.
func MetadataOf[T Metadata](m *MetadataMap) []T {
	var zero T
	raw := m.Get(zero.MetadataKind())
	if len(raw) == 0 {
		return nil
	}
	out := make([]T, 0, len(raw))
	for _, md := range raw {
		out = append(out, md.(T))
	}
	return out
}
