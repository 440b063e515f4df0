package pipeline

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
)

// ItemIDTransform derives an alternate identifier from an existing one.
type ItemIDTransform func(id string) string

// MD5ItemIDTransform returns the "{md5}" prefixed lowercase hex MD5 digest
// of the identifier, the hashed form used by metadata query protocols.
func MD5ItemIDTransform(id string) string {
	sum := md5.Sum([]byte(id))
	return "{md5}" + hex.EncodeToString(sum[:])
}

// SHA1ItemIDTransform returns the "{sha1}" prefixed lowercase hex SHA-1
// digest of the identifier.
func SHA1ItemIDTransform(id string) string {
	sum := sha1.Sum([]byte(id))
	return "{sha1}" + hex.EncodeToString(sum[:])
}

// NewItemIDTransformStage builds a stage that, for every existing ItemID on
// an item, appends one additional ItemID per transform. Existing identifiers
// are kept; the transformed forms become extra query handles for the item.
func NewItemIDTransformStage[T any](id string, transforms ...ItemIDTransform) Stage[T] {
	configured := append([]ItemIDTransform(nil), transforms...)
	return NewIterating(id, func(_ context.Context, item *Item[T]) error {
		existing := MetadataOf[ItemID](item.Metadata())
		for _, orig := range existing {
			for _, transform := range configured {
				item.Metadata().Add(ItemID{ID: transform(orig.ID)})
			}
		}
		return nil
	})
}
