package inventory

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// OwnerType identifies the kind of entity an additional file is attached to
type OwnerType string

const (
	OwnerTypeAsset OwnerType = "asset"
	OwnerTypeKit   OwnerType = "kit"
)

// IsValid checks if the owner type is known
func (t OwnerType) IsValid() bool {
	return t == OwnerTypeAsset || t == OwnerTypeKit
}

// AttachmentOwner is anything additional files can be attached to.
// The attachment manager only needs identity and team.
type AttachmentOwner interface {
	OwnerID() uuid.UUID
	OwnerTeamID() uuid.UUID
	OwnerType() OwnerType
}

// OwnerRef is a lightweight AttachmentOwner used when the full aggregate
// is not loaded.
type OwnerRef struct {
	Type   OwnerType
	ID     uuid.UUID
	TeamID uuid.UUID
}

// NewOwnerRef creates an owner reference
func NewOwnerRef(ownerType OwnerType, id, teamID uuid.UUID) OwnerRef {
	return OwnerRef{Type: ownerType, ID: id, TeamID: teamID}
}

func (o OwnerRef) OwnerID() uuid.UUID     { return o.ID }
func (o OwnerRef) OwnerTeamID() uuid.UUID { return o.TeamID }
func (o OwnerRef) OwnerType() OwnerType   { return o.Type }

// Attachment is one owner-to-file link row. It has its own identity and timestamps.
type Attachment struct {
	ID        uuid.UUID
	OwnerType OwnerType
	OwnerID   uuid.UUID
	FileID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FileSetDiff computes which file ids must be linked and unlinked to move
// an owner from current to desired. Duplicates are ignored and both
// results are sorted so that row locks are taken in a stable order.
func FileSetDiff(current, desired []uuid.UUID) (toAdd, toRemove []uuid.UUID) {
	cur := toSet(current)
	want := toSet(desired)

	for id := range want {
		if _, ok := cur[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for id := range cur {
		if _, ok := want[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	SortIDs(toAdd)
	SortIDs(toRemove)
	return toAdd, toRemove
}

// UniqueIDs removes duplicates and nil ids, preserving first occurrence order
func UniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// SortIDs sorts ids in byte order
func SortIDs(ids []uuid.UUID) {
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id != uuid.Nil {
			set[id] = struct{}{}
		}
	}
	return set
}
