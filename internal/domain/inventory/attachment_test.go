package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFileSetDiff(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	t.Run("computes additions and removals", func(t *testing.T) {
		toAdd, toRemove := FileSetDiff([]uuid.UUID{a, b, c}, []uuid.UUID{b, c, d})
		assert.Equal(t, []uuid.UUID{d}, toAdd)
		assert.Equal(t, []uuid.UUID{a}, toRemove)
	})

	t.Run("identical sets produce no changes", func(t *testing.T) {
		toAdd, toRemove := FileSetDiff([]uuid.UUID{a, b}, []uuid.UUID{b, a})
		assert.Empty(t, toAdd)
		assert.Empty(t, toRemove)
	})

	t.Run("empty desired removes everything", func(t *testing.T) {
		toAdd, toRemove := FileSetDiff([]uuid.UUID{a, b}, nil)
		assert.Empty(t, toAdd)
		assert.ElementsMatch(t, []uuid.UUID{a, b}, toRemove)
	})

	t.Run("duplicates and nil ids are ignored", func(t *testing.T) {
		toAdd, toRemove := FileSetDiff(nil, []uuid.UUID{a, a, uuid.Nil})
		assert.Equal(t, []uuid.UUID{a}, toAdd)
		assert.Empty(t, toRemove)
	})

	t.Run("results are sorted", func(t *testing.T) {
		toAdd, _ := FileSetDiff(nil, []uuid.UUID{d, c, b, a})
		sorted := append([]uuid.UUID(nil), toAdd...)
		SortIDs(sorted)
		assert.Equal(t, sorted, toAdd)
	})
}

func TestUniqueIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{a, b}, UniqueIDs([]uuid.UUID{a, uuid.Nil, b, a}))
	assert.Empty(t, UniqueIDs(nil))
}

func TestOwnerRef(t *testing.T) {
	id, team := uuid.New(), uuid.New()
	var owner AttachmentOwner = NewOwnerRef(OwnerTypeKit, id, team)

	assert.Equal(t, id, owner.OwnerID())
	assert.Equal(t, team, owner.OwnerTeamID())
	assert.Equal(t, OwnerTypeKit, owner.OwnerType())
	assert.True(t, OwnerTypeAsset.IsValid())
	assert.False(t, OwnerType("location").IsValid())
}
