package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_IsTimeOrdered(t *testing.T) {
	first := NewID()
	time.Sleep(2 * time.Millisecond)
	second := NewID()

	assert.Equal(t, uuid.Version(7), first.Version())
	assert.Less(t, first.String(), second.String())
}

func TestBaseAggregateRoot_MarkChanged(t *testing.T) {
	root := NewTeamAggregateRoot(uuid.New())
	created := root.UpdatedAt
	require.Equal(t, 1, root.GetVersion())
	require.Empty(t, root.GetDomainEvents())

	time.Sleep(time.Millisecond)
	e := NewBaseDomainEvent("KitUpdated", "Kit", root.ID, root.TeamID)
	root.MarkChanged(&e)

	assert.Equal(t, 2, root.GetVersion())
	assert.True(t, root.UpdatedAt.After(created))
	assert.Len(t, root.GetDomainEvents(), 1)

	root.AddDomainEvent(&e)
	assert.Equal(t, 2, root.GetVersion(), "queuing an event alone is not a change")
	assert.Len(t, root.GetDomainEvents(), 2)

	root.ClearDomainEvents()
	assert.Empty(t, root.GetDomainEvents())
}

func TestTeamAggregateRoot_BelongsTo(t *testing.T) {
	team := uuid.New()
	root := NewTeamAggregateRoot(team)

	assert.True(t, root.BelongsTo(team))
	assert.False(t, root.BelongsTo(uuid.New()))
}
