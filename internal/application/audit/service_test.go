package audit_test

import (
	"context"
	"testing"
	"time"

	appaudit "github.com/assetdesk/backend/internal/application/audit"
	"github.com/assetdesk/backend/internal/domain/audit"
	"github.com/assetdesk/backend/internal/domain/taxonomy"
	"github.com/assetdesk/backend/internal/infrastructure/persistence"
	"github.com/assetdesk/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RecordsAndLists(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := persistence.NewGormAuditRepository(db)
	recorder := appaudit.NewRecorder(repo, nil)
	svc := appaudit.NewService(repo)
	ctx := context.Background()
	teamID := testutil.TestTeamID()

	assert.Empty(t, recorder.EventTypes())

	tag, err := taxonomy.NewTag(teamID, "outdoor", "")
	require.NoError(t, err)
	require.NoError(t, tag.Update("garden", ""))
	for _, event := range tag.GetDomainEvents() {
		require.NoError(t, recorder.Handle(ctx, event))
	}
	// redelivery
	require.NoError(t, recorder.Handle(ctx, tag.GetDomainEvents()[0]))

	history, err := svc.History(ctx, teamID, taxonomy.AggregateTypeTag, tag.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, taxonomy.EventTypeTagCreated, history[0].EventType)
	assert.Equal(t, taxonomy.EventTypeTagUpdated, history[1].EventType)
	assert.Contains(t, string(history[1].Payload), "garden")

	created, err := svc.List(ctx, teamID, appaudit.ListFilter{EventType: taxonomy.EventTypeTagCreated})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, tag.ID, created[0].AggregateID)

	other, err := svc.List(ctx, uuid.New(), appaudit.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRetentionJob_PurgesExpiredEntries(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := persistence.NewGormAuditRepository(db)
	ctx := context.Background()
	teamID := testutil.TestTeamID()

	for _, age := range []time.Duration{200 * 24 * time.Hour, time.Minute} {
		tag, err := taxonomy.NewTag(teamID, "outdoor", "")
		require.NoError(t, err)
		entry, err := audit.NewEntryFromEvent(tag.GetDomainEvents()[0])
		require.NoError(t, err)
		entry.OccurredAt = time.Now().Add(-age)
		require.NoError(t, repo.Append(ctx, entry))
	}

	job := appaudit.NewRetentionJob(repo, 90*24*time.Hour, nil)
	assert.Equal(t, "audit-retention", job.Name())
	require.NoError(t, job.Run(ctx))

	left, err := appaudit.NewService(repo).List(ctx, teamID, appaudit.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, left, 1)
}
