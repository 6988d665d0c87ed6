package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/plannersmart/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlarmRepo_Lifecycle(t *testing.T) {
	database := testutil.NewTestDB(t)
	user := testutil.SeedUser(t, database, "owner")
	repo := NewSQLiteAlarmRepo(database)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	wake := testutil.NewTestAlarm("Wake up", testutil.WithAlarmTime(base))
	stretch := testutil.NewTestAlarm("Stretch", testutil.WithAlarmTime(base.Add(-time.Hour)))
	require.NoError(t, repo.Create(ctx, user.ID, wake))
	require.NoError(t, repo.Create(ctx, user.ID, stretch))
	assert.ErrorIs(t, repo.Create(ctx, user.ID, wake), ErrConflict)

	alarms, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, alarms, 2)
	assert.Equal(t, stretch.ID, alarms[0].ID)
	assert.True(t, alarms[0].IsActive)

	wake.Title = "Wake up!"
	require.NoError(t, repo.Update(ctx, user.ID, wake))
	require.NoError(t, repo.SetActive(ctx, user.ID, wake.ID, false))

	alarms, err = repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wake up!", alarms[1].Title)
	assert.False(t, alarms[1].IsActive)

	require.NoError(t, repo.Delete(ctx, user.ID, stretch.ID))
	assert.ErrorIs(t, repo.Delete(ctx, user.ID, stretch.ID), ErrNotFound)
	assert.ErrorIs(t, repo.SetActive(ctx, user.ID, "missing", true), ErrNotFound)
}
