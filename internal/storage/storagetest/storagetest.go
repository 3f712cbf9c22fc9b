// Package storagetest provides a behavioral test suite shared by every
// storage.Store implementation.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/tridentbot/internal/storage"
)

// Run exercises s against the Store contract.
//
// Precondition: s is freshly migrated and empty.
func Run(t *testing.T, s storage.Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Health(ctx, time.Second))

	// alice: 3 messages, bob: 2 (renamed), carol: 1
	for _, m := range []struct{ id, name string }{
		{"1", "alice"}, {"2", "bob"}, {"1", "alice"}, {"3", "carol"}, {"2", "Bob"}, {"1", "alice"},
	} {
		require.NoError(t, s.RecordMessage(ctx, m.id, m.name))
	}

	for _, c := range []struct{ name, id string }{
		{"weather", "1"}, {"weather", "1"}, {"weather", "2"},
		{"rolltrident", "2"}, {"rolltrident", "2"}, {"rolltrident", "2"},
		{"age", "3"},
	} {
		require.NoError(t, s.RecordCommand(ctx, c.name, c.id))
	}

	require.NoError(t, s.RecordTridentRoll(ctx, "1", 0, now.Add(-48*time.Hour)))
	require.NoError(t, s.RecordTridentRoll(ctx, "1", 0, now.Add(-time.Hour)))
	require.NoError(t, s.RecordTridentRoll(ctx, "2", 250, now.Add(-48*time.Hour)))
	require.NoError(t, s.RecordTridentRoll(ctx, "2", 0, now.Add(-time.Hour)))
	require.NoError(t, s.RecordTridentRoll(ctx, "3", 120, now.Add(-time.Minute)))

	require.NoError(t, s.RecordGunpowderRoll(ctx, "3", 40, now))
	require.NoError(t, s.RecordGunpowderRoll(ctx, "1", 12, now))

	t.Run("TopChatters", func(t *testing.T) {
		got, err := s.TopChatters(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, []storage.Count{{Name: "alice", Value: 3}, {Name: "Bob", Value: 2}, {Name: "carol", Value: 1}}, got)
	})

	t.Run("TopCommands", func(t *testing.T) {
		got, err := s.TopCommands(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []storage.Count{{Name: "rolltrident", Value: 3}, {Name: "weather", Value: 3}}, got)
	})

	t.Run("TopSpammers", func(t *testing.T) {
		got, err := s.TopSpammers(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, []storage.Count{{Name: "Bob", Value: 4}, {Name: "alice", Value: 2}, {Name: "carol", Value: 1}}, got)
	})

	t.Run("TopTridentRolls", func(t *testing.T) {
		got, err := s.TopTridentRolls(ctx, time.Time{}, 3)
		require.NoError(t, err)
		assert.Equal(t, []storage.Count{{Name: "Bob", Value: 250}, {Name: "carol", Value: 120}, {Name: "alice", Value: 0}}, got)
	})

	t.Run("TopTridentRollsSince", func(t *testing.T) {
		got, err := s.TopTridentRolls(ctx, now.Add(-24*time.Hour), 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, storage.Count{Name: "carol", Value: 120}, got[0])
		assert.Equal(t, int64(0), got[1].Value)
		assert.Equal(t, int64(0), got[2].Value)
	})

	t.Run("TopGunpowderRolls", func(t *testing.T) {
		got, err := s.TopGunpowderRolls(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, []storage.Count{{Name: "carol", Value: 40}, {Name: "alice", Value: 12}}, got)
	})

	t.Run("MostZeroTridents", func(t *testing.T) {
		got, err := s.MostZeroTridents(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, []storage.Count{{Name: "alice", Value: 2}, {Name: "Bob", Value: 1}}, got)
	})

	t.Run("CommandTopUsers", func(t *testing.T) {
		got, err := s.CommandTopUsers(ctx, "weather", 3)
		require.NoError(t, err)
		assert.Equal(t, []storage.Count{{Name: "alice", Value: 2}, {Name: "Bob", Value: 1}}, got)
	})

	t.Run("CommandTotal", func(t *testing.T) {
		total, err := s.CommandTotal(ctx, "weather")
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		total, err = s.CommandTotal(ctx, "never")
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("EmptyLeaderboard", func(t *testing.T) {
		got, err := s.CommandTopUsers(ctx, "never", 3)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
