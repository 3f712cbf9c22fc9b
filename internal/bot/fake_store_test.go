package bot_test

import (
	"context"
	"sync"
	"time"

	"github.com/cory-johannsen/tridentbot/internal/storage"
)

type roll struct {
	userID string
	value  int
	at     time.Time
}

// fakeStore records writes and answers every leaderboard query with rows.
// When err is set every method fails with it.
type fakeStore struct {
	mu        sync.Mutex
	err       error
	messages  []string
	commands  []string
	tridents  []roll
	gunpowder []roll

	rows     []storage.Count
	total    int64
	since    time.Time
	lastName string
	limit    int
}

var _ storage.Store = (*fakeStore)(nil)

func (f *fakeStore) RecordMessage(_ context.Context, userID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, userID)
	return nil
}

func (f *fakeStore) RecordCommand(_ context.Context, name, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.commands = append(f.commands, name)
	return nil
}

func (f *fakeStore) RecordTridentRoll(_ context.Context, userID string, durability int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.tridents = append(f.tridents, roll{userID: userID, value: durability, at: at})
	return nil
}

func (f *fakeStore) RecordGunpowderRoll(_ context.Context, userID string, gunpowder int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.gunpowder = append(f.gunpowder, roll{userID: userID, value: gunpowder, at: at})
	return nil
}

func (f *fakeStore) query(limit int) ([]storage.Count, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeStore) TopCommands(_ context.Context, limit int) ([]storage.Count, error) {
	return f.query(limit)
}

func (f *fakeStore) TopChatters(_ context.Context, limit int) ([]storage.Count, error) {
	return f.query(limit)
}

func (f *fakeStore) TopSpammers(_ context.Context, limit int) ([]storage.Count, error) {
	return f.query(limit)
}

func (f *fakeStore) TopTridentRolls(_ context.Context, since time.Time, limit int) ([]storage.Count, error) {
	f.mu.Lock()
	f.since = since
	f.mu.Unlock()
	return f.query(limit)
}

func (f *fakeStore) TopGunpowderRolls(_ context.Context, limit int) ([]storage.Count, error) {
	return f.query(limit)
}

func (f *fakeStore) MostZeroTridents(_ context.Context, limit int) ([]storage.Count, error) {
	return f.query(limit)
}

func (f *fakeStore) CommandTopUsers(_ context.Context, name string, limit int) ([]storage.Count, error) {
	f.mu.Lock()
	f.lastName = name
	f.mu.Unlock()
	return f.query(limit)
}

func (f *fakeStore) CommandTotal(_ context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastName = name
	if f.err != nil {
		return 0, f.err
	}
	return f.total, nil
}

func (f *fakeStore) Health(context.Context, time.Duration) error { return f.err }

func (f *fakeStore) Close() error { return nil }
