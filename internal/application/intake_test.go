package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	records []Record
	nextID  uint
	err     error
}

func (s *memoryStore) Insert(_ context.Context, rec Record, _ []byte) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, s.err)
	}
	s.nextID++
	rec.ID = s.nextID
	s.records = append(s.records, rec)
	return rec.ID, nil
}

func (s *memoryStore) List(_ context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, s.err)
	}
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return Sort(out, SortByDate, Descending), nil
}

type recordingNotifier struct {
	received []Record
	err      error
}

func (n *recordingNotifier) ApplicationReceived(_ context.Context, rec Record) error {
	n.received = append(n.received, rec)
	return n.err
}

func TestSubmit_ValidationFailureDoesNotWrite(t *testing.T) {
	store := &memoryStore{}
	notifier := &recordingNotifier{}
	svc := NewService(store, WithNotifier(notifier))

	raw := validSubmission()
	delete(raw, "phone")
	delete(raw, "fb_ads")

	res, err := svc.Submit(context.Background(), raw, nil)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, FieldErrors{"phone": msgRequired, "fb_ads": msgRequired}, res.Fields)
	assert.Empty(t, store.records)
	assert.Empty(t, notifier.received)
}

func TestSubmit_StoresAndNotifies(t *testing.T) {
	store := &memoryStore{}
	notifier := &recordingNotifier{}
	svc := NewService(store, WithNotifier(notifier), WithTimeout(time.Second))

	before := time.Now().UTC().Truncate(time.Microsecond)
	res, err := svc.Submit(context.Background(), validSubmission(), []byte(`{}`))
	require.NoError(t, err)
	require.True(t, res.OK())

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, res.ID, list[0].ID)
	assert.Equal(t, "mona@example.com", list[0].Email)
	assert.False(t, list[0].CreatedAt.Before(before))
	assert.Equal(t, time.UTC, list[0].CreatedAt.Location())

	require.Len(t, notifier.received, 1)
	assert.Equal(t, res.ID, notifier.received[0].ID)
}

func TestSubmit_StorageFailure(t *testing.T) {
	store := &memoryStore{err: errors.New("connection refused")}
	notifier := &recordingNotifier{}
	svc := NewService(store, WithNotifier(notifier))

	_, err := svc.Submit(context.Background(), validSubmission(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorage))
	assert.Empty(t, notifier.received)
}

func TestSubmit_NotifierFailureIsNotFatal(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store, WithNotifier(&recordingNotifier{err: errors.New("redis down")}))

	res, err := svc.Submit(context.Background(), validSubmission(), nil)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Len(t, store.records, 1)
}

func TestSubmit_ClockNeverGoesBackwards(t *testing.T) {
	base := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(-time.Minute), base.Add(time.Minute)}
	i := 0
	clock := func() time.Time {
		now := ticks[i]
		i++
		return now
	}

	store := &memoryStore{}
	svc := NewService(store, WithClock(clock))
	for range ticks {
		_, err := svc.Submit(context.Background(), validSubmission(), nil)
		require.NoError(t, err)
	}

	require.Len(t, store.records, 3)
	assert.Equal(t, base, store.records[0].CreatedAt)
	assert.Equal(t, base, store.records[1].CreatedAt)
	assert.Equal(t, base.Add(time.Minute), store.records[2].CreatedAt)
}

func TestList_StorageFailure(t *testing.T) {
	svc := NewService(&memoryStore{err: errors.New("timeout")})

	_, err := svc.List(context.Background())
	assert.True(t, errors.Is(err, ErrStorage))
}
