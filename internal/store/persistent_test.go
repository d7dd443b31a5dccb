package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/jobbook/internal/store"
)

// recorder is a saver that remembers every value it was asked to persist.
type recorder struct {
	mu    sync.Mutex
	saves []string
	times []time.Time
	err   error
}

func (r *recorder) save(_ context.Context, v string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.saves = append(r.saves, v)
	r.times = append(r.times, time.Now())

	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.saves)
}

func (r *recorder) last() (string, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.saves[len(r.saves)-1], r.times[len(r.times)-1]
}

func loadValue(v string) store.Loader[string] {
	return func(context.Context) (string, error) { return v, nil }
}

func newLoaded(t *testing.T, rec *recorder, delay time.Duration) *store.Persistent[string] {
	t.Helper()

	p := store.NewPersistent("default", loadValue("remote"), rec.save, store.WithSaveDelay(delay))
	p.Load(context.Background())
	t.Cleanup(p.Close)

	return p
}

func TestPersistent_LoadSuccess(t *testing.T) {
	p := store.NewPersistent("default", loadValue("remote"), (&recorder{}).save)
	assert.False(t, p.Loaded())
	assert.Equal(t, "default", p.Get())

	notified := 0
	p.Subscribe(func() { notified++ })

	p.Load(context.Background())

	assert.True(t, p.Loaded())
	assert.True(t, p.Saved())
	assert.Equal(t, "remote", p.Get())
	assert.Equal(t, 1, notified)
}

func TestPersistent_LoadFailureFallsBackToDefault(t *testing.T) {
	failing := func(context.Context) (string, error) { return "", errors.New("network down") }
	p := store.NewPersistent("default", failing, (&recorder{}).save)

	p.Load(context.Background())

	assert.True(t, p.Loaded())
	assert.True(t, p.Saved())
	assert.Equal(t, "default", p.Get())
}

func TestPersistent_SetMarksDirty(t *testing.T) {
	rec := &recorder{}
	p := newLoaded(t, rec, time.Hour)

	notified := 0
	p.Subscribe(func() { notified++ })

	p.Set("edited")

	assert.False(t, p.Saved())
	assert.Equal(t, "edited", p.Get())
	assert.Equal(t, 1, notified)
	assert.Zero(t, rec.count())
}

func TestPersistent_UpdateUnchangedStaysSaved(t *testing.T) {
	rec := &recorder{}
	p := newLoaded(t, rec, time.Hour)

	notified := 0
	p.Subscribe(func() { notified++ })

	assert.False(t, p.Update(func(v string) (string, bool) { return v, false }))
	assert.True(t, p.Saved())
	assert.Zero(t, notified)

	assert.True(t, p.Update(func(v string) (string, bool) { return v + "!", true }))
	assert.False(t, p.Saved())
	assert.Equal(t, "remote!", p.Get())
	assert.Equal(t, 1, notified)
}

func TestPersistent_DebounceCoalesces(t *testing.T) {
	rec := &recorder{}
	delay := 50 * time.Millisecond
	p := newLoaded(t, rec, delay)

	for _, v := range []string{"a", "b", "c", "d", "e"} {
		p.Set(v)
	}

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

	time.Sleep(3 * delay)
	assert.Equal(t, 1, rec.count())

	v, _ := rec.last()
	assert.Equal(t, "e", v)
	assert.True(t, p.Saved())
}

func TestPersistent_DebounceRearmsOnEverySet(t *testing.T) {
	rec := &recorder{}
	delay := 100 * time.Millisecond
	p := newLoaded(t, rec, delay)

	p.Set("first")
	time.Sleep(delay / 5)
	p.Set("second")
	secondAt := time.Now()

	require.Eventually(t, func() bool { return rec.count() == 1 }, 2*time.Second, 5*time.Millisecond)

	v, at := rec.last()
	assert.Equal(t, "second", v)
	assert.GreaterOrEqual(t, at.Sub(secondAt), delay)

	time.Sleep(2 * delay)
	assert.Equal(t, 1, rec.count())
}

func TestPersistent_NoDebouncedSaveBeforeLoad(t *testing.T) {
	rec := &recorder{}
	delay := 20 * time.Millisecond
	p := store.NewPersistent("default", loadValue("remote"), rec.save, store.WithSaveDelay(delay))
	t.Cleanup(p.Close)

	p.Set("early")
	time.Sleep(5 * delay)

	assert.Zero(t, rec.count())
	assert.False(t, p.Saved())
}

func TestPersistent_ExplicitSaveCancelsTimer(t *testing.T) {
	rec := &recorder{}
	delay := 30 * time.Millisecond
	p := newLoaded(t, rec, delay)

	p.Set("now")
	require.NoError(t, p.Save(context.Background()))
	assert.Equal(t, 1, rec.count())

	time.Sleep(4 * delay)
	assert.Equal(t, 1, rec.count())
}

func TestPersistent_SaveFailureStillMarksClean(t *testing.T) {
	rec := &recorder{err: errors.New("quota exceeded")}
	p := newLoaded(t, rec, time.Hour)

	p.Set("lost")
	err := p.Save(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.True(t, p.Saved())
}

func TestPersistent_Flush(t *testing.T) {
	rec := &recorder{}
	p := newLoaded(t, rec, time.Hour)

	require.NoError(t, p.Flush(context.Background()))
	assert.Zero(t, rec.count())

	p.Set("dirty")
	require.NoError(t, p.Flush(context.Background()))
	assert.Equal(t, 1, rec.count())
}

func TestPersistent_CloseCancelsPendingSave(t *testing.T) {
	rec := &recorder{}
	delay := 20 * time.Millisecond
	p := newLoaded(t, rec, delay)

	p.Set("pending")
	p.Close()

	time.Sleep(5 * delay)
	assert.Zero(t, rec.count())
	assert.False(t, p.Saved())
}
