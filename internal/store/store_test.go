package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/pathgenie/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		Recommendations: []types.Recommendation{
			{Rank: 1, CareerTitle: "Cloud Engineer", FitScore: 87, SkillsYouHave: []string{"Linux"}},
			{Rank: 2, CareerTitle: "Data Analyst", FitScore: 72},
		},
		Summary: types.Summary{
			TopRecommendation: "Cloud Engineer",
			ConfidenceLevel:   types.ConfidenceMedium,
		},
	}
}

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_SaveAndGet(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	shared := NewSharedResult("asha@example.com", sampleResult(), time.Hour)
	require.NoError(t, s.SaveShared(ctx, shared))

	got, err := s.GetShared(ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.ID, got.ID)
	assert.Equal(t, "asha@example.com", got.Email)
	assert.Equal(t, *sampleResult(), got.Result)
	assert.Equal(t, shared.CreatedAt.Unix(), got.CreatedAt.Unix())
	assert.Equal(t, shared.ExpiresAt.Unix(), got.ExpiresAt.Unix())
}

func TestSQLite_NoExpiry(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	shared := NewSharedResult("", sampleResult(), 0)
	assert.True(t, shared.ExpiresAt.IsZero())
	require.NoError(t, s.SaveShared(ctx, shared))

	got, err := s.GetShared(ctx, shared.ID)
	require.NoError(t, err)
	assert.True(t, got.ExpiresAt.IsZero())
}

func TestSQLite_NotFound(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	_, err := s.GetShared(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetShared(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_ExpiredIsNotFound(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	shared := NewSharedResult("", sampleResult(), time.Hour)
	shared.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, s.SaveShared(ctx, shared))

	_, err := s.GetShared(ctx, shared.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_DeleteExpired(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	expired := NewSharedResult("", sampleResult(), time.Hour)
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	live := NewSharedResult("", sampleResult(), time.Hour)
	forever := NewSharedResult("", sampleResult(), 0)
	for _, r := range []*SharedResult{expired, live, forever} {
		require.NoError(t, s.SaveShared(ctx, r))
	}

	n, err := s.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.GetShared(ctx, live.ID)
	assert.NoError(t, err)
	_, err = s.GetShared(ctx, forever.ID)
	assert.NoError(t, err)
}

func TestSQLite_DuplicateID(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	shared := NewSharedResult("", sampleResult(), 0)
	require.NoError(t, s.SaveShared(ctx, shared))
	assert.Error(t, s.SaveShared(ctx, shared))
}

func TestSharedResult_Expired(t *testing.T) {
	now := time.Now()
	assert.False(t, (&SharedResult{}).Expired(now))
	assert.False(t, (&SharedResult{ExpiresAt: now.Add(time.Second)}).Expired(now))
	assert.True(t, (&SharedResult{ExpiresAt: now}).Expired(now))
}

type countingStore struct {
	Store
	calls   atomic.Int32
	release chan struct{}
	shared  *SharedResult
}

func (c *countingStore) GetShared(_ context.Context, id string) (*SharedResult, error) {
	c.calls.Add(1)
	<-c.release
	if id != c.shared.ID {
		return nil, ErrNotFound
	}
	return c.shared, nil
}

func TestCached_CoalescesConcurrentLookups(t *testing.T) {
	backend := &countingStore{
		release: make(chan struct{}),
		shared:  NewSharedResult("", sampleResult(), 0),
	}
	cached := NewCached(backend)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*SharedResult, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cached.GetShared(context.Background(), backend.shared.ID)
		}(i)
	}

	require.Eventually(t, func() bool { return backend.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(backend.release)
	wg.Wait()

	assert.LessOrEqual(t, backend.calls.Load(), int32(callers))
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, backend.shared.ID, results[i].ID)
	}

	results[0].Result.Recommendations[0].CareerTitle = "changed"
	results[0].Result.Recommendations[0].SkillsYouHave[0] = "changed"
	assert.Equal(t, "Cloud Engineer", results[1].Result.Recommendations[0].CareerTitle, "callers get independent copies")
	assert.Equal(t, "Linux", results[1].Result.Recommendations[0].SkillsYouHave[0])
	assert.Equal(t, "Linux", backend.shared.Result.Recommendations[0].SkillsYouHave[0])
}

func TestCached_CancelledCallerDoesNotFailOthers(t *testing.T) {
	backend := &countingStore{
		release: make(chan struct{}),
		shared:  NewSharedResult("", sampleResult(), 0),
	}
	cached := NewCached(backend)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cached.GetShared(firstCtx, backend.shared.ID)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return backend.calls.Load() == 1 }, time.Second, time.Millisecond)

	secondErr := make(chan error, 1)
	var second *SharedResult
	go func() {
		var err error
		second, err = cached.GetShared(context.Background(), backend.shared.ID)
		secondErr <- err
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(backend.release)
	require.NoError(t, <-secondErr)
	assert.Equal(t, backend.shared.ID, second.ID)
}

func TestCached_PropagatesNotFound(t *testing.T) {
	backend := &countingStore{release: make(chan struct{}), shared: NewSharedResult("", sampleResult(), 0)}
	close(backend.release)

	_, err := NewCached(backend).GetShared(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
