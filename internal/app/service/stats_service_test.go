package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikkim/reviewhub-backend/internal/app/model"
	"github.com/ikkim/reviewhub-backend/internal/app/repository"
	"github.com/ikkim/reviewhub-backend/internal/db"
	"github.com/ikkim/reviewhub-backend/pkg/redis"
)

// fakeStatsCache는 메모리 기반 JSON 캐시입니다.
type fakeStatsCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{entries: make(map[string][]byte)}
}

func (f *fakeStatsCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.entries[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeStatsCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	f.sets++
	return nil
}

func TestStatsService_RefreshStats(t *testing.T) {
	testDB := db.SetupTestDB(t)
	userRepo := repository.NewUserRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	statsService := NewStatsService(userRepo, reviewRepo, nil)

	user := createTestUser(t, testDB, "stats@example.com", model.RoleUser)
	for i := 0; i < 7; i++ {
		review := &model.Review{
			UserID:  user.ID,
			Title:   fmt.Sprintf("리뷰 %d", i),
			Content: "내용",
		}
		require.NoError(t, testDB.Create(review).Error)
	}

	stats, err := statsService.RefreshStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(7), stats.TotalReviews)
	assert.Equal(t, int64(1), stats.TotalUsers)
	require.Len(t, stats.RecentReviews, 5)
	// 최신 리뷰가 앞에 와야 함
	assert.Equal(t, "리뷰 6", stats.RecentReviews[0].Title)
	assert.False(t, stats.GeneratedAt.IsZero())
}

func TestStatsService_GetStats_UsesCache(t *testing.T) {
	testDB := db.SetupTestDB(t)
	userRepo := repository.NewUserRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	cache := newFakeStatsCache()
	statsService := NewStatsService(userRepo, reviewRepo, cache)

	createTestUser(t, testDB, "cached@example.com", model.RoleUser)

	// 첫 호출은 DB에서 계산하고 캐시에 기록
	first, err := statsService.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.TotalUsers)
	assert.Equal(t, 1, cache.sets)

	// 이후 DB가 바뀌어도 캐시 값이 반환됨
	createTestUser(t, testDB, "later@example.com", model.RoleUser)

	second, err := statsService.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.TotalUsers)
	assert.Equal(t, 1, cache.sets)

	// 재계산하면 캐시가 갱신됨
	refreshed, err := statsService.RefreshStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), refreshed.TotalUsers)
	assert.Equal(t, 2, cache.sets)

	third, err := statsService.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), third.TotalUsers)
}
