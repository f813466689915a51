package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freelance_chat/pkg/logger"
)

type fakeRateLimitRepo struct {
	key    string
	window time.Duration
}

func (f *fakeRateLimitRepo) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error) {
	f.key = key
	f.window = window
	return true, 1, nil
}

func TestRateLimitService_KeyAndWindow(t *testing.T) {
	repo := &fakeRateLimitRepo{}
	svc := NewRateLimitService(repo, logger.New("error"))

	allowed, count, err := svc.Allow(context.Background(), "user:abc", 10, 60)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, "rate_limit:user:abc", repo.key)
	assert.Equal(t, time.Minute, repo.window)
}
