package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/drehill/site-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(code string) *domain.OTPRecord {
	now := time.Now()
	return &domain.OTPRecord{
		Subject:   "admin@drehill.in",
		Code:      code,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(5 * time.Minute).Unix(),
	}
}

func TestOTPStore_PutOverwritesPending(t *testing.T) {
	s := NewOTPStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, record("111111")))
	require.NoError(t, s.Put(ctx, record("222222")))

	rec, err := s.Get(ctx, "admin@drehill.in")
	require.NoError(t, err)
	assert.Equal(t, "222222", rec.Code)
}

func TestOTPStore_GetUnknownSubject(t *testing.T) {
	s := NewOTPStore()
	_, err := s.Get(context.Background(), "nobody@drehill.in")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestOTPStore_CompareAndDelete_ConsumesOnMatch(t *testing.T) {
	s := NewOTPStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, record("123456")))

	require.NoError(t, s.CompareAndDelete(ctx, "admin@drehill.in", "123456"))

	_, err := s.Get(ctx, "admin@drehill.in")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestOTPStore_CompareAndDelete_MismatchKeepsRecord(t *testing.T) {
	s := NewOTPStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, record("123456")))

	err := s.CompareAndDelete(ctx, "admin@drehill.in", "654321")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	rec, err := s.Get(ctx, "admin@drehill.in")
	require.NoError(t, err)
	assert.Equal(t, "123456", rec.Code)
}

func TestOTPStore_CompareAndDelete_ExactlyOneWinner(t *testing.T) {
	s := NewOTPStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, record("123456")))

	const callers = 32
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.CompareAndDelete(ctx, "admin@drehill.in", "123456")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.True(t, errors.Is(err, domain.ErrNotFound))
		}
	}
	assert.Equal(t, 1, winners)
}
