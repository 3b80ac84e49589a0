package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	err := New(ErrCodePathNotFound, "missing post")
	assert.Equal(t, ErrCodePathNotFound, err.Code)
	assert.Equal(t, SeverityError, err.Severity)
	assert.Contains(t, err.Error(), "QLE3001")
	assert.Contains(t, err.Error(), "missing post")
}

func TestWrapInheritsContext(t *testing.T) {
	inner := New(ErrCodeRequestFailed, "request failed").
		WithContext("path", "posts/a.md")
	outer := Wrap(inner, ErrCodeAPIFailure, "batch failed")

	require.NotNil(t, outer)
	assert.Equal(t, "posts/a.md", outer.Context["path"])
	assert.ErrorIs(t, outer, inner)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "nothing"))
}

func TestNotFoundErrorCarriesPath(t *testing.T) {
	err := NotFoundError("docs/漢字 dir/a.md")
	assert.Contains(t, err.Error(), "docs/漢字 dir/a.md")
	assert.Equal(t, ErrCodePathNotFound, GetErrorCode(err))
}

func TestErrorIsByCode(t *testing.T) {
	a := New(ErrCodeForbidden, "one")
	b := New(ErrCodeForbidden, "two")
	assert.True(t, errors.Is(a, b))
	c := New(ErrCodeAPIFailure, "other")
	assert.False(t, errors.Is(a, c))
}

func TestGetErrorCodePlainError(t *testing.T) {
	assert.Equal(t, ErrCodeInternal, GetErrorCode(fmt.Errorf("plain")))
}

func TestTruncateMessage(t *testing.T) {
	assert.Equal(t, "short", TruncateMessage("short", 30))
	long := "0123456789012345678901234567890123456789"
	assert.Len(t, TruncateMessage(long, 30), 30)
}

func TestTruncateMessageMultibyte(t *testing.T) {
	long := strings.Repeat("错误：仓库不存在", 6)
	got := TruncateMessage(long, 30)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 30, utf8.RuneCountInString(got))

	// A short multi-byte string exceeds maxLen in bytes but not runes.
	assert.Equal(t, "仓库不存在", TruncateMessage("仓库不存在", 30))
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		return New(ErrCodeConfigInvalid, "bad config")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetrySucceedsAfterFailure(t *testing.T) {
	cfg := &RetryConfig{
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   1.0,
		RetryableError: func(err error) bool {
			return true
		},
	}
	calls := 0
	err := Retry(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return New(ErrCodeNetworkUnavailable, "flaky")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}
