package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentRecord_Prune(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	rec := SentRecord{
		"old":    now.Add(-8 * 24 * time.Hour),
		"recent": now.Add(-6 * 24 * time.Hour),
		"fresh":  now.Add(-time.Minute),
	}

	removed := rec.Prune(now, 7*24*time.Hour)
	assert.Equal(t, 1, removed)
	assert.False(t, rec.Has("old"))
	assert.True(t, rec.Has("recent"))
	assert.True(t, rec.Has("fresh"))
}

func TestSentRecord_Record(t *testing.T) {
	rec := SentRecord{}
	now := time.Now()
	rec.Record("abc", now)
	assert.True(t, rec.Has("abc"))
	assert.Equal(t, now, rec["abc"])

	later := now.Add(time.Hour)
	rec.Record("abc", later)
	assert.Equal(t, later, rec["abc"], "record overwrites previous timestamp")
}

func TestOutcomes(t *testing.T) {
	t.Run("uploads all sent", func(t *testing.T) {
		out := UploadsOutcome(3, 3, nil)
		assert.Equal(t, StatusSuccess, out.Status)
		assert.Equal(t, "3/3 files uploaded successfully", out.Message)
		assert.Equal(t, []string{}, out.Failed)
	})

	t.Run("uploads partial", func(t *testing.T) {
		out := UploadsOutcome(1, 2, []string{"a.exe"})
		assert.Equal(t, StatusPartial, out.Status)
		assert.Equal(t, out.Total, out.Sent+len(out.Failed))
	})

	t.Run("posts partial", func(t *testing.T) {
		out := PostsOutcome(2, 3, []string{"second"})
		assert.Equal(t, StatusPartial, out.Status)
		assert.Equal(t, "Sent 2 posts. Failed to send: second", out.Message)
	})

	t.Run("posts success", func(t *testing.T) {
		out := PostsOutcome(3, 3, nil)
		assert.Equal(t, StatusSuccess, out.Status)
		assert.Equal(t, "Successfully sent 3 Reddit posts to Discord!", out.Message)
	})

	t.Run("error", func(t *testing.T) {
		out := ErrorOutcome("boom")
		assert.Equal(t, StatusError, out.Status)
		assert.Equal(t, "boom", out.Message)
	})
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("relay uploads: %w", NewValidationError("Invalid webhook URL"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.NotErrorIs(t, err, ErrInternal)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid webhook URL", verr.Message)
}
