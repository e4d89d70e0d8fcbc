package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJanitor_Schedule(t *testing.T) {
	j, err := NewJanitor(nil,
		Job{Name: "a", Spec: "@every 1m", Run: func(context.Context) error { return nil }},
		Job{Name: "b", Spec: "*/5 * * * *", Run: func(context.Context) error { return nil }},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, j.Entries())
	j.Start()
	j.Stop()
}

func TestJanitor_BadSpec(t *testing.T) {
	_, err := NewJanitor(nil, Job{Name: "broken", Spec: "every minute", Run: func(context.Context) error { return nil }})
	assert.ErrorContains(t, err, "schedule broken")
}

func TestJanitor_JobRunsWithDeadline(t *testing.T) {
	j, err := NewJanitor(nil)
	require.NoError(t, err)
	ran := false
	j.wrap(Job{Name: "x", Run: func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		ran = ok
		return nil
	}})()
	assert.True(t, ran)
}
