package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_RunNowPersistsNotifications(t *testing.T) {
	h := newTestHandler(t)
	router := NewRouter(h)
	seedAlertProjects(t, router)

	sweeper := NewDeadlineSweeper(h)
	sweeper.RunNow()

	records, err := h.Store.ListNotifications(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSweeper_StartRunsImmediately(t *testing.T) {
	h := newTestHandler(t)
	router := NewRouter(h)
	seedAlertProjects(t, router)

	sweeper := NewDeadlineSweeper(h)
	sweeper.CheckInterval = time.Hour
	sweeper.Start()

	// The initial sweep runs on the worker goroutine; poll briefly
	deadline := time.Now().Add(2 * time.Second)
	for {
		records, err := h.Store.ListNotifications(context.Background())
		require.NoError(t, err)
		if len(records) == 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 3 notifications after startup sweep, got %d", len(records))
		}
		time.Sleep(10 * time.Millisecond)
	}

	sweeper.Stop()
}

func TestSweeper_DisabledDoesNotStart(t *testing.T) {
	h := newTestHandler(t)
	router := NewRouter(h)
	seedAlertProjects(t, router)

	sweeper := NewDeadlineSweeper(h)
	sweeper.Enabled = false
	sweeper.Start()
	sweeper.Stop()

	records, err := h.Store.ListNotifications(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
