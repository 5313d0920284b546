package conflict

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const initialRules = `
antonyms:
  - first: increase
    second: decrease
`

const updatedRules = `
antonyms:
  - first: increase
    second: decrease
  - first: open
    second: close
`

func TestRuleWatcherPublishesReloadedSnapshots(t *testing.T) {
	path := writeRuleFile(t, initialRules)

	reloaded := make(chan *RuleSet, 4)
	watcher, err := NewRuleWatcher(path, func(rs *RuleSet) { reloaded <- rs }, nil)
	require.NoError(t, err)
	watcher.debounceTime = 25 * time.Millisecond

	require.Len(t, watcher.Snapshot().Antonyms, 1, "initial load happens at construction")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	defer watcher.Stop() //nolint:errcheck

	assert.True(t, watcher.IsRunning())

	require.NoError(t, os.WriteFile(path, []byte(updatedRules), 0o600))

	require.Eventually(t, func() bool {
		return len(watcher.Snapshot().Antonyms) == 2
	}, 5*time.Second, 20*time.Millisecond, "snapshot should pick up the rewritten file")

	select {
	case rs := <-reloaded:
		assert.Len(t, rs.Antonyms, 2)
	case <-time.After(time.Second):
		t.Fatal("reload callback never fired")
	}
}

func TestRuleWatcherKeepsSnapshotOnBadReload(t *testing.T) {
	path := writeRuleFile(t, initialRules)

	watcher, err := NewRuleWatcher(path, nil, nil)
	require.NoError(t, err)
	watcher.debounceTime = 25 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	defer watcher.Stop() //nolint:errcheck

	before := watcher.Snapshot()
	require.NoError(t, os.WriteFile(path, []byte("antonyms: [broken"), 0o600))

	// Give the debounced reload a chance to run and fail.
	time.Sleep(300 * time.Millisecond)
	assert.Same(t, before, watcher.Snapshot(), "failed reloads keep the previous snapshot in service")

	require.NoError(t, os.WriteFile(path, []byte(updatedRules), 0o600))
	require.Eventually(t, func() bool {
		return len(watcher.Snapshot().Antonyms) == 2
	}, 5*time.Second, 20*time.Millisecond, "a later valid rewrite still lands")
}

func TestRuleWatcherStopIsIdempotent(t *testing.T) {
	path := writeRuleFile(t, initialRules)

	watcher, err := NewRuleWatcher(path, nil, nil)
	require.NoError(t, err)

	require.NoError(t, watcher.Start(context.Background()))
	require.NoError(t, watcher.Stop())
	require.NoError(t, watcher.Stop())
	assert.False(t, watcher.IsRunning())
}

func TestNewRuleWatcherRequiresLoadableFile(t *testing.T) {
	_, err := NewRuleWatcher("/nonexistent/rules.yaml", nil, nil)
	assert.Error(t, err)
}
