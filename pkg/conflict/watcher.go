package conflict

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RuleWatcher watches a rule file for changes and republishes the parsed
// tables as immutable snapshots. Consumers read the latest snapshot at the
// start of each coordination cycle; a reload never mutates a set already
// handed out.
type RuleWatcher struct {
	rulePath     string
	watcher      *fsnotify.Watcher
	onReload     func(*RuleSet)
	logger       *slog.Logger
	snapshot     atomic.Pointer[RuleSet]
	mu           sync.RWMutex
	running      bool
	stopCh       chan struct{}
	debounceTime time.Duration
}

// NewRuleWatcher loads the rule file once and prepares a watcher over it.
// onReload may be nil; successful reloads always update the snapshot first.
func NewRuleWatcher(rulePath string, onReload func(*RuleSet), logger *slog.Logger) (*RuleWatcher, error) {
	initial, err := LoadRuleSet(rulePath)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	rw := &RuleWatcher{
		rulePath:     rulePath,
		watcher:      watcher,
		onReload:     onReload,
		logger:       logger,
		stopCh:       make(chan struct{}),
		debounceTime: 1 * time.Second, // Debounce multiple rapid changes
	}
	rw.snapshot.Store(initial)
	return rw, nil
}

// Snapshot returns the most recently published rule tables. Callers must
// treat the returned set as read-only.
func (rw *RuleWatcher) Snapshot() *RuleSet {
	return rw.snapshot.Load()
}

// Start begins watching the rule file for changes.
func (rw *RuleWatcher) Start(ctx context.Context) error {
	rw.mu.Lock()
	if rw.running {
		rw.mu.Unlock()
		return nil
	}
	rw.running = true
	rw.mu.Unlock()

	// Watch the directory because some editors create temp files and rename them
	ruleDir := filepath.Dir(rw.rulePath)
	if err := rw.watcher.Add(ruleDir); err != nil {
		rw.mu.Lock()
		rw.running = false
		rw.mu.Unlock()
		return err
	}

	rw.logger.Info("Rule watcher started", "rule_path", rw.rulePath)

	go rw.watchLoop(ctx)
	return nil
}

// Stop stops the rule file watcher. Safe to call more than once.
func (rw *RuleWatcher) Stop() error {
	rw.mu.Lock()
	if !rw.running {
		rw.mu.Unlock()
		return nil
	}
	rw.running = false
	rw.mu.Unlock()

	close(rw.stopCh)
	return rw.watcher.Close()
}

// IsRunning returns whether the watch loop is active.
func (rw *RuleWatcher) IsRunning() bool {
	rw.mu.RLock()
	defer rw.mu.RUnlock()
	return rw.running
}

// watchLoop is the main event loop for file watching
func (rw *RuleWatcher) watchLoop(ctx context.Context) {
	var debounceTimer *time.Timer

	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-rw.watcher.Events:
			if !ok {
				return
			}

			// Only process events for our specific rule file
			if !rw.isRuleFileEvent(event) {
				continue
			}

			rw.logger.Debug("Rule file event detected",
				"event", event.Op.String(),
				"file", event.Name)

			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create {

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(rw.debounceTime, rw.reload)
			}

		case err, ok := <-rw.watcher.Errors:
			if !ok {
				return
			}
			rw.logger.Error("Rule watcher error", "error", err)

		case <-rw.stopCh:
			rw.logger.Info("Rule watcher stopped")
			return

		case <-ctx.Done():
			rw.logger.Info("Rule watcher context cancelled")
			return
		}
	}
}

// isRuleFileEvent checks if the event is for our rule file
func (rw *RuleWatcher) isRuleFileEvent(event fsnotify.Event) bool {
	eventPath, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	rulePath, err := filepath.Abs(rw.rulePath)
	if err != nil {
		return false
	}

	return eventPath == rulePath
}

// reload parses the rule file and publishes a fresh snapshot. A file that
// fails to load keeps the previous snapshot in service.
func (rw *RuleWatcher) reload() {
	start := time.Now()

	rules, err := LoadRuleSet(rw.rulePath)
	if err != nil {
		rw.logger.Error("Rule reload failed",
			"error", err,
			"duration", time.Since(start))
		return
	}

	rw.snapshot.Store(rules)
	if rw.onReload != nil {
		rw.onReload(rules)
	}

	rw.logger.Info("Rule reload completed",
		"antonyms", len(rules.Antonyms),
		"catalog", len(rules.Catalog),
		"duration", time.Since(start))
}
