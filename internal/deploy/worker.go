package deploy

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RecoveryTask is scheduled after a failed user-db open (spec.md §5:
// "the recovery task is scheduled after any failed open of a user
// db"). SchemaID identifies which schema's user db needs recovery.
type RecoveryTask struct {
	SchemaID string
	Err      error
}

// Worker watches a shared data directory for dropped-in schema
// resources and runs maintenance tasks (building tables/prisms from
// source dictionaries, recovering corrupted user dbs). While it is
// running a task, MaintenanceMode reports true and internal/session
// must refuse new session creation (spec.md §5).
type Worker struct {
	DataDir string
	Logger  *slog.Logger

	// Rebuild is called with a schema id whenever its source files
	// change; the caller supplies the actual compile step (BuildTable
	// plus prism.Open/Save), since the worker only detects the need.
	Rebuild func(schemaID string) error
	// Recover is called for each queued RecoveryTask.
	Recover func(RecoveryTask) error

	maintenance atomic.Bool
	recoverMu   sync.Mutex
	recoverQ    []RecoveryTask
}

func (w *Worker) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// MaintenanceMode reports whether a maintenance task currently holds
// the worker busy.
func (w *Worker) MaintenanceMode() bool { return w.maintenance.Load() }

// ScheduleRecovery queues a recovery task for a failed user-db open.
// It does not block; Run drains the queue between watch events.
func (w *Worker) ScheduleRecovery(schemaID string, cause error) {
	w.recoverMu.Lock()
	w.recoverQ = append(w.recoverQ, RecoveryTask{SchemaID: schemaID, Err: cause})
	w.recoverMu.Unlock()
}

// Run watches DataDir for dropped-in `.schema.yaml`/`.prism.bin`/
// `.table.bin` files and drains queued recovery tasks, until ctx is
// canceled.
func (w *Worker) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("deploy: new watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, w.DataDir); err != nil {
		w.logger().Error("deploy: failed to watch data directory", "error", err)
	}

	var debounce *time.Timer
	pending := make(map[string]bool)
	var pendingMu sync.Mutex

	flush := func() {
		pendingMu.Lock()
		schemas := make([]string, 0, len(pending))
		for id := range pending {
			schemas = append(schemas, id)
		}
		pending = make(map[string]bool)
		pendingMu.Unlock()

		for _, id := range schemas {
			w.runMaintenance(func() error {
				if w.Rebuild == nil {
					return nil
				}
				return w.Rebuild(id)
			})
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			schemaID := schemaIDFromPath(event.Name)
			if schemaID == "" {
				continue
			}
			pendingMu.Lock()
			pending[schemaID] = true
			pendingMu.Unlock()

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, flush)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger().Error("deploy: watcher error", "error", err)

		case <-time.After(200 * time.Millisecond):
			w.drainRecovery()
		}
	}
}

func (w *Worker) drainRecovery() {
	w.recoverMu.Lock()
	tasks := w.recoverQ
	w.recoverQ = nil
	w.recoverMu.Unlock()

	for _, task := range tasks {
		t := task
		w.runMaintenance(func() error {
			if w.Recover == nil {
				return nil
			}
			return w.Recover(t)
		})
	}
}

func (w *Worker) runMaintenance(fn func() error) {
	w.maintenance.Store(true)
	defer w.maintenance.Store(false)
	if err := fn(); err != nil {
		w.logger().Error("deploy: maintenance task failed", "error", err)
	}
}

// schemaIDFromPath extracts a schema id from a dropped-in resource
// file name, e.g. "pinyin.schema.yaml" -> "pinyin". Files that don't
// match a recognized suffix are ignored.
func schemaIDFromPath(path string) string {
	base := filepath.Base(path)
	for _, suffix := range []string{".schema.yaml", ".schema.yml", ".prism.bin", ".table.bin", ".dict.txt"} {
		if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
			return base[:len(base)-len(suffix)]
		}
	}
	return ""
}

func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
