package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports writes to the database file made by any process, such
// as a CLI delete while the bot is running.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func()
	log      *zap.Logger
}

func NewWatcher(dbPath string, onChange func(), log *zap.Logger) *Watcher {
	return &Watcher{
		path:     dbPath,
		debounce: 200 * time.Millisecond,
		onChange: onChange,
		log:      log,
	}
}

// matches accepts the database file and its -wal/-journal companions.
func (w *Watcher) matches(name string) bool {
	base := filepath.Base(w.path)
	got := filepath.Base(name)
	return got == base || strings.HasPrefix(got, base+"-")
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve db path: %w", err)
	}
	w.path = abs

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w.log.Info("watching database", zap.String("path", abs))

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.matches(ev.Name) || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			fire = time.After(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("database watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			w.onChange()
		}
	}
}
