package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/flowbench/pkg/adapters/file"
	"github.com/fsnotify/fsnotify"
)

// WatchDebounce groups bursts of file events (editors often write several times per save).
const WatchDebounce = 200 * time.Millisecond

// Watch runs a flow and runs it again whenever a definition file of the directory changes.
// Storage is kept between runs. It returns when ctx is cancelled.
func Watch(ctx context.Context, opts Options, target string) error {
	vars, err := ParseVars(opts.Vars)
	if err != nil {
		return err
	}

	s, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, s.Engine.Dir().Root); err != nil {
		return err
	}

	out := opts.stdout()
	rerun := func() {
		err := runOnce(ctx, s, opts, target, vars)
		if err != nil && !errors.Is(err, ErrRunFailed) {
			printSystemMessage(out, "Error: %v", err)
		}
		printSystemMessage(out, "Watching %s for changes...", s.Engine.Dir().Root)
	}
	rerun()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if err := addWatchDirs(watcher, ev.Name); err != nil {
					s.Logger.Debug("watch: skip new path", "path", ev.Name, "err", err)
				}
			}
			if isRelevant(ev) {
				s.Logger.Debug("watch: change detected", "path", ev.Name, "op", ev.Op.String())
				pending = time.After(WatchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.Logger.Warn("watch error", "err", err)
		case <-pending:
			pending = nil
			printSystemMessage(out, "Change detected, running '%s' again.", target)
			rerun()
		}
	}
}

// addWatchDirs watches root and its subdirectories, skipping hidden ones (file storage lives there).
func addWatchDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// isRelevant reports whether an event touches a flow or actor definition.
func isRelevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return slices.Contains(file.Extensions, strings.ToLower(filepath.Ext(ev.Name)))
}
