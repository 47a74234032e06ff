// Package watcher reloads the table when a source file changes on disk.
//
// Editors rarely write a file in place: most write a temp file and rename
// it over the original, which drops an inotify watch on the file itself.
// So the watcher watches each file's parent directory and filters events
// by name.
package watcher

import (
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is sent when a watched file changed.
type Event struct {
	// Path is the last changed file in the debounce window.
	Path string
}

// Watch monitors paths and sends an Event on the returned channel once a
// burst of changes has settled for debounce. Call the returned stop
// function to tear the watcher down.
func Watch(paths []string, debounce time.Duration) (<-chan Event, func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	wanted := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = w.Close()
			return nil, nil, err
		}
		wanted[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			_ = w.Close()
			return nil, nil, err
		}
	}

	ch := make(chan Event, 1)
	done := make(chan struct{})

	// Several zt instances on the same file fire at slightly different
	// times.
	jitterRange := max(debounce/2, 1)

	go func() {
		defer close(ch)
		var (
			timer *time.Timer
			last  string
		)

		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !wanted[ev.Name] || shouldIgnore(ev) {
					continue
				}
				last = ev.Name
				d := debounce + time.Duration(rand.Int64N(int64(jitterRange)))
				if timer == nil {
					timer = time.NewTimer(d)
				} else {
					timer.Reset(d)
				}
			case <-timerChan(timer):
				timer = nil
				select {
				case ch <- Event{Path: last}:
				default:
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			case <-done:
				return
			}
		}
	}()

	stop := func() {
		close(done)
		_ = w.Close()
	}

	return ch, stop, nil
}

// timerChan returns the timer's channel, or a nil channel if timer is nil.
func timerChan(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// shouldIgnore returns true for events that should not trigger a reload.
func shouldIgnore(ev fsnotify.Event) bool {
	// Permission changes leave the content alone.
	if ev.Op == fsnotify.Chmod {
		return true
	}
	base := filepath.Base(ev.Name)

	// Editor swap and backup files.
	if strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".swo") ||
		strings.HasSuffix(base, "~") || strings.HasPrefix(base, ".#") {
		return true
	}
	return false
}
