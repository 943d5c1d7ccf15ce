package config

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/example/pixelsuite/internal/logging"
)

// DefaultWatchDebounce collapses bursts of editor writes into one reload.
const DefaultWatchDebounce = 300 * time.Millisecond

// Watcher calls a function when any of a set of files changes. Every file
// touched within one debounce window is reported in a single call.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool // absolute paths
	debounce time.Duration
	onChange func(paths []string)

	stopOnce  sync.Once
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// Watch starts watching files. Directories are watched rather than the files
// themselves so editors that save by rename are seen.
func Watch(files []string, debounce time.Duration, onChange func(paths []string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	w := &Watcher{
		watcher:   fw,
		files:     map[string]bool{},
		debounce:  debounce,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
	dirs := map[string]bool{}
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			logging.Logger().Warn("config: cannot watch", "dir", d, "err", err)
		}
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.stoppedCh
	return nil
}

func (w *Watcher) loop() {
	defer close(w.stoppedCh)
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	pending := map[string]bool{}

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			abs, _ := filepath.Abs(ev.Name)
			if !w.files[abs] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending[abs] = true
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			logging.Logger().Debug("config: reload", "paths", paths)
			if w.onChange != nil {
				w.onChange(paths)
			}
			timer, fire = nil, nil

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Logger().Warn("config: watch error", "err", err)
		}
	}
}
