package workspace

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const DefaultPollInterval = time.Second

type WatcherOption func(*Watcher)

func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.pollInterval = d
	}
}

// OnChange registers fn to be called with every file the watcher
// re-parsed.
func OnChange(fn func(*FileInfo)) WatcherOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// OnRemove registers fn to be called with every path that disappeared.
func OnRemove(fn func(path string)) WatcherOption {
	return func(w *Watcher) {
		w.onRemove = fn
	}
}

// Watcher polls the workspace root for added, modified and removed source
// files.
type Watcher struct {
	workspace    *Workspace
	stopCh       chan struct{}
	stopOnce     sync.Once
	done         chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	onChange     func(*FileInfo)
	onRemove     func(string)
}

func NewWatcher(ws *Workspace, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		workspace:    ws,
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
		pollInterval: DefaultPollInterval,
		modTimes:     make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Watcher) Start() {
	go w.run()
}

// Stop ends polling and waits for the current scan to finish.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
	<-w.done
}

func (w *Watcher) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.Scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Scan()
		}
	}
}

// Scan runs a single poll. It must not be called while the watcher is
// running.
func (w *Watcher) Scan() {
	root := w.workspace.RootDir()
	current := make(map[string]bool)

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsSource(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		current[path] = true

		lastMod, known := w.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			return nil
		}
		w.modTimes[path] = info.ModTime()

		f, err := w.workspace.ScanFile(path)
		if err != nil {
			log.Warningf("%s: %s", path, err)
			return nil
		}
		if w.onChange != nil {
			w.onChange(f)
		}
		return nil
	})

	for path := range w.modTimes {
		if current[path] {
			continue
		}
		delete(w.modTimes, path)
		w.workspace.RemoveFile(path)
		if w.onRemove != nil {
			w.onRemove(path)
		}
	}
}
