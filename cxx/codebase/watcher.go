package codebase

import (
	"io/fs"
	"path/filepath"
	"time"
)

// FileWatcher polls the codebase root and rescans files whose modification
// time changed. Files that disappear are removed.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	onChange     func(path string)
}

func NewFileWatcher(c *Codebase, pollInterval time.Duration) *FileWatcher {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: pollInterval,
		modTimes:     make(map[string]time.Time),
	}
}

// OnChange registers fn to be called after a file was rescanned or
// removed. It must be called before Start.
func (w *FileWatcher) OnChange(fn func(path string)) {
	w.onChange = fn
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *FileWatcher) changed(path string) {
	if w.onChange != nil {
		w.onChange(path)
	}
}

func (w *FileWatcher) scan() {
	current := make(map[string]bool)

	filepath.WalkDir(w.codebase.RootDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if w.codebase.SkipDir(path) {
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
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			log.Debugf("rescan %s", path)
			if err := w.codebase.ScanFile(path); err != nil {
				log.Warningf("rescan %s: %s", path, err)
			}
			w.changed(path)
		}
		return nil
	})

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			log.Debugf("removed %s", path)
			w.codebase.RemoveFile(path)
			w.changed(path)
		}
	}
}
