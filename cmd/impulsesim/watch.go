package main

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// inputWatcher reports debounced changes to a fixed set of input files. fsnotify loses a file
// that an editor replaces by rename, so the parent directories are watched and everything else
// in them is dropped.
type inputWatcher struct {
	fs      *fsnotify.Watcher
	inputs  map[string]bool
	Changed chan string
	Errors  chan error
	done    chan struct{}
	once    sync.Once
}

func newInputWatcher(paths ...string) (*inputWatcher, error) {
	inputs := map[string]bool{}
	dirs := map[string]bool{}
	for _, path := range paths {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		inputs[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, err
		}
	}

	w := &inputWatcher{
		fs:      fs,
		inputs:  inputs,
		Changed: make(chan string, 16),
		Errors:  make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Inputs lists the absolute paths being watched.
func (w *inputWatcher) Inputs() []string {
	list := make([]string, 0, len(w.inputs))
	for path := range w.inputs {
		list = append(list, path)
	}
	return list
}

func (w *inputWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *inputWatcher) wants(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	return err == nil && w.inputs[abs]
}

func (w *inputWatcher) run() {
	// one save is often several events
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.wants(event) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < 100*time.Millisecond {
				continue
			}
			last[event.Name] = now
			select {
			case w.Changed <- event.Name:
			case <-w.done:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}
