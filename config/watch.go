package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses the burst of events editors emit for a single save.
const debounce = 100 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk.
// Reloaded configs are delivered on Configs; load failures on Errors.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	Configs chan *Config
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching path. The containing directory is watched so that
// editors which replace the file by rename are still picked up.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		path:    abs,
		watcher: w,
		Configs: make(chan *Config, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Configs)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	// Reload once the file has been quiet for the debounce period so a save
	// observed mid-write is never parsed.
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			cfg, err := Load(w.path)
			if err != nil {
				w.sendErr(err)
				continue
			}
			w.sendConfig(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendErr(err)
		case <-w.closeCh:
			return
		}
	}
}

// sendConfig delivers cfg, replacing any reload the consumer has not picked up yet.
func (w *Watcher) sendConfig(cfg *Config) {
	for {
		select {
		case w.Configs <- cfg:
			return
		case <-w.closeCh:
			return
		default:
		}
		select {
		case <-w.Configs:
		default:
		}
	}
}

func (w *Watcher) sendErr(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
