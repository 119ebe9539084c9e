package assets

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/voxgrid/engine/core"
)

// DefaultDebounce is how long a burst of writes to the watched file is
// collapsed into one reload.
const DefaultDebounce = 200 * time.Millisecond

var ErrWatcherClosed = errors.New("config watcher already closed")

/**
 * @brief Watches one file and emits on Reloads whenever it is created or
 * written. The parent directory is watched so that editors which replace the
 * file by renaming are picked up too.
 */
type ConfigWatcher struct {
	path     string
	debounce time.Duration

	fsnotify *fsnotify.Watcher
	reloads  chan string
	errors   chan error
	done     chan struct{}

	mutex    sync.Mutex
	isClosed bool
	wg       sync.WaitGroup
}

func NewConfigWatcher(path string, debounce time.Duration) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	cw := &ConfigWatcher{
		path:     abs,
		debounce: debounce,
		fsnotify: fsWatch,
		reloads:  make(chan string, 1),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
	cw.wg.Add(1)
	go cw.start()

	core.LogDebug("watching '%s' for changes", abs)
	return cw, nil
}

// Reloads receives the watched path once per burst of changes. It is closed by Close.
func (cw *ConfigWatcher) Reloads() <-chan string {
	return cw.reloads
}

// Errors receives watcher errors that could not be handled. It is closed by Close.
func (cw *ConfigWatcher) Errors() <-chan error {
	return cw.errors
}

func (cw *ConfigWatcher) Close() error {
	cw.mutex.Lock()
	if cw.isClosed {
		cw.mutex.Unlock()
		return ErrWatcherClosed
	}
	cw.isClosed = true
	cw.mutex.Unlock()

	close(cw.done)
	cw.wg.Wait()
	return nil
}

func (cw *ConfigWatcher) start() {
	defer cw.wg.Done()

	// A nil channel blocks until the first change arms the timer.
	var fire <-chan time.Time
	var timer *time.Timer

	for {
		select {
		case e, ok := <-cw.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != cw.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			core.LogDebug("'%s' changed (%s)", e.Name, e.Op)
			if timer == nil {
				timer = time.NewTimer(cw.debounce)
			} else {
				timer.Reset(cw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case cw.reloads <- cw.path:
			default:
				// A reload is already pending.
			}

		case err, ok := <-cw.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())
			select {
			case cw.errors <- err:
			default:
			}

		case <-cw.done:
			if timer != nil {
				timer.Stop()
			}
			cw.fsnotify.Close()
			close(cw.reloads)
			close(cw.errors)
			return
		}
	}
}
