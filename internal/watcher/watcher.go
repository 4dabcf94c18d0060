package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/ohare93/readhub/internal/hub"
)

// EventType represents the type of file change event
type EventType int

const (
	ConfigChanged EventType = iota
	EnvChanged
)

func (t EventType) String() string {
	switch t {
	case ConfigChanged:
		return "config"
	case EnvChanged:
		return "env"
	default:
		return "unknown"
	}
}

// Event represents a file change event
type Event struct {
	Type EventType
	Path string
}

// Watcher watches the readhub config directory (and optionally the working
// directory) for changes to config.json and .env.
type Watcher struct {
	watcher    *fsnotify.Watcher
	configName string
	Events     chan Event
	Errors     chan error
	done       chan struct{}
	mu         sync.Mutex
	running    bool
	closed     bool
}

// New creates a new file watcher
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:    fsWatcher,
		configName: hub.ConfigFileName,
		Events:     make(chan Event, 100),
		Errors:     make(chan error, 10),
		done:       make(chan struct{}),
	}, nil
}

// WatchConfig adds the config directory, and the working directory when
// set, so that edits to config.json or .env are reported.
func (w *Watcher) WatchConfig(opts hub.ConfigOptions) error {
	configDir, err := opts.Dir()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return fmt.Errorf("config directory does not exist: %s", configDir)
	}
	if err := w.watcher.Add(configDir); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	if opts.WorkingDir != "" && opts.WorkingDir != configDir {
		// Only .env matters here, so an unreadable working dir is not fatal.
		_ = w.watcher.Add(opts.WorkingDir)
	}
	return nil
}

// Start begins watching for file changes
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running || w.closed {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.eventLoop()
}

// eventLoop processes file system events
func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Editors often save by writing a temp file and renaming it over
			// the original, which shows up as Create on the target.
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			e := w.classifyEvent(event.Name)
			if e != nil {
				select {
				case w.Events <- *e:
				default:
					// Channel full, skip event
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		}
	}
}

// classifyEvent determines the event type based on the file path
func (w *Watcher) classifyEvent(path string) *Event {
	switch filepath.Base(path) {
	case w.configName:
		return &Event{Type: ConfigChanged, Path: path}
	case ".env":
		return &Event{Type: EnvChanged, Path: path}
	}
	return nil
}

// Stop stops the watcher and releases the underlying fsnotify handle.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.running {
		close(w.done)
		w.running = false
	}
	return w.watcher.Close()
}

// Close is an alias for Stop
func (w *Watcher) Close() error {
	return w.Stop()
}
