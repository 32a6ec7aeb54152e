package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	logx "shopwatch/pkg/logx"
)

// Manager holds the current config and optionally watches the file for
// changes. Reloads are debounced because editors and orchestrators tend
// to fire several events per save.
type Manager struct {
	path string
	log  logx.Logger

	mu  sync.Mutex
	cur Config
}

func NewManager(path string, log logx.Logger) (*Manager, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Manager{path: path, log: log.With(logx.String("comp", "config")), cur: cfg}, nil
}

func (m *Manager) Current() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur
}

// Watch blocks until ctx is done, invoking onChange(old, new) after each
// successful reload. A config that fails to load or validate is logged
// and ignored; the previous config stays active.
func (m *Manager) Watch(ctx context.Context, onChange func(old, new Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory: editors and config mounts replace the file,
	// which drops a watch placed on the file itself.
	dir := filepath.Dir(m.path)
	if err := w.Add(dir); err != nil {
		return err
	}
	base := filepath.Base(m.path)

	var debounce *time.Timer
	var debounceC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(300 * time.Millisecond)
				debounceC = debounce.C
			} else {
				debounce.Reset(300 * time.Millisecond)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			m.log.Warn("config watch error", logx.Err(err))
		case <-debounceC:
			debounce = nil
			debounceC = nil
			m.reload(onChange)
		}
	}
}

func (m *Manager) reload(onChange func(old, new Config)) {
	cfg, err := Load(m.path)
	if err != nil {
		m.log.Warn("config reload rejected", logx.Err(err))
		return
	}
	m.mu.Lock()
	old := m.cur
	m.cur = cfg
	m.mu.Unlock()

	m.log.Info("config reloaded")
	if onChange != nil {
		onChange(old, cfg)
	}
}
