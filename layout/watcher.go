package layout

import (
	"context"
	"io/fs"
	"sync"
	"time"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/bindexpr/config"
)

var log = commonlog.GetLogger("bindexpr.layout")

// Watcher polls a directory tree and re-checks layout files whose
// modification time changed.
type Watcher struct {
	root         string
	matcher      *Matcher
	pollInterval time.Duration
	modTimes     map[string]time.Time

	reports  chan *Report
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewWatcher(root string, cfg config.Check) (*Watcher, error) {
	m, err := NewMatcher(cfg)
	if err != nil {
		return nil, err
	}
	return &Watcher{
		root:         root,
		matcher:      m,
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
		reports:      make(chan *Report),
		stopCh:       make(chan struct{}),
	}, nil
}

// SetInterval changes the polling interval. It must be called before Start.
func (w *Watcher) SetInterval(d time.Duration) {
	w.pollInterval = d
}

// Reports returns the channel on which reports are delivered. Every file
// is reported once when first seen and again after each change. A removed
// file is reported with Removed set. The channel is closed when the watcher
// stops.
func (w *Watcher) Reports() <-chan *Report {
	return w.reports
}

func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.reports)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	if !w.scan(ctx) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			if !w.scan(ctx) {
				return
			}
		}
	}
}

func (w *Watcher) send(ctx context.Context, r *Report) bool {
	select {
	case w.reports <- r:
		return true
	case <-ctx.Done():
		return false
	case <-w.stopCh:
		return false
	}
}

// scan reports false when the watcher was stopped while delivering.
func (w *Watcher) scan(ctx context.Context) bool {
	current := make(map[string]bool)
	stopped := false

	err := w.matcher.walk(ctx, w.root, func(path string, info fs.FileInfo) error {
		current[path] = true
		lastMod, known := w.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			return nil
		}
		w.modTimes[path] = info.ModTime()
		report, err := CheckFile(path)
		if err != nil {
			log.Warningf("%s", err)
			return nil
		}
		log.Debugf("re-checked %s", path)
		if !w.send(ctx, report) {
			stopped = true
			return fs.SkipAll
		}
		return nil
	})
	if stopped {
		return false
	}
	if err != nil {
		log.Errorf("watch %s: %s", w.root, err)
		return ctx.Err() == nil
	}

	for path := range w.modTimes {
		if current[path] {
			continue
		}
		delete(w.modTimes, path)
		log.Debugf("removed %s", path)
		if !w.send(ctx, &Report{File: path, Removed: true}) {
			return false
		}
	}
	return true
}
