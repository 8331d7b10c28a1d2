package wallpaper

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"windwall/logger"
)

// Updater is one update cycle. *Wallpaper implements it.
type Updater interface {
	Update(ctx context.Context) (Result, error)
}

// Scheduler runs updates on an interval and, optionally, when the watched
// file changes. Updates never overlap: a single worker drains a trigger
// channel holding at most one pending request.
type Scheduler struct {
	updater  Updater
	interval time.Duration
	watch    string
	trigger  chan struct{}
}

// NewScheduler returns a scheduler. An empty watch path disables watching.
func NewScheduler(u Updater, interval time.Duration, watch string) *Scheduler {
	if watch != "" {
		watch = filepath.Clean(watch)
	}
	return &Scheduler{
		updater:  u,
		interval: interval,
		watch:    watch,
		trigger:  make(chan struct{}, 1),
	}
}

// WatchPath is the file to watch for c, or "" when watching is off. Only
// file sources are watched; a download would retrigger itself.
func WatchPath(c *Config) string {
	if !c.Watch {
		return ""
	}
	if c.SourceType != SourceFile {
		logger.Printf("[info schedule] watch ignored for %s source", c.SourceType)
		return ""
	}
	return c.ImagePath
}

// Trigger requests an update. It reports false when one is already pending.
func (s *Scheduler) Trigger() bool {
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Run performs an update immediately, then keeps updating until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(logger.Std()))))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), func() { s.Trigger() }); err != nil {
		return fmt.Errorf("schedule every %s: %w", s.interval, err)
	}

	done := make(chan struct{})
	if s.watch != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		if err := watcher.Add(filepath.Dir(s.watch)); err != nil {
			watcher.Close()
			return fmt.Errorf("watch %s: %w", filepath.Dir(s.watch), err)
		}
		logger.Printf("[info schedule] watching %s", s.watch)
		go func() {
			defer close(done)
			s.watchLoop(ctx, watcher)
		}()
	} else {
		close(done)
	}

	logger.Printf("[info schedule] updating every %s", s.interval)
	s.Trigger()
	c.Start()
	s.loop(ctx)
	<-c.Stop().Done()
	<-done
	return nil
}

func (s *Scheduler) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.trigger:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	start := time.Now()
	res, err := s.updater.Update(ctx)
	switch {
	case err != nil:
		logger.Printf("[err schedule] update: %v", err)
	case !res.Success && res.Err == nil:
		logger.Printf("[info schedule] image prepared, wallpaper left unchanged")
	case !res.Success:
		logger.Printf("[err schedule] wallpaper not applied, retrying next cycle")
	default:
		logger.Printf("[info schedule] applied via %s in %s", res.Method, time.Since(start).Round(time.Millisecond))
	}
}

func (s *Scheduler) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.watch {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				logger.Debugf("watch: %s", event)
				s.Trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Printf("[err schedule] watcher: %v", err)
		}
	}
}
