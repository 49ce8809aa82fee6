// Package watch regenerates output when its inputs change.
//
// Run performs one regeneration up front, then another after every debounced
// burst of relevant filesystem events under the watched root, and optionally
// on a fixed interval. Regenerations execute one at a time on the caller's
// goroutine; requests that arrive while one is running collapse into a
// single follow-up run.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/mdxgen/internal/foundation/errors"
	"git.home.luguber.info/inful/mdxgen/internal/logfields"
	"git.home.luguber.info/inful/mdxgen/internal/observability"
)

// DefaultDebounce is the quiet period after the last event before a run starts.
const DefaultDebounce = 300 * time.Millisecond

// Reasons passed to RunFunc.
const (
	ReasonInitial  = "initial"
	ReasonChange   = "change"
	ReasonSchedule = "schedule"
)

// RunFunc performs one full regeneration. An error is logged and watching
// continues.
type RunFunc func(ctx context.Context, reason string) error

// Options configure a watch loop.
type Options struct {
	Root string
	// Extensions lists the file extensions whose changes trigger a run.
	Extensions []string
	// IgnoreDirs are directory names whose contents never trigger a run.
	IgnoreDirs []string
	Debounce   time.Duration
	// Every schedules an additional periodic run; zero disables it.
	Every time.Duration
}

// Run watches opts.Root until ctx is canceled.
func Run(ctx context.Context, opts Options, run RunFunc) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	ctx = observability.WithStage(ctx, "watch")

	absRoot, err := filepath.Abs(opts.Root)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve watch root").WithContext("path", opts.Root).Build()
	}
	if st, statErr := os.Stat(absRoot); statErr != nil || !st.IsDir() {
		return ferrors.NotFoundError("watch root not found").WithContext("path", absRoot).Build()
	}

	execute(ctx, run, ReasonInitial)

	watcher, err := newWatcher(absRoot, opts.IgnoreDirs)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	requests := make(chan string, 1)
	trigger, stopDebounce := newDebouncer(opts.Debounce, func() { request(requests, ReasonChange) })
	defer stopDebounce()

	if opts.Every > 0 {
		scheduler, schedErr := startSchedule(opts.Every, func() { request(requests, ReasonSchedule) })
		if schedErr != nil {
			return schedErr
		}
		defer func() {
			if shutdownErr := scheduler.Shutdown(); shutdownErr != nil {
				observability.WarnContext(ctx, "Scheduler shutdown failed", logfields.Error(shutdownErr))
			}
		}()
	}

	observability.InfoContext(ctx, "Watching for changes", logfields.Path(absRoot))
	for {
		select {
		case <-ctx.Done():
			observability.InfoContext(ctx, "Stopping watch")
			return nil
		case reason := <-requests:
			execute(ctx, run, reason)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if handleEvent(watcher, ev, opts) {
				trigger()
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			observability.WarnContext(ctx, "Watcher error", logfields.Error(werr))
		}
	}
}

func execute(ctx context.Context, run RunFunc, reason string) {
	start := time.Now()
	observability.InfoContext(ctx, "Regenerating", logfields.Reason(reason))
	if err := run(ctx, reason); err != nil {
		observability.ErrorContext(ctx, "Regeneration failed", logfields.Reason(reason), logfields.Error(err))
		return
	}
	observability.DebugContext(ctx, "Regeneration finished",
		logfields.Reason(reason),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}

// request queues a run unless one is already queued.
func request(ch chan<- string, reason string) {
	select {
	case ch <- reason:
	default:
	}
}

func newWatcher(root string, ignoreDirs []string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "create file watcher").Build()
	}
	if err := addDirsRecursive(watcher, root, ignoreDirs); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

func addDirsRecursive(w *fsnotify.Watcher, root string, ignoreDirs []string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && (slices.Contains(ignoreDirs, d.Name()) || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if addErr := w.Add(path); addErr != nil {
			return ferrors.WrapError(addErr, ferrors.CategoryFileSystem, "watch directory").WithContext("path", path).Build()
		}
		return nil
	})
}

// handleEvent starts watching new directories and reports whether ev
// should trigger a run.
func handleEvent(w *fsnotify.Watcher, ev fsnotify.Event, opts Options) bool {
	if shouldIgnore(ev.Name, opts.IgnoreDirs) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(w, ev.Name, opts.IgnoreDirs)
			return true
		}
	}
	ext := filepath.Ext(ev.Name)
	if slices.Contains(opts.Extensions, ext) {
		return ev.Op != fsnotify.Chmod
	}
	// A removed or renamed directory may have held inputs.
	return ext == "" && (ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename))
}

// shouldIgnore is true for hidden files, editor temp files and anything
// inside an ignored directory.
func shouldIgnore(path string, ignoreDirs []string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		if slices.Contains(ignoreDirs, part) {
			return true
		}
	}
	return false
}

// newDebouncer returns a trigger that calls fire once, d after the last call.
func newDebouncer(d time.Duration, fire func()) (trigger func(), stop func()) {
	var mu sync.Mutex
	var timer *time.Timer
	trigger = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, fire)
	}
	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return trigger, stop
}

func startSchedule(every time.Duration, fire func()) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "create scheduler").Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(fire),
		gocron.WithName(fmt.Sprintf("regenerate-every-%s", every)),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "schedule periodic regeneration").
			WithContext("every", every.String()).
			Build()
	}
	s.Start()
	return s, nil
}
