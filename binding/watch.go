package binding

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last change to a file
// before reloading it.
const DefaultDebounce = 100 * time.Millisecond

// Watch reloads the bindings file at path whenever it changes, passing the
// result to fn. A failed reload passes a nil Bindings and the error; the
// watch continues. Watch blocks until ctx is done.
//
// The file's directory is watched rather than the file itself, so editors
// that save by renaming a temporary file are handled.
func Watch(
	ctx context.Context,
	path string,
	fn func(*Bindings, error),
	opts ...Option,
) error {
	logger := New(opts...).logger

	abs, err := filepath.Abs(path)
	if err != nil {
		return ErrWatch.Wrap(err).With(slog.String("file", path))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer watcher.Close()

	err = watcher.Add(filepath.Dir(abs))
	if err != nil {
		return ErrWatch.Wrap(err).With(slog.String("file", abs))
	}

	logger.DebugContext(ctx, "watching bindings", slog.String("file", abs))

	var (
		mu    sync.Mutex
		timer *time.Timer
	)

	defer func() {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
		}
	}()

	reload := func() {
		if ctx.Err() != nil {
			return
		}

		b, err := LoadFile(ctx, abs, opts...)
		if err != nil {
			logger.WarnContext(ctx, "reload failed",
				slog.String("file", abs), slog.Any("error", err))
			fn(nil, err)

			return
		}

		logger.DebugContext(ctx, "bindings reloaded",
			slog.String("file", abs), slog.Int("bindings", b.Len()))
		fn(b, nil)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != abs ||
				!event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			logger.TraceContext(ctx, "file event",
				slog.String("file", event.Name), slog.String("op", event.Op.String()))

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}

			timer = time.AfterFunc(DefaultDebounce, reload)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.WarnContext(ctx, "watch error", slog.Any("error", err))
		}
	}
}
