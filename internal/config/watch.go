package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Update is one reload attempt: either a validated Config or the error
// that prevented it.
type Update struct {
	Config *Config
	Err    error
}

// Watch reloads path whenever it changes and sends the result until ctx is
// done. The directory is watched rather than the file so editors that
// replace the file on save are still seen.
func Watch(ctx context.Context, path string) (<-chan Update, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	out := make(chan Update, 1)
	go func() {
		defer close(out)
		defer w.Close()

		// editors often write a file in several steps; reload once the
		// burst has been quiet for watchDebounce.
		timer := time.NewTimer(watchDebounce)
		timer.Stop()
		defer timer.Stop()

		send := func(u Update) bool {
			select {
			case out <- u:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				timer.Reset(watchDebounce)
			case <-timer.C:
				cfg, err := Load(abs)
				if !send(Update{Config: cfg, Err: err}) {
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if !send(Update{Err: err}) {
					return
				}
			}
		}
	}()
	return out, nil
}
