package inference

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch reloads the model whenever the artifact at path is rewritten,
// debouncing bursts of write events, until ctx is done. Saves are atomic
// from the predictor's point of view: a reload that fails (for example a
// half-written file) keeps the previous model serving.
func (p *Predictor) Watch(ctx context.Context, path string, debounce time.Duration, log zerolog.Logger) error {
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	// Watch the directory: editors and save routines replace files, which
	// drops the watch when it points at the file itself.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return err
	}
	base := filepath.Base(path)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	reload := make(chan struct{}, 1)
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
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(debounce, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(debounce)
			}
		case <-reload:
			if err := p.Load(path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("model reload failed, keeping previous model")
				continue
			}
			log.Info().Str("path", path).Msg("model reloaded")
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("model watcher error")
		}
	}
}
