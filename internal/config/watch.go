package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/az-ai-labs/spellgraph/internal/errs"
)

// Watcher reloads error-model files when they change on disk.
type Watcher struct {
	fs   *fsnotify.Watcher
	done chan struct{}
}

// WatchFiles invokes onChange with a file's path whenever one of paths is
// written or created (editors typically rename a temp file into place,
// which arrives as a create). Duplicate directories are watched once.
func WatchFiles(paths []string, log *logrus.Entry, onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errs.Wrap(errs.Io, 0, err, "config: create watcher")
	}

	watched := make(map[string]struct{})
	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errs.Wrap(errs.Io, 0, err, "config: resolve %q", p)
		}
		watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errs.Wrap(errs.Io, 0, err, "config: watch %s", dir)
		}
	}

	w := &Watcher{fs: fw, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		for {
			select {
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if _, tracked := watched[ev.Name]; tracked {
					log.WithField("path", ev.Name).Info("error model file changed, reloading")
					onChange(ev.Name)
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("file watcher error")
			}
		}
	}()
	return w, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}
