// Package watcher implements the watch subcommand: it observes a file or
// directory for writes and repairs each changed document into a sibling
// *.repaired.json file. It never changes repair semantics — it only decides
// when to call jsonrepair.Repair and how to persist the result safely.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"

	"github.com/corvidlabs/jsonrepair"
)

// Watcher watches a path and repairs files written to it.
type Watcher struct {
	logger   logrus.FieldLogger
	debounce time.Duration
	lastSeen map[string]time.Time
}

// New builds a Watcher. debounce suppresses a second repair of the same
// path within the given window, since many editors emit multiple write
// events for a single save.
func New(logger logrus.FieldLogger, debounce time.Duration) *Watcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Watcher{logger: logger, debounce: debounce, lastSeen: map[string]time.Time{}}
}

// Run watches target (a file or directory) until ctx-like stop is closed.
func (w *Watcher) Run(target string, stop <-chan struct{}) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(target); err != nil {
		return fmt.Errorf("watcher: add %s: %w", target, err)
	}

	for {
		select {
		case <-stop:
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if strings.HasSuffix(event.Name, ".repaired.json") {
				continue
			}
			w.handle(event.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("watch error")
		}
	}
}

func (w *Watcher) handle(path string) {
	now := time.Now()
	if last, ok := w.lastSeen[path]; ok && now.Sub(last) < w.debounce {
		return
	}
	w.lastSeen[path] = now

	log := w.logger.WithField("path", path)

	outPath := outputPath(path)
	lock := flock.New(outPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		log.WithError(err).Warn("failed to acquire output lock")
		return
	}
	if !locked {
		log.Debug("output already locked, skipping this event")
		return
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Warn("failed to read changed file")
		return
	}

	repaired, err := jsonrepair.Repair(string(data))
	if err != nil {
		log.WithError(err).Info("document not repairable")
		return
	}

	if err := os.WriteFile(outPath, []byte(repaired), 0o644); err != nil {
		log.WithError(err).Warn("failed to write repaired file")
		return
	}

	log.WithField("output", outPath).Info("repaired file")
}

// outputPath derives the sibling *.repaired.json path for an input file.
func outputPath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + ".repaired.json"
}
