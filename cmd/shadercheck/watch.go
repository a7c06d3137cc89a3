package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchInputs checks once, then again after every change to an input file,
// until ctx is done. Directories are watched rather than the files so that
// editors that save by rename are still seen.
func watchInputs(ctx context.Context, c *checker, in inputs) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	wanted := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, f := range in.files() {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		wanted[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	rerun := func() {
		if _, err := c.check(in); err != nil {
			c.logger.Error("check failed", "error", err)
		}
	}
	rerun()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !wanted[abs] {
				continue
			}
			c.logger.Info("input changed, re-checking", "file", event.Name)
			rerun()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Error("file watcher error", "error", err)
		}
	}
}
