package processor

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/vijaykumarpeta/yt-comments-extractor/lib/ytspam"
)

// PatternUpdater is the part of the detector the watcher refreshes.
type PatternUpdater interface {
	UpdatePatterns(ps *ytspam.PatternSet)
}

// LoadPatterns reads blacklist and whitelist files, compiles them and swaps
// the detector's pattern set. Either path can be empty.
func LoadPatterns(upd PatternUpdater, blacklistFile, whitelistFile string) error {
	readIfSet := func(path string) (string, error) {
		if path == "" {
			return "", nil
		}
		data, err := os.ReadFile(path) //nolint gosec // path is controlled by the app
		if err != nil {
			return "", fmt.Errorf("failed to read file %s: %w", path, err)
		}
		return string(data), nil
	}

	blacklist, err := readIfSet(blacklistFile)
	if err != nil {
		return err
	}
	whitelist, err := readIfSet(whitelistFile)
	if err != nil {
		return err
	}

	ps, err := ytspam.NewPatternSet(blacklist, whitelist)
	if err != nil {
		return fmt.Errorf("failed to compile patterns: %w", err)
	}
	upd.UpdatePatterns(ps)
	bl, wl := ps.Len()
	log.Printf("[INFO] patterns loaded, %d blacklist and %d whitelist entries", bl, wl)
	return nil
}

// WatchPatterns watches the pattern files for changes and reloads the full
// set on every write to either one. Blocks until ctx is cancelled.
func WatchPatterns(ctx context.Context, upd PatternUpdater, blacklistFile, whitelistFile string) {
	reload := func() error { return LoadPatterns(upd, blacklistFile, whitelistFile) }

	var wg sync.WaitGroup
	for _, path := range []string{blacklistFile, whitelistFile} {
		if path == "" {
			continue
		}
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			if err := watch(ctx, path, reload); err != nil {
				log.Printf("[WARN] failed to watch file %s: %v", path, err)
			}
		}(path)
	}
	wg.Wait()
}

// watch subscribes to write events on path and calls onChange for each one.
// Reload failures keep the previous pattern set and are logged, not fatal.
func watch(ctx context.Context, path string, onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	done := make(chan bool)
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				log.Printf("[INFO] stopping watcher for %s, %v", path, ctx.Err())
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == fsnotify.Write {
					if e := onChange(); e != nil {
						log.Printf("[WARN] failed to reload %s: %v", path, e)
					}
				}
			case e, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[WARN] watcher error: %v", e)
			}
		}
	}()

	if err = watcher.Add(path); err != nil {
		return fmt.Errorf("failed to add %s to watcher: %w", path, err)
	}
	<-done
	return nil
}
