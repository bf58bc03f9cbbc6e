package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/TheLustriVA/Croissant-TOML/internal/logger"
)

// watchFiles re-validates files on change until the command context ends.
func watchFiles(cmd *cobra.Command, names []string) error {
	w, targets, err := newWatcher(names)
	if err != nil {
		return err
	}
	defer w.Close()

	cmd.Printf("Watching %s. Press Ctrl+C to stop.\n", plural(len(targets), "file"))
	return watchLoop(cmd.Context(), w, targets, func(name string) {
		if _, err := validateFile(cmd, name); err != nil {
			printError(cmd.ErrOrStderr(), err)
		}
	})
}

// newWatcher watches the directories holding names. Editors often save by
// replacing the file, which would drop a watch placed on the file itself.
// The returned map goes from absolute path to the name as given.
func newWatcher(names []string) (*fsnotify.Watcher, map[string]string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	targets := make(map[string]string, len(names))
	dirs := make(map[string]bool)
	for _, name := range names {
		if name == stdioName {
			continue
		}
		abs, err := filepath.Abs(name)
		if err != nil {
			w.Close()
			return nil, nil, fmt.Errorf("failed to resolve %s: %w", name, err)
		}
		targets[abs] = name

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, targets, nil
}

// watchLoop calls onChange with the given name of each target that is
// written or recreated.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, targets map[string]string, onChange func(name string)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			name, ok := targets[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			logger.Debug("watch: %s changed", name)
			onChange(name)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)
		}
	}
}
