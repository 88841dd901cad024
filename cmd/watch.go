package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mj1618/opi-cli/internal/model"
	"github.com/mj1618/opi-cli/internal/session"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Reload a display on change and stream widget diffs as JSONL",
	Long: `Keep a display open, reload it whenever the file (or an image or linked
display it loaded) changes on disk, and emit the widget changes (added,
removed, modified) as JSONL to stdout.

Each line is a JSON object representing one change event. No output is
emitted while the display is stable. Output is always JSONL regardless of
the --format flag.

Use Ctrl+C or --duration to stop watching.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("roles", "", "Comma-separated roles to include (e.g. \"btn,led\")")
	watchCmd.Flags().Int("debounce", 200, "Milliseconds to wait after the last file event before reloading")
	watchCmd.Flags().Int("duration", 0, "Max seconds to watch (0 = until Ctrl+C)")
	watchCmd.Flags().Bool("ignore-bounds", false, "Ignore widget position changes")
}

func runWatch(cmd *cobra.Command, args []string) error {
	rolesStr, _ := cmd.Flags().GetString("roles")
	debounceMs, _ := cmd.Flags().GetInt("debounce")
	durationSec, _ := cmd.Flags().GetInt("duration")
	ignoreBounds, _ := cmd.Flags().GetBool("ignore-bounds")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if durationSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(durationSec)*time.Second)
		defer cancel()
	}

	file, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	sess, err := openSession(ctx, []string{file})
	if err != nil {
		return err
	}
	defer sess.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()
	// Editors replace files by rename, so watch the directory.
	if err := watcher.Add(filepath.Dir(file)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(file), err)
	}

	roles := session.SplitRoles(rolesStr)
	read := func() []model.FlatElement {
		return model.FlattenElements(model.FilterElements(sess.Snapshot(), roles, nil))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)

	start := time.Now()
	prevFlat := read()
	enc.Encode(map[string]interface{}{
		"type":  "snapshot",
		"ts":    time.Now().Unix(),
		"count": len(prevFlat),
	})

	eventCount := 0
	emit := func() {
		currFlat := read()
		for _, change := range model.DiffElements(prevFlat, currFlat) {
			if change.Type == model.ChangeChanged && ignoreBounds {
				delete(change.Changes, "b")
				if len(change.Changes) == 0 {
					continue
				}
			}
			enc.Encode(change)
			eventCount++
		}
		prevFlat = currFlat
	}

	var reload <-chan time.Time
	debounce := time.Duration(debounceMs) * time.Millisecond
loop:
	for {
		select {
		case <-ctx.Done():
			break loop

		case ev, ok := <-watcher.Events:
			if !ok {
				break loop
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Name != file && !sess.Loader.Cached(ev.Name) {
				continue
			}
			reload = time.After(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				break loop
			}
			enc.Encode(map[string]interface{}{
				"type":  "error",
				"ts":    time.Now().Unix(),
				"error": err.Error(),
			})

		case <-reload:
			reload = nil
			if err := sess.Reload(ctx); err != nil {
				enc.Encode(map[string]interface{}{
					"type":  "error",
					"ts":    time.Now().Unix(),
					"error": err.Error(),
				})
				continue
			}
			emit()

		case <-sess.Loader.Ready():
			if sess.Viewer.Pump() > 0 {
				emit()
			}
		}
	}

	enc.Encode(map[string]interface{}{
		"type":    "done",
		"ts":      time.Now().Unix(),
		"elapsed": fmt.Sprintf("%.1fs", time.Since(start).Seconds()),
		"events":  eventCount,
	})
	return nil
}
