package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dgallion1/pagenav/internal/parser"
	"github.com/dgallion1/pagenav/internal/pipeline"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var (
	buildOut   string
	buildTitle string
	buildWatch bool
)

const watchDebounce = 200 * time.Millisecond

var buildCmd = &cobra.Command{
	Use:   "build <file>...",
	Short: "Render documents to HTML pages with in-page navigation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger()
		w := pipeline.NewWorker(log, cfg.Shell(), cfg.NavConfig(), cfg.PDFFallbackPdftotext)

		for _, f := range args {
			if !parser.IsSupportedExtension(f) {
				return fmt.Errorf("unsupported file type: %s", f)
			}
		}
		if err := os.MkdirAll(buildOut, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var failed int
		for _, f := range args {
			if err := buildFile(ctx, w, f); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", f, err)
				failed++
			}
		}
		if !buildWatch {
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(args))
			}
			return nil
		}
		return watchFiles(ctx, log, w, args)
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "dist", "output directory")
	buildCmd.Flags().StringVar(&buildTitle, "title", "", "page title (default: from the document)")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "rebuild when an input changes")
	rootCmd.AddCommand(buildCmd)
}

func buildFile(ctx context.Context, w *pipeline.Worker, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	res, err := w.Render(ctx, data, filepath.Base(path), buildTitle)
	if err != nil {
		return err
	}
	out := outputPath(buildOut, path)
	if err := os.WriteFile(out, res.HTML, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("%s -> %s (%d sections)\n", path, out, res.Sections)
	return nil
}

// outputPath maps an input to <dir>/<name>.html.
func outputPath(dir, input string) string {
	base := filepath.Base(input)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".html")
}

// watchFiles rebuilds inputs on change until ctx is cancelled. Directories
// are watched rather than files so editors that replace files on save are
// still seen.
func watchFiles(ctx context.Context, log *slog.Logger, w *pipeline.Worker, files []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	inputs := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		inputs[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
	}
	fmt.Printf("watching %d file(s), ctrl-c to stop\n", len(inputs))

	pending := make(map[string]bool)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !inputs[event.Name] || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			pending[event.Name] = true
			timer.Reset(watchDebounce)
		case <-timer.C:
			for f := range pending {
				if err := buildFile(ctx, w, f); err != nil {
					log.Error("rebuild failed", "file", f, "error", err)
				}
			}
			clear(pending)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)
		}
	}
}
