package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pitchboard/pitchboard/internal/config"
	"github.com/pitchboard/pitchboard/internal/export"
	"github.com/pitchboard/pitchboard/internal/item"
	"github.com/pitchboard/pitchboard/internal/render"
	"github.com/pitchboard/pitchboard/internal/storage"
)

// app holds the flags shared by every subcommand.
type app struct {
	driver  string
	dsn     string
	iconDir string
	verbose bool

	previewWidth  int
	previewHeight int
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	a := &app{
		previewWidth:  cfg.PreviewWidth,
		previewHeight: cfg.PreviewHeight,
	}

	root := &cobra.Command{
		Use:   "pitchctl",
		Short: "Manage saved pitch diagrams",
		Long: `Manage the diagrams saved by the pitchboard server and render scenes offline.

Examples:
  pitchctl list                                   # List saved items
  pitchctl import drill.json --title "Rondo"      # Save a scene file as a new item
  pitchctl export item_01h... --format png -o a.png
  pitchctl render drill.json --format svg -o drill.svg`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := cfg.LogLevel
			if a.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	root.PersistentFlags().StringVar(&a.driver, "driver", cfg.StoreDriver, "store driver (sqlite or postgres)")
	root.PersistentFlags().StringVar(&a.dsn, "dsn", cfg.StoreDSN(), "SQLite path or Postgres URL")
	root.PersistentFlags().StringVar(&a.iconDir, "icons", cfg.IconDir, "directory of token icon PNGs")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newListCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newRenderCmd(a),
	)
	return root
}

func (a *app) renderers() (*render.Raster, *render.SVG, error) {
	icons := render.NewIconCache(a.iconDir)
	raster, err := render.NewRaster(icons)
	if err != nil {
		return nil, nil, err
	}
	return raster, render.NewSVG(icons), nil
}

func (a *app) exporter() (*export.Exporter, error) {
	raster, svg, err := a.renderers()
	if err != nil {
		return nil, err
	}
	return export.NewExporter(raster, svg), nil
}

// openService opens the store and wraps it in the items service. The caller
// closes the returned store.
func (a *app) openService(ctx context.Context) (*item.Service, storage.Store, error) {
	store, err := storage.Open(ctx, a.driver, a.dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	raster, _, err := a.renderers()
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return item.NewService(store, raster, a.previewWidth, a.previewHeight), store, nil
}

// output opens path for writing; "-" or "" means w.
func output(path string, w io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
