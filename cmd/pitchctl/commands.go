package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitchboard/pitchboard/internal/export"
	"github.com/pitchboard/pitchboard/internal/item"
	"github.com/pitchboard/pitchboard/internal/scene"
	"github.com/pitchboard/pitchboard/internal/storage"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved items, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, store, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tELEMENTS\tUPDATED\tTITLE")
			for _, it := range items {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					it.ID, it.Type, len(it.Scene.Elements), it.UpdatedAt.Local().Format(time.DateTime), it.Title)
			}
			return tw.Flush()
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var (
		title    string
		itemType string
	)
	cmd := &cobra.Command{
		Use:   "import <scene.json>",
		Short: "Save a scene file as a new item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := readScene(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			svc, store, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			it, err := svc.Create(cmd.Context(), item.CreateInput{
				Title: title,
				Type:  storage.ItemType(itemType),
				Scene: sc,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), it.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "item title (defaults to the file name)")
	cmd.Flags().StringVar(&itemType, "type", string(storage.ItemTactics), "item type (training or tactics)")
	return cmd
}

type renderFlags struct {
	format string
	out    string
	width  int
	height int
}

func (f *renderFlags) register(cmd *cobra.Command, defaultFormat string) {
	cmd.Flags().StringVarP(&f.format, "format", "f", defaultFormat, "output format (json, png or svg)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().IntVar(&f.width, "width", export.DefaultWidth, "image width in pixels")
	cmd.Flags().IntVar(&f.height, "height", export.DefaultHeight, "image height in pixels")
}

func (f *renderFlags) write(cmd *cobra.Command, a *app, sc scene.Scene) error {
	format, err := export.ParseFormat(f.format)
	if err != nil {
		return err
	}
	exp, err := a.exporter()
	if err != nil {
		return err
	}
	w, done, err := output(f.out, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := exp.Write(w, format, sc, f.width, f.height); err != nil {
		done()
		return err
	}
	if err := done(); err != nil {
		return fmt.Errorf("write %s: %w", f.out, err)
	}
	slog.Debug("wrote export", "format", format, "out", f.out)
	return nil
}

func newExportCmd(a *app) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "export <item-id>",
		Short: "Export a saved item as JSON, PNG or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, store, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			it, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return f.write(cmd, a, it.Scene)
		},
	}
	f.register(cmd, string(export.FormatJSON))
	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render <scene.json>",
		Short: "Render a scene file without touching the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := readScene(args[0])
			if err != nil {
				return err
			}
			return f.write(cmd, a, sc)
		},
	}
	f.register(cmd, string(export.FormatPNG))
	return cmd
}

func readScene(path string) (scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scene.Scene{}, fmt.Errorf("read scene: %w", err)
	}
	sc, err := scene.Decode(data)
	if err != nil {
		return scene.Scene{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return sc, nil
}
