// Command render writes the sales dashboard and every chart artifact either
// into a directory or into the configured report storage.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"salescharts/internal/charts"
	"salescharts/internal/config"
	"salescharts/internal/logger"
	"salescharts/internal/storage"
)

type renderFlags struct {
	outputDir string
	store     bool
	url       string
	start     string
	end       string
	products  int
	seed      int64
	width     int
	height    int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the stacked-area sales charts",
		Long: `render generates the sales dataset (or fetches it with --url), draws it with
every chart library and writes the dashboard, JSON artifacts, images and workbook.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.outputDir, "output", "o", "out", "Directory the files are written to")
	cmd.Flags().BoolVar(&f.store, "store", false, "Store a dated report through the configured storage instead of --output")
	cmd.Flags().StringVar(&f.url, "url", "", "Fetch observations from this URL instead of generating them")
	cmd.Flags().StringVar(&f.start, "start", "", "First generated day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "Last generated day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.products, "products", 0, "Number of generated products")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Generator seed")
	cmd.Flags().IntVar(&f.width, "width", 0, "Chart width in pixels")
	cmd.Flags().IntVar(&f.height, "height", 0, "Chart height in pixels")

	return cmd
}

// applyFlags overrides environment configuration with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f *renderFlags) error {
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.DatasetURL = f.url
	}
	if flags.Changed("start") {
		cfg.DatasetStart = f.start
	}
	if flags.Changed("end") {
		cfg.DatasetEnd = f.end
	}
	if flags.Changed("products") {
		cfg.DatasetProducts = f.products
	}
	if flags.Changed("seed") {
		cfg.DatasetSeed = f.seed
	}
	if flags.Changed("width") {
		cfg.ChartWidth = f.width
	}
	if flags.Changed("height") {
		cfg.ChartHeight = f.height
	}
	return cfg.Validate()
}

func run(ctx context.Context, cmd *cobra.Command, f *renderFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.Component("render")

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg, f); err != nil {
		return err
	}

	obs, err := charts.LoadObservations(ctx, cfg, log)
	if err != nil {
		return err
	}

	files, err := charts.NewSuite(charts.OptionsFromConfig(cfg), log).GenerateAllFiles(ctx, obs, time.Now().UTC())
	if err != nil {
		return err
	}

	if f.store {
		store, err := storage.NewStorageClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := charts.StoreAllFiles(ctx, store, files); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored report %s\n", files.FolderPath)
		return nil
	}

	out, err := storage.NewLocalStorageClient(f.outputDir)
	if err != nil {
		return err
	}
	all := files.All()
	for _, name := range files.Names() {
		if err := out.StoreFile(ctx, name, all[name]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s/%s\n", f.outputDir, name)
	}
	return nil
}
