// Package charts assembles the stacked-area renderers into one dashboard and
// the set of files stored for every report.
package charts

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"salescharts/internal/charts/echarts"
	"salescharts/internal/charts/grammar"
	"salescharts/internal/charts/static"
	"salescharts/internal/charts/vegalite"
	"salescharts/internal/config"
	"salescharts/internal/dataset"
	"salescharts/internal/export"
	"salescharts/internal/logger"
	"salescharts/internal/observability"
	"salescharts/internal/page"
	"salescharts/internal/storage"
)

// Dashboard containers
const (
	GrammarContainer = "grammar-chart"
	EChartsContainer = "echarts-chart"
	VegaContainer    = "vega-chart"
)

// Report file names
const (
	IndexFile         = "index.html"
	DatasetFile       = "dataset.json"
	SeriesFile        = "series.json"
	EChartsOptionFile = "echarts_option.json"
	VegaSpecFile      = "vega_spec.json"
	StaticImageFile   = "stacked_area.png"
	GrammarSVGFile    = "grammar.svg"
	WorkbookFile      = "sales.xlsx"
)

const topProductsInSummary = 5

// Options configures the dashboard and every renderer in it.
type Options struct {
	Title             string
	Version           string
	Width             int
	Height            int
	EChartsAssetsHost string
	EChartsTheme      string
}

// DefaultOptions returns the dashboard layout used without configuration.
func DefaultOptions() Options {
	return Options{
		Title:             "Product Sales Dashboard",
		Version:           config.GetVersion(),
		Width:             800,
		Height:            400,
		EChartsAssetsHost: echarts.DefaultAssetsHost,
		EChartsTheme:      "white",
	}
}

// OptionsFromConfig maps service configuration onto dashboard options.
func OptionsFromConfig(cfg *config.Config) Options {
	o := DefaultOptions()
	o.Width = cfg.ChartWidth
	o.Height = cfg.ChartHeight
	if cfg.EChartsAssetsHost != "" {
		o.EChartsAssetsHost = cfg.EChartsAssetsHost
	}
	if cfg.EChartsTheme != "" {
		o.EChartsTheme = cfg.EChartsTheme
	}
	return o
}

// GeneratedFiles contains all files generated for a report
type GeneratedFiles struct {
	HTMLContent string
	JSONFiles   map[string][]byte
	AssetFiles  map[string][]byte // images and the workbook
	FolderPath  string
}

// All returns every file keyed by name, index.html included.
func (f *GeneratedFiles) All() map[string][]byte {
	all := make(map[string][]byte, len(f.JSONFiles)+len(f.AssetFiles)+1)
	all[IndexFile] = []byte(f.HTMLContent)
	for name, data := range f.JSONFiles {
		all[name] = data
	}
	for name, data := range f.AssetFiles {
		all[name] = data
	}
	return all
}

// Names returns the sorted file names.
func (f *GeneratedFiles) Names() []string {
	all := f.All()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Suite renders the same observations with every chart library.
type Suite struct {
	opts    Options
	grammar *grammar.Renderer
	echarts *echarts.Renderer
	vega    *vegalite.Renderer
	log     *logger.Logger
}

// NewSuite creates a suite with the real library bindings.
func NewSuite(o Options, log *logger.Logger) *Suite {
	g := grammar.DefaultOptions()
	g.Width, g.Height = o.Width, o.Height

	e := echarts.DefaultOptions()
	e.AssetsHost = o.EChartsAssetsHost
	if echarts.ValidTheme(o.EChartsTheme) {
		e.Theme = o.EChartsTheme
	}

	return NewSuiteWithRenderers(o,
		grammar.NewRenderer(grammar.NewSVGBinding(), g, nil),
		echarts.NewRenderer(echarts.NewSnippetBinding(o.EChartsAssetsHost), e, nil),
		vegalite.NewRenderer(vegalite.NewEmbedBinding(), vegalite.DefaultEmbedOptions(), nil),
		log)
}

// NewSuiteWithRenderers creates a suite around the given renderers.
func NewSuiteWithRenderers(o Options, g *grammar.Renderer, e *echarts.Renderer, v *vegalite.Renderer, log *logger.Logger) *Suite {
	if log == nil {
		log = logger.Component("charts")
	}
	return &Suite{opts: o, grammar: g, echarts: e, vega: v, log: log}
}

// Options returns the suite configuration.
func (s *Suite) Options() Options {
	return s.opts
}

// Dashboard renders obs with all three libraries into a new document. The
// ECharts instance is nil when that renderer skipped.
func (s *Suite) Dashboard(obs []dataset.Observation) (*page.Document, *echarts.Instance, error) {
	doc := page.New(s.opts.Title)
	doc.Version = s.opts.Version
	doc.AddElement(GrammarContainer, "Grammar of graphics (go-gg)")
	doc.AddElement(EChartsContainer, "ECharts")
	doc.AddElement(VegaContainer, "Vega-Lite")

	table := dataset.Reshape(obs)
	if err := doc.SetSummaryMarkdown(SummaryMarkdown(obs, table)); err != nil {
		return nil, nil, err
	}

	s.grammar.Render(doc, GrammarContainer, obs)
	inst := s.echarts.Render(doc, EChartsContainer, obs)
	s.vega.Render(doc, VegaContainer, obs)

	return doc, inst, nil
}

// GrammarSVG renders the go-gg plot as a standalone SVG document.
func (s *Suite) GrammarSVG(obs []dataset.Observation) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.grammar.WriteSVG(&buf, dataset.Reshape(obs)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StaticImage renders the go-chart image in the given format.
func (s *Suite) StaticImage(obs []dataset.Observation, format static.Format) ([]byte, error) {
	o := static.DefaultOptions()
	o.Width, o.Height = max(o.Width, s.opts.Width), max(o.Height, s.opts.Height)

	var buf bytes.Buffer
	if err := static.Render(dataset.Reshape(obs), &buf, format, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateAllFiles creates the dashboard and every derived file for a report
// stamped with timestamp, taken in UTC. Auxiliary files that fail are logged
// and left out; only a failed dashboard fails the report.
func (s *Suite) GenerateAllFiles(ctx context.Context, obs []dataset.Observation, timestamp time.Time) (*GeneratedFiles, error) {
	start := time.Now()
	timestamp = timestamp.UTC()
	observability.ObserveDataset(len(obs))

	files := &GeneratedFiles{
		JSONFiles:  make(map[string][]byte),
		AssetFiles: make(map[string][]byte),
		FolderPath: storage.GenerateReportFolderPath(timestamp),
	}

	doc, _, err := s.Dashboard(obs)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	doc.GeneratedAt = timestamp
	files.HTMLContent, err = doc.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	table := dataset.Reshape(obs)
	var buf bytes.Buffer
	if err := dataset.WriteJSON(&buf, obs); err != nil {
		s.log.Warn("Failed to generate dataset JSON", map[string]interface{}{"error": err.Error()})
	} else {
		files.JSONFiles[DatasetFile] = bytes.Clone(buf.Bytes())
	}

	if data, err := json.Marshal(table); err != nil {
		s.log.Warn("Failed to generate series JSON", map[string]interface{}{"error": err.Error()})
	} else {
		files.JSONFiles[SeriesFile] = data
	}

	if data, err := echarts.OptionJSON(obs); err != nil {
		s.log.Warn("Failed to generate echarts option", map[string]interface{}{"error": err.Error()})
	} else {
		files.JSONFiles[EChartsOptionFile] = data
	}

	if data, err := vegalite.NewStackedAreaSpec(obs).JSON(); err != nil {
		s.log.Warn("Failed to generate vega spec", map[string]interface{}{"error": err.Error()})
	} else {
		files.JSONFiles[VegaSpecFile] = data
	}

	if data, err := s.StaticImage(obs, static.PNG); err != nil {
		s.log.Warn("Failed to generate static image", map[string]interface{}{"error": err.Error()})
	} else {
		files.AssetFiles[StaticImageFile] = data
	}

	if data, err := s.GrammarSVG(obs); err != nil {
		s.log.Warn("Failed to generate grammar SVG", map[string]interface{}{"error": err.Error()})
	} else {
		files.AssetFiles[GrammarSVGFile] = data
	}

	buf.Reset()
	if err := export.WriteXLSX(table, &buf, s.opts.Title); err != nil {
		s.log.Warn("Failed to generate workbook", map[string]interface{}{"error": err.Error()})
	} else {
		files.AssetFiles[WorkbookFile] = bytes.Clone(buf.Bytes())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.log.Info("Generated report files", map[string]interface{}{
		"folder":   files.FolderPath,
		"files":    len(files.JSONFiles) + len(files.AssetFiles) + 1,
		"duration": time.Since(start).String(),
	})
	return files, nil
}

// StoreAllFiles writes every generated file into the report folder.
func StoreAllFiles(ctx context.Context, client storage.StorageClient, files *GeneratedFiles) error {
	if err := client.CreateDir(ctx, files.FolderPath); err != nil {
		return fmt.Errorf("failed to create report folder: %w", err)
	}
	all := files.All()
	for _, name := range files.Names() {
		if err := client.StoreFile(ctx, files.FolderPath+"/"+name, all[name]); err != nil {
			return fmt.Errorf("failed to store %s: %w", name, err)
		}
	}
	return nil
}

// SummaryMarkdown describes the dataset and its best-selling products.
func SummaryMarkdown(obs []dataset.Observation, t *dataset.SeriesTable) string {
	sum := dataset.Summarize(obs)

	var b strings.Builder
	b.WriteString("## Dataset\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Observations | %d |\n", sum.Count)
	fmt.Fprintf(&b, "| Products | %d |\n", len(t.Products))
	fmt.Fprintf(&b, "| Days | %d |\n", t.Len())
	if t.Len() > 0 {
		fmt.Fprintf(&b, "| First date | %s |\n", t.Dates[0])
		fmt.Fprintf(&b, "| Last date | %s |\n", t.Dates[t.Len()-1])
	}
	fmt.Fprintf(&b, "| Peak daily total | %.0f |\n", t.Max())

	totals := make(map[string]float64, len(t.Products))
	for _, p := range t.Products {
		for _, v := range t.Matrix[p] {
			totals[p] += v
		}
	}
	top := append([]string(nil), t.Products...)
	sort.SliceStable(top, func(i, j int) bool { return totals[top[i]] > totals[top[j]] })
	if len(top) > topProductsInSummary {
		top = top[:topProductsInSummary]
	}
	if len(top) > 0 {
		b.WriteString("\n### Top products\n\n| Product | Total sales |\n|---|---|\n")
		for _, p := range top {
			fmt.Fprintf(&b, "| %s | %.0f |\n", p, totals[p])
		}
	}
	return b.String()
}

// LoadObservations fetches the dataset from cfg.DatasetURL when set and
// generates it otherwise.
func LoadObservations(ctx context.Context, cfg *config.Config, log *logger.Logger) ([]dataset.Observation, error) {
	if log == nil {
		log = logger.Component("dataset")
	}

	var obs []dataset.Observation
	if cfg.DatasetURL != "" {
		var err error
		obs, err = dataset.NewFetcher(cfg.FetchTimeout).Fetch(ctx, cfg.DatasetURL)
		if err != nil {
			return nil, err
		}
	} else {
		start, end, err := cfg.DatasetRange()
		if err != nil {
			return nil, err
		}
		obs = dataset.Generate(dataset.GeneratorConfig{
			Start:    start,
			End:      end,
			Products: cfg.DatasetProducts,
			Seed:     cfg.DatasetSeed,
		})
	}

	fields := dataset.Summarize(obs).Fields()
	fields["source"] = "generated"
	if cfg.DatasetURL != "" {
		fields["source"] = cfg.DatasetURL
	}
	log.Info("Loaded sales dataset", fields)
	return obs, nil
}
