package charts

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescharts/internal/charts/echarts"
	"salescharts/internal/charts/grammar"
	"salescharts/internal/charts/vegalite"
	"salescharts/internal/config"
	"salescharts/internal/dataset"
	"salescharts/internal/logger"
	"salescharts/internal/storage"
)

func smallDataset() []dataset.Observation {
	return dataset.Generate(dataset.GeneratorConfig{
		Start:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC),
		Products: 3,
		Seed:     7,
	})
}

func quietLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Config{Level: logger.DEBUG, Format: logger.JSONFormat, Output: buf})
}

func TestDashboardRendersAllContainers(t *testing.T) {
	var logs bytes.Buffer
	suite := NewSuite(DefaultOptions(), quietLogger(&logs))

	doc, inst, err := suite.Dashboard(smallDataset())
	require.NoError(t, err)
	require.NotNil(t, inst)
	assert.Equal(t, "echarts_echarts_chart", inst.ChartID())

	for _, id := range []string{GrammarContainer, EChartsContainer, VegaContainer} {
		el := doc.Element(id)
		require.NotNil(t, el, id)
		assert.True(t, el.Mounted(), id)
	}

	html, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, `id="grammar-chart"`)
	assert.Contains(t, html, "<svg")
	assert.Contains(t, html, "echarts.init")
	assert.Contains(t, html, "vegaEmbed")
	assert.Contains(t, html, "echarts.min.js")
	assert.Contains(t, html, "vega-embed@6")
	assert.Contains(t, html, `id="dataset"`)
}

func TestDashboardWithoutBindingsStillRenders(t *testing.T) {
	var logs bytes.Buffer
	log := quietLogger(&logs)
	suite := NewSuiteWithRenderers(DefaultOptions(),
		grammar.NewRenderer(nil, grammar.DefaultOptions(), log),
		echarts.NewRenderer(nil, echarts.DefaultOptions(), log),
		vegalite.NewRenderer(nil, vegalite.DefaultEmbedOptions(), log),
		log)

	doc, inst, err := suite.Dashboard(smallDataset())
	require.NoError(t, err)
	assert.Nil(t, inst)

	html, err := doc.HTML()
	require.NoError(t, err)
	assert.Equal(t, 3, bytes.Count([]byte(html), []byte("Chart unavailable")))
	assert.Contains(t, logs.String(), "ECharts not available")
	assert.Contains(t, logs.String(), "Vega-Embed not available")
	assert.Contains(t, logs.String(), "Chart library not available")
}

func TestGenerateAllFiles(t *testing.T) {
	var logs bytes.Buffer
	suite := NewSuite(DefaultOptions(), quietLogger(&logs))
	ts := time.Date(2020, 12, 31, 23, 59, 58, 0, time.UTC)

	files, err := suite.GenerateAllFiles(context.Background(), smallDataset(), ts)
	require.NoError(t, err)

	assert.Equal(t, "2020/12/31/SalesReport-2020-12-31-23-59-58", files.FolderPath)
	assert.Equal(t, []string{
		DatasetFile, EChartsOptionFile, GrammarSVGFile, IndexFile,
		WorkbookFile, SeriesFile, StaticImageFile, VegaSpecFile,
	}, files.Names())
	assert.Contains(t, files.HTMLContent, "2020-12-31 23:59:58 UTC")

	obs, err := dataset.LoadJSON(bytes.NewReader(files.JSONFiles[DatasetFile]))
	require.NoError(t, err)
	assert.Len(t, obs, 31*3)

	assert.Contains(t, string(files.JSONFiles[SeriesFile]), `"products":["product1","product2","product3"]`)
	assert.Contains(t, string(files.JSONFiles[VegaSpecFile]), `"$schema"`)
	assert.Contains(t, string(files.JSONFiles[EChartsOptionFile]), `"stack":"Total"`)
	assert.True(t, bytes.HasPrefix(files.AssetFiles[StaticImageFile], []byte("\x89PNG")))
	assert.True(t, bytes.HasPrefix(files.AssetFiles[WorkbookFile], []byte("PK")))
}

func TestGenerateAllFilesStampsInUTC(t *testing.T) {
	var logs bytes.Buffer
	suite := NewSuite(DefaultOptions(), quietLogger(&logs))
	// 2021-01-01 03:30 in UTC+5 is still 2020-12-31 in UTC
	ts := time.Date(2021, 1, 1, 3, 30, 0, 0, time.FixedZone("UTC+5", 5*60*60))

	files, err := suite.GenerateAllFiles(context.Background(), smallDataset(), ts)
	require.NoError(t, err)

	assert.Equal(t, "2020/12/31/SalesReport-2020-12-31-22-30-00", files.FolderPath)
	assert.Contains(t, files.HTMLContent, "2020-12-31 22:30:00 UTC")
}

func TestGenerateAllFilesEmptyDataset(t *testing.T) {
	var logs bytes.Buffer
	suite := NewSuite(DefaultOptions(), quietLogger(&logs))

	files, err := suite.GenerateAllFiles(context.Background(), nil, time.Now())
	require.NoError(t, err)

	assert.Contains(t, files.HTMLContent, "No data")
	assert.Contains(t, files.JSONFiles, DatasetFile)
	assert.NotContains(t, files.AssetFiles, StaticImageFile)
	assert.NotContains(t, files.AssetFiles, WorkbookFile)
	assert.NotContains(t, files.AssetFiles, GrammarSVGFile)
	assert.Contains(t, logs.String(), "Failed to generate static image")
}

func TestGenerateAllFilesDegenerateDatasets(t *testing.T) {
	tests := []struct {
		name string
		obs  []dataset.Observation
	}{
		{"single date", []dataset.Observation{{Date: "2020-01-01", Product: "A", Value: 3}}},
		{"all zero", []dataset.Observation{
			{Date: "2020-01-01", Product: "A", Value: 0},
			{Date: "2020-01-02", Product: "A", Value: 0},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			suite := NewSuite(DefaultOptions(), quietLogger(&logs))

			var files *GeneratedFiles
			var err error
			require.NotPanics(t, func() {
				files, err = suite.GenerateAllFiles(context.Background(), tt.obs, time.Now().UTC())
			})
			require.NoError(t, err)
			assert.Contains(t, files.AssetFiles, GrammarSVGFile)
			assert.Contains(t, files.HTMLContent, "<svg")
		})
	}
}

func TestGenerateAllFilesCanceled(t *testing.T) {
	var logs bytes.Buffer
	suite := NewSuite(DefaultOptions(), quietLogger(&logs))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := suite.GenerateAllFiles(ctx, smallDataset(), time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreAllFiles(t *testing.T) {
	var logs bytes.Buffer
	suite := NewSuite(DefaultOptions(), quietLogger(&logs))
	files, err := suite.GenerateAllFiles(context.Background(), smallDataset(), time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	client, err := storage.NewLocalStorageClient(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, StoreAllFiles(ctx, client, files))

	latest, err := storage.LatestReport(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, files.FolderPath, latest)

	stored, err := client.ListDir(ctx, files.FolderPath, false)
	require.NoError(t, err)
	assert.Len(t, stored, len(files.Names()))

	index, err := client.GetFile(ctx, files.FolderPath+"/"+IndexFile)
	require.NoError(t, err)
	assert.Equal(t, files.HTMLContent, string(index))
}

func TestSummaryMarkdown(t *testing.T) {
	obs := []dataset.Observation{
		{Date: "2020-01-01", Product: "a", Value: 1},
		{Date: "2020-01-01", Product: "b", Value: 10},
		{Date: "2020-01-02", Product: "a", Value: 2},
	}
	md := SummaryMarkdown(obs, dataset.Reshape(obs))

	assert.Contains(t, md, "## Dataset")
	assert.Contains(t, md, "| Observations | 3 |")
	assert.Contains(t, md, "| Products | 2 |")
	assert.Contains(t, md, "| First date | 2020-01-01 |")
	assert.Contains(t, md, "| Last date | 2020-01-02 |")
	assert.Contains(t, md, "| Peak daily total | 11 |")
	assert.Less(t, bytes.Index([]byte(md), []byte("| b | 10 |")), bytes.Index([]byte(md), []byte("| a | 3 |")))
}

func TestSummaryMarkdownEmpty(t *testing.T) {
	md := SummaryMarkdown(nil, dataset.Reshape(nil))
	assert.Contains(t, md, "| Observations | 0 |")
	assert.NotContains(t, md, "First date")
	assert.NotContains(t, md, "Top products")
}

func TestLoadObservationsGenerated(t *testing.T) {
	var logs bytes.Buffer
	cfg := &config.Config{
		DatasetStart:    "2020-02-01",
		DatasetEnd:      "2020-02-10",
		DatasetProducts: 4,
		DatasetSeed:     3,
	}

	obs, err := LoadObservations(context.Background(), cfg, quietLogger(&logs))
	require.NoError(t, err)
	assert.Len(t, obs, 40)
	assert.Contains(t, logs.String(), `"source":"generated"`)
}

func TestLoadObservationsFetched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"date":"2020-01-01","product":"product1","sales":42}]`))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	cfg := &config.Config{DatasetURL: srv.URL, FetchTimeout: 5 * time.Second}

	obs, err := LoadObservations(context.Background(), cfg, quietLogger(&logs))
	require.NoError(t, err)
	assert.Equal(t, []dataset.Observation{{Date: "2020-01-01", Product: "product1", Value: 42}}, obs)
}

func TestOptionsFromConfig(t *testing.T) {
	o := OptionsFromConfig(&config.Config{ChartWidth: 1024, ChartHeight: 512, EChartsAssetsHost: "http://assets.local/"})
	assert.Equal(t, 1024, o.Width)
	assert.Equal(t, 512, o.Height)
	assert.Equal(t, "http://assets.local/", o.EChartsAssetsHost)
}
