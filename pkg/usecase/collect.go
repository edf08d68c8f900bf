package usecase

import (
	"context"
	_ "embed"
	"encoding/json"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/yatagai/antenna/pkg/domain/interfaces"
	"github.com/yatagai/antenna/pkg/domain/model"
	"github.com/yatagai/antenna/pkg/infra/fetch"
	"github.com/yatagai/antenna/pkg/utils/m3u"
	"github.com/yatagai/antenna/pkg/utils/xmltv"
)

//go:embed templates/report.html.tmpl
var reportTemplate string

const (
	defaultFetchWorkers = 5
	defaultProbeWorkers = 3
)

// FinderFactory builds a SourceFinder for one run. The access token is
// scoped to the invocation, so the finder is constructed per run rather
// than held by the collector.
type FinderFactory func(token string) interfaces.SourceFinder

type collector struct {
	newFinder    FinderFactory
	fetchClient  *fetch.Client
	workdir      string
	cfg          *model.SourceConfig
	fetchWorkers int
	probeWorkers int
	reportTmpl   *template.Template
}

// CollectorOption configures the collector.
type CollectorOption func(*collector)

// WithWorkers sets the fetch and probe worker pool sizes.
func WithWorkers(fetchWorkers, probeWorkers int) CollectorOption {
	return func(c *collector) {
		if fetchWorkers > 0 {
			c.fetchWorkers = fetchWorkers
		}
		if probeWorkers > 0 {
			c.probeWorkers = probeWorkers
		}
	}
}

// NewCollector creates the built-in playlist collection pipeline writing its
// outputs into workdir.
func NewCollector(newFinder FinderFactory, fetchClient *fetch.Client, workdir string, cfg *model.SourceConfig, opts ...CollectorOption) (interfaces.Collector, error) {
	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse report template")
	}

	if cfg == nil {
		cfg = model.DefaultSourceConfig()
	}

	c := &collector{
		newFinder:    newFinder,
		fetchClient:  fetchClient,
		workdir:      workdir,
		cfg:          cfg,
		fetchWorkers: defaultFetchWorkers,
		probeWorkers: defaultProbeWorkers,
		reportTmpl:   tmpl,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Collect runs the pipeline: gather sources, fetch and parse, dedup, filter,
// validate, probe quality, and write the output files.
func (c *collector) Collect(ctx context.Context, token string) (*model.CollectReport, error) {
	logger := ctxlog.From(ctx)

	sources := c.gatherSources(ctx, token)
	if len(sources) == 0 {
		return nil, goerr.New("no playlist sources configured")
	}

	parsed, failedSources := c.fetchAndParse(ctx, sources)
	logger.Info("Parsed playlist sources",
		"source_count", len(sources),
		"failed_sources", len(failedSources),
		"channel_count", len(parsed),
	)

	kept := c.filter(parsed)
	if c.cfg.ValidateStreams {
		kept = c.validate(ctx, kept)
	}

	logger.Info("Filtered channels",
		"parsed", len(parsed),
		"kept", len(kept),
	)

	quality := c.probeQuality(ctx, kept)

	report := &model.CollectReport{
		GeneratedAt:   time.Now().UTC(),
		SourceCount:   len(sources),
		ParsedCount:   len(parsed),
		KeptCount:     len(kept),
		GroupCounts:   groupCounts(kept),
		Quality:       quality,
		FailedSources: failedSources,
	}

	if err := c.writeOutputs(ctx, kept, report); err != nil {
		return nil, err
	}

	return report, nil
}

// gatherSources unions the configured custom URLs with GitHub discovery.
// Discovery failures degrade to the custom set.
func (c *collector) gatherSources(ctx context.Context, token string) []string {
	logger := ctxlog.From(ctx)

	seen := make(map[string]bool)
	var sources []string
	add := func(url string) {
		if url != "" && !seen[url] {
			seen[url] = true
			sources = append(sources, url)
		}
	}

	for _, url := range c.cfg.CustomURLs {
		add(url)
	}

	if c.newFinder != nil && len(c.cfg.GitHubKeywords) > 0 {
		finder := c.newFinder(token)
		for _, keyword := range c.cfg.GitHubKeywords {
			urls, err := finder.FindPlaylistURLs(ctx, keyword, c.cfg.ReposPerKeyword)
			if err != nil {
				logger.Warn("GitHub source discovery failed",
					"keyword", keyword,
					"error", err,
				)
				continue
			}
			for _, url := range urls {
				add(url)
			}
		}
	}

	return sources
}

// fetchAndParse downloads each source with a bounded worker pool and parses
// channels out of it.
func (c *collector) fetchAndParse(ctx context.Context, sources []string) ([]model.Channel, []string) {
	type result struct {
		source   string
		channels []model.Channel
		err      error
	}

	jobs := make(chan string)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < c.fetchWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range jobs {
				content, err := c.fetchClient.FetchSource(ctx, src)
				if err != nil {
					results <- result{source: src, err: err}
					continue
				}
				results <- result{source: src, channels: parseContent(src, content)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, src := range sources {
			select {
			case jobs <- src:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var channels []model.Channel
	var failed []string
	for r := range results {
		if r.err != nil {
			ctxlog.From(ctx).Warn("Failed to process source", "source", r.source, "error", r.err)
			failed = append(failed, r.source)
			continue
		}
		channels = append(channels, r.channels...)
	}

	return channels, failed
}

// parseContent picks the parser by content shape: EXTINF playlists go
// through the M3U parser, everything else is treated as name,url lines.
func parseContent(source, content string) []model.Channel {
	if strings.Contains(content, "#EXTINF") {
		return m3u.Parse(content)
	}
	if strings.HasSuffix(strings.ToLower(source), ".txt") {
		return m3u.ParseTXT(content)
	}
	return nil
}

// filter deduplicates by URL hash and applies the category allow list and
// the title block list. First occurrence of a URL wins.
func (c *collector) filter(channels []model.Channel) []model.Channel {
	seen := make(map[string]bool, len(channels))
	var kept []model.Channel

	for i := range channels {
		ch := channels[i]
		if ch.URL == "" {
			continue
		}

		hash := ch.Hash()
		if seen[hash] {
			continue
		}
		seen[hash] = true

		if !c.groupAllowed(ch.Group) {
			continue
		}
		if c.titleBlocked(ch.Title) {
			continue
		}

		ch.StreamType = model.DetectStreamType(ch.URL)
		kept = append(kept, ch)
	}

	return kept
}

func (c *collector) groupAllowed(group string) bool {
	if len(c.cfg.AllowedCategories) == 0 {
		return true
	}
	for _, cat := range c.cfg.AllowedCategories {
		if strings.Contains(group, cat) {
			return true
		}
	}
	return false
}

func (c *collector) titleBlocked(title string) bool {
	for _, kw := range c.cfg.BlockKeywords {
		if kw != "" && strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// validate drops channels whose stream URL does not answer the HEAD probe.
func (c *collector) validate(ctx context.Context, channels []model.Channel) []model.Channel {
	reachable := make([]bool, len(channels))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < c.fetchWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				reachable[idx] = c.fetchClient.CheckReachable(ctx, channels[idx].URL)
			}
		}()
	}

	for i := range channels {
		select {
		case jobs <- i:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	var kept []model.Channel
	for i := range channels {
		if reachable[i] {
			kept = append(kept, channels[i])
		}
	}
	return kept
}

// probeQuality runs the GET probe against every kept channel.
func (c *collector) probeQuality(ctx context.Context, channels []model.Channel) []model.QualityResult {
	results := make([]model.QualityResult, len(channels))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < c.probeWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = c.fetchClient.ProbeQuality(ctx, channels[idx].URL)
			}
		}()
	}

	for i := range channels {
		select {
		case jobs <- i:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// writeOutputs generates every artifact file in the workdir.
func (c *collector) writeOutputs(ctx context.Context, channels []model.Channel, report *model.CollectReport) error {
	logger := ctxlog.From(ctx)

	epgURL := c.cfg.EPGURL
	if epgURL == "" {
		epgURL = "epg.xml"
	}

	writers := []struct {
		name  string
		write func(f *os.File) error
	}{
		{"live.m3u", func(f *os.File) error {
			return m3u.Encode(f, channels, epgURL)
		}},
		{"live.txt", func(f *os.File) error {
			return m3u.EncodeTXT(f, channels)
		}},
		{"live.json", func(f *os.File) error {
			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(map[string]any{"channels": channels})
		}},
		{"epg.xml", func(f *os.File) error {
			return xmltv.Encode(f, channels, "antenna")
		}},
		{"report.json", func(f *os.File) error {
			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}},
		{"report.html", func(f *os.File) error {
			return c.reportTmpl.Execute(f, report)
		}},
	}

	for _, w := range writers {
		path := filepath.Join(c.workdir, w.name)
		f, err := os.Create(path)
		if err != nil {
			return goerr.Wrap(err, "failed to create output file", goerr.V("path", path))
		}
		if err := w.write(f); err != nil {
			_ = f.Close()
			return goerr.Wrap(err, "failed to write output file", goerr.V("path", path))
		}
		if err := f.Close(); err != nil {
			return goerr.Wrap(err, "failed to close output file", goerr.V("path", path))
		}
	}

	logger.Info("Generated output files",
		"workdir", c.workdir,
		"channel_count", len(channels),
	)

	return nil
}

func groupCounts(channels []model.Channel) map[string]int {
	counts := make(map[string]int)
	for i := range channels {
		group := channels[i].Group
		if group == "" {
			group = "uncategorized"
		}
		counts[group]++
	}
	return counts
}
