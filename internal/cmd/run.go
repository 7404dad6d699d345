package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"

	"github.com/pegacl/pegacl/internal/aggregate"
	"github.com/pegacl/pegacl/internal/config"
	"github.com/pegacl/pegacl/internal/export"
	"github.com/pegacl/pegacl/internal/models"
	"github.com/pegacl/pegacl/internal/network"
	"github.com/pegacl/pegacl/internal/scraper"
	"github.com/pegacl/pegacl/internal/store"
)

type RunCmd struct {
	Sites   string `help:"Comma-separated list of sites (default: all)." default:"all"`
	Proxies string `help:"Comma-separated proxy URLs." env:"PEGACL_PROXIES"`
	Output  string `name:"output" short:"o" help:"Also write the merged result to a CSV file."`
	DryRun  bool   `help:"Skip the database write."`
}

func (r *RunCmd) Run(ctx *Context) error {
	jobs, err := scrapeAndMerge(ctx, r.Sites, r.Proxies)
	if err != nil {
		return err
	}

	if r.Output != "" {
		if err := writeJobsFile(r.Output, jobs, export.FormatCSV); err != nil {
			return err
		}
	}

	if r.DryRun {
		ctx.UI.Infof("Dry run: %d jobs, nothing persisted", len(jobs))
		return nil
	}

	uri := strings.TrimSpace(ctx.Config.MongoURI)
	if uri == "" {
		ctx.UI.Warnf("MONGO_URI is not set; skipping the database write")
		printRunSummary(ctx, jobs)
		return nil
	}

	storeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := store.New(storeCtx, uri)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close(storeCtx)

	if err := db.SaveJobs(storeCtx, jobs); err != nil {
		return fmt.Errorf("save jobs: %w", err)
	}

	printRunSummary(ctx, jobs)
	return nil
}

type ExportCmd struct {
	Sites   string `help:"Comma-separated list of sites (default: all)." default:"all"`
	Proxies string `help:"Comma-separated proxy URLs." env:"PEGACL_PROXIES"`
	Format  string `help:"Output format: csv, json." enum:"csv,json" default:"csv"`
	Output  string `name:"output" short:"o" help:"Write output to a file instead of stdout."`
	Dedup   bool   `help:"Collapse rows sharing a URL before writing." default:"true"`
}

func (e *ExportCmd) Run(ctx *Context) error {
	jobs, err := scrapeAndMerge(ctx, e.Sites, e.Proxies)
	if err != nil {
		return err
	}

	format := export.FormatCSV
	if ctx.JSONOutput || e.Format == "json" {
		format = export.FormatJSON
	}

	writer := ctx.Out
	if e.Output != "" {
		file, err := os.Create(e.Output)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	if err := export.WriteJobs(writer, jobs, format, export.WriteOptions{Dedup: e.Dedup}); err != nil {
		return err
	}

	printRunSummary(ctx, jobs)
	return nil
}

func scrapeAndMerge(ctx *Context, sitesArg string, proxiesFlag string) ([]models.Job, error) {
	proxies, err := config.LoadProxies(proxiesFlag)
	if err != nil {
		return nil, err
	}

	var pool *network.ProxyPool
	if len(proxies) > 0 {
		pool, err = network.NewProxyPool(proxies, 10*time.Minute)
		if err != nil {
			return nil, err
		}
	}

	registry, err := scraper.Registry(linkedInOptions(ctx.Config), pool, ctx.Logger)
	if err != nil {
		return nil, err
	}
	selected, err := selectScrapers(registry, sitesArg)
	if err != nil {
		return nil, err
	}

	stopIndicator := startScrapeIndicator(ctx)
	if stopIndicator != nil {
		defer stopIndicator()
	}

	lists, failures := runScrapers(selected)
	reportScraperFailures(ctx, failures)

	return aggregate.Merge(lists...), nil
}

func linkedInOptions(cfg config.Config) scraper.LinkedInOptions {
	return scraper.LinkedInOptions{
		Keywords:       cfg.LinkedIn.Keywords,
		Location:       cfg.LinkedIn.Location,
		RecencySeconds: cfg.LinkedIn.RecencySeconds,
		MaxPages:       cfg.LinkedIn.MaxPages,
		Headless:       cfg.LinkedIn.Headless,
		User:           cfg.LinkedIn.User,
		Password:       cfg.LinkedIn.Password,
		StatePath:      cfg.LinkedIn.StatePath,
	}
}

type scraperResult struct {
	site string
	jobs []models.Job
	err  error
}

type scraperFailure struct {
	site string
	err  error
}

// runScrapers fans out one goroutine per source. Each list keeps its source
// order; list order follows site name so merge precedence is deterministic.
func runScrapers(scrapers []scraper.Scraper) ([][]models.Job, []scraperFailure) {
	var (
		wg      sync.WaitGroup
		results = make(chan scraperResult, len(scrapers))
	)

	for _, sc := range scrapers {
		wg.Add(1)
		go func(sc scraper.Scraper) {
			defer wg.Done()
			jobs, err := sc.Run(context.Background())
			results <- scraperResult{site: sc.Name(), jobs: jobs, err: err}
		}(sc)
	}

	wg.Wait()
	close(results)

	collected := make([]scraperResult, 0, len(scrapers))
	for res := range results {
		collected = append(collected, res)
	}
	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].site < collected[j].site
	})

	var (
		lists    [][]models.Job
		failures []scraperFailure
	)
	for _, res := range collected {
		if res.err != nil {
			failures = append(failures, scraperFailure{site: res.site, err: res.err})
			continue
		}
		lists = append(lists, res.jobs)
	}

	return lists, failures
}

func selectScrapers(registry map[string]scraper.Scraper, sitesArg string) ([]scraper.Scraper, error) {
	requested := scraper.NormalizeSites(strings.Split(sitesArg, ","))
	if len(requested) == 0 || (len(requested) == 1 && requested[0] == "all") {
		requested = make([]string, 0, len(registry))
		for site := range registry {
			requested = append(requested, site)
		}
		sort.Strings(requested)
	}

	selected := make([]scraper.Scraper, 0, len(requested))
	for _, site := range requested {
		sc, ok := registry[site]
		if !ok {
			return nil, fmt.Errorf("unknown site: %s", site)
		}
		selected = append(selected, sc)
	}

	return selected, nil
}

func reportScraperFailures(ctx *Context, failures []scraperFailure) {
	if ctx == nil || ctx.UI == nil {
		return
	}
	for _, failure := range failures {
		ctx.UI.Warnf("%s: %v", failure.site, failure.err)
	}
}

func printRunSummary(ctx *Context, jobs []models.Job) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	_, _ = fmt.Fprintf(ctx.Err, "%s\n", formatRunSummary(jobs))
}

func formatRunSummary(jobs []models.Job) string {
	counts := countJobsBySite(jobs)
	if len(counts) == 0 {
		return "summary: jobs=0 by_site=none"
	}

	parts := make([]string, 0, len(counts))
	for _, count := range counts {
		parts = append(parts, fmt.Sprintf("%s:%d", count.site, count.total))
	}

	return fmt.Sprintf("summary: jobs=%d by_site=%s", len(jobs), strings.Join(parts, ", "))
}

type siteCount struct {
	site  string
	total int
}

func countJobsBySite(jobs []models.Job) []siteCount {
	siteTotals := make(map[string]int, len(jobs))
	for _, job := range jobs {
		site := string(job.Website)
		if site == "" {
			site = "unknown"
		}
		siteTotals[site]++
	}

	counts := make([]siteCount, 0, len(siteTotals))
	for site, total := range siteTotals {
		counts = append(counts, siteCount{site: site, total: total})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].site < counts[j].site
	})
	return counts
}

func writeJobsFile(path string, jobs []models.Job, format export.Format) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return export.WriteJobs(file, jobs, format, export.WriteOptions{})
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}

func startScrapeIndicator(ctx *Context) func() {
	if ctx == nil || ctx.Err == nil || ctx.UI == nil {
		return nil
	}
	if !isTTY(ctx.Err) {
		return nil
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		index := 0

		for {
			select {
			case <-done:
				fmt.Fprint(ctx.Err, "\r\033[2K")
				return
			case <-ticker.C:
				seconds := int(time.Since(start).Seconds())
				frame := frames[index%len(frames)]
				fmt.Fprintf(ctx.Err, "\r\033[2KScraping... %ds %s", seconds, frame)
				index++
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}
