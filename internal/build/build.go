package build

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gerunddev/roampages/internal/config"
	"github.com/gerunddev/roampages/internal/diff"
	"github.com/gerunddev/roampages/internal/graph"
	"github.com/gerunddev/roampages/internal/highlight"
	"github.com/gerunddev/roampages/internal/logger"
	"github.com/gerunddev/roampages/internal/pages"
	"github.com/gerunddev/roampages/internal/render"
	"github.com/gerunddev/roampages/internal/state"
	"github.com/gerunddev/roampages/internal/template"
)

// Files written next to the pages
const (
	ManifestFile  = "manifest.json"
	HighlightFile = "highlight.css"
)

// Builder renders the selected pages of a graph into the output directory
type Builder struct {
	config   *config.Config
	graph    *graph.Graph
	state    *state.State
	log      *logger.Logger
	progress func(Event)
	dryRun   bool
}

// NewBuilder creates a new builder instance
func NewBuilder(cfg *config.Config, g *graph.Graph, st *state.State) *Builder {
	return &Builder{
		config: cfg,
		graph:  g,
		state:  st,
		log:    logger.Discard(),
	}
}

// SetLogger sets the logger used during builds
func (b *Builder) SetLogger(l *logger.Logger) {
	b.log = l
}

// SetProgress sets a callback receiving build events. Events are delivered
// from a single goroutine.
func (b *Builder) SetProgress(fn func(Event)) {
	b.progress = fn
}

// SetDryRun makes Build compute diffs against the output instead of writing
func (b *Builder) SetDryRun(dryRun bool) {
	b.dryRun = dryRun
}

// ManifestEntry describes one page in manifest.json
type ManifestEntry struct {
	Title string `json:"title"`
	UID   string `json:"uid"`
}

// Result represents the result of a build
type Result struct {
	Pages     int
	Written   int
	Unchanged int
	Pruned    []string
	Excluded  []string
	Errors    []error
	Bytes     int64

	// Diffs holds unified diffs keyed by output path in a dry run
	Diffs map[string]string

	Manifest  map[string]ManifestEntry
	StartTime time.Time
	EndTime   time.Time
}

// String returns a human-readable summary of the build result
func (r *Result) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	return fmt.Sprintf(
		"Build complete: %d pages, %d written, %d unchanged, %d pruned, %d errors (took %v)",
		r.Pages,
		r.Written,
		r.Unchanged,
		len(r.Pruned),
		len(r.Errors),
		duration.Round(time.Millisecond),
	)
}

// pageJob carries everything a worker needs to produce one page
type pageJob struct {
	ref  pages.Ref
	path string
}

type pageResult struct {
	job    pageJob
	status Status
	bytes  int
	diff   string
	err    error
}

// Build renders and writes every selected page
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	result := &Result{
		StartTime: time.Now(),
		Diffs:     make(map[string]string),
		Manifest:  make(map[string]ManifestEntry),
	}
	b.log.BuildStarted(b.config.Graph, b.config.Output)

	sel, err := pages.Select(b.graph, b.config, b.log)
	if err != nil {
		return nil, err
	}
	result.Excluded = sel.Excluded

	hl := highlight.New(b.config.HighlightStyle)
	renderer := render.New(b.graph, sel, hl, render.OptionsFromConfig(b.config))
	tmpl, err := template.New(b.config.Format, b.config.Template)
	if err != nil {
		return nil, err
	}

	outDir, err := filepath.Abs(b.config.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if !b.dryRun {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var jobs []pageJob
	for _, ref := range sel.Refs() {
		path, err := outputPath(outDir, ref.Slug, b.config.Extension)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", ref.Title, err))
			b.log.PageError(ref.Title, err)
			continue
		}
		jobs = append(jobs, pageJob{ref: ref, path: path})
	}
	result.Pages = len(jobs)
	b.emit(Event{Kind: EventStarted, Total: len(jobs)})

	written := make(map[string]bool)
	done := 0
	for res := range b.run(ctx, jobs, func(job pageJob) pageResult {
		return b.page(job, sel, renderer, tmpl)
	}) {
		done++
		ref := res.job.ref
		switch res.status {
		case StatusFailed:
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", ref.Title, res.err))
			b.log.PageError(ref.Title, res.err)
		case StatusWritten:
			result.Written++
			result.Bytes += int64(res.bytes)
			b.log.PageWritten(ref.Title, res.job.path)
		case StatusUnchanged:
			result.Unchanged++
			b.log.PageUnchanged(ref.Title, res.job.path)
		case StatusDiff:
			if res.diff != "" {
				result.Diffs[res.job.path] = res.diff
			} else {
				result.Unchanged++
			}
		}
		if res.status != StatusFailed {
			written[res.job.path] = true
			result.Manifest[ref.Slug] = ManifestEntry{Title: ref.Title, UID: ref.UID}
		}
		b.emit(Event{Kind: EventPage, Title: ref.Title, Path: res.job.path, Status: res.status, Err: res.err, Done: done, Total: len(jobs)})
	}

	if err := ctx.Err(); err != nil {
		result.EndTime = time.Now()
		return result, fmt.Errorf("build cancelled: %w", err)
	}

	if !b.dryRun {
		if err := b.writeSupportFiles(outDir, result.Manifest, hl); err != nil {
			return nil, err
		}
	}

	if b.config.Prune {
		result.Pruned = b.prune(outDir, written)
	}

	if !b.dryRun && b.config.StateFile != "" {
		if err := b.state.Save(b.config.StateFile); err != nil {
			b.log.StateError("save", err)
			result.Errors = append(result.Errors, err)
		}
	}

	result.EndTime = time.Now()
	b.log.BuildCompleted(result.Pages, result.Written, len(result.Errors), result.EndTime.Sub(result.StartTime))
	b.emit(Event{Kind: EventDone, Done: done, Total: len(jobs)})
	return result, nil
}

// run processes jobs on a pool of workers and streams the results. Jobs not
// yet started when ctx is cancelled are dropped.
func (b *Builder) run(ctx context.Context, jobs []pageJob, fn func(pageJob) pageResult) <-chan pageResult {
	workers := b.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, max(len(jobs), 1))

	queue := make(chan pageJob)
	results := make(chan pageResult)

	go func() {
		defer close(queue)
		for _, job := range jobs {
			if ctx.Err() != nil {
				return
			}
			select {
			case queue <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				results <- fn(job)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// page renders one page and writes it, or diffs it in a dry run
func (b *Builder) page(job pageJob, sel *pages.Selection, r *render.Renderer, tmpl *template.Template) pageResult {
	res := pageResult{job: job, status: StatusFailed}

	body, err := r.RenderPage(job.ref.ID)
	if err != nil {
		res.err = err
		return res
	}

	page, _ := b.graph.Get(job.ref.ID)
	data, err := tmpl.Render(template.Args{
		Title:       job.ref.Title,
		Body:        body,
		Tags:        pages.Tags(page, sel.TagsAttrUID),
		CreatedTime: page.CreateTime,
		EditedTime:  page.EditTime,
	})
	if err != nil {
		res.err = err
		return res
	}

	if b.dryRun {
		d, err := diff.File(job.path, data)
		if err != nil {
			res.err = err
			return res
		}
		res.status, res.diff = StatusDiff, d
		return res
	}

	if b.state.Unchanged(job.path, data) {
		res.status = StatusUnchanged
		return res
	}

	if err := os.MkdirAll(filepath.Dir(job.path), 0755); err != nil {
		res.err = fmt.Errorf("failed to create directory: %w", err)
		return res
	}
	if err := os.WriteFile(job.path, data, 0644); err != nil {
		res.err = fmt.Errorf("failed to write page: %w", err)
		return res
	}
	b.state.Update(job.path, job.ref.Title, job.ref.UID, data)

	res.status, res.bytes = StatusWritten, len(data)
	return res
}

func (b *Builder) writeSupportFiles(outDir string, manifest map[string]ManifestEntry, hl *highlight.Highlighter) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, ManifestFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	if b.config.Format != config.FormatHTML {
		return nil
	}
	css, err := hl.CSS()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, HighlightFile), []byte(css), 0644); err != nil {
		return fmt.Errorf("failed to write highlight css: %w", err)
	}
	return nil
}

// prune removes pages written by earlier builds that this build did not
// produce. Only paths inside outDir are touched.
func (b *Builder) prune(outDir string, keep map[string]bool) []string {
	var pruned []string
	for _, path := range b.state.Paths() {
		if keep[path] || !within(outDir, path) {
			continue
		}
		pruned = append(pruned, path)
		if b.dryRun {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			b.log.Warn("failed to prune page", "path", path, "error", err)
			continue
		}
		b.state.Remove(path)
		b.log.PagePruned(path)
	}
	return pruned
}

// outputPath returns where a page with the given slug is written
func outputPath(outDir, slug, ext string) (string, error) {
	path := filepath.Join(outDir, slug+"."+ext)
	if !within(outDir, path) {
		return "", fmt.Errorf("slug %q points outside the output directory", slug)
	}
	return path, nil
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (b *Builder) emit(e Event) {
	if b.progress != nil {
		b.progress(e)
	}
}
