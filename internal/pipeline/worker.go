package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/pagenav/internal/doctree"
	"github.com/dgallion1/pagenav/internal/dom"
	"github.com/dgallion1/pagenav/internal/nav"
	"github.com/dgallion1/pagenav/internal/parser"
)

// ErrNoPanel means no in-page nav could be built into the document.
var ErrNoPanel = errors.New("no in-page nav built")

// Result is a rendered page with its navigation outline.
type Result struct {
	HTML     []byte
	Outline  *doctree.Outline
	Sections int
	Panels   int
	ETag     string
}

// Worker renders documents: parse, build the in-page nav statically, then
// serialize the page.
type Worker struct {
	log      *slog.Logger
	shell    parser.Shell
	navCfg   nav.Config
	fallback bool
	stats    *RenderStats
}

func NewWorker(log *slog.Logger, shell parser.Shell, navCfg nav.Config, pdfFallback bool) *Worker {
	return &Worker{
		log:      log,
		shell:    shell,
		navCfg:   navCfg,
		fallback: pdfFallback,
		stats:    NewRenderStats(time.Hour),
	}
}

// Stats reports render outcomes of the last hour.
func (w *Worker) Stats() StatsSnapshot { return w.stats.Snapshot() }

// Process runs the render pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	doc, err := w.Parse(job.FileData(), job.Filename)
	job.releaseFileData()
	if err != nil {
		log.Error("parse failed", "error", err)
		w.stats.Record(time.Since(start), err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if err := ctx.Err(); err != nil {
		w.stats.Record(time.Since(start), err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Build the panels and render.
	job.SetStatus(StatusBuilding, "building")
	res, err := w.build(doc, job.Title, job.Filename, func(e error) {
		job.AddError(e.Error())
	})
	if err != nil {
		log.Error("build failed", "error", err)
		w.stats.Record(time.Since(start), err)
		job.AddError(fmt.Sprintf("build: %s", err))
		job.SetStatus(StatusFailed, "building")
		return
	}
	w.stats.Record(time.Since(start), nil)
	job.SetCounts(res.Sections, res.Panels)
	job.SetResult(res)
	log.Info("render complete", "sections", res.Sections, "panels", res.Panels)
	job.SetStatus(StatusCompleted, "done")
}

// Render is the synchronous single-document path.
func (w *Worker) Render(ctx context.Context, data []byte, filename, title string) (res *Result, err error) {
	defer func(start time.Time) { w.stats.Record(time.Since(start), err) }(time.Now())

	doc, err := w.Parse(data, filename)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return w.build(doc, title, filename, func(e error) {
		w.log.Warn("nav container skipped", "filename", filename, "error", e)
	})
}

// Parse converts an upload into a page carrying the nav shell.
func (w *Worker) Parse(data []byte, filename string) (*dom.Document, error) {
	p, err := parser.ForFile(filename, w.shell)
	if err != nil {
		return nil, err
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = w.fallback
	}
	return p.Parse(bytes.NewReader(data), filename)
}

// build initializes every nav container of doc. Containers that fail are
// reported through skipped; the build fails only when none succeeds.
func (w *Worker) build(doc *dom.Document, title, filename string, skipped func(error)) (*Result, error) {
	comp := nav.New(doc, nil, nil, nav.WithConfig(w.navCfg), nav.WithLogger(w.log))
	panels, err := comp.Init(nil)
	if len(panels) == 0 {
		if err == nil {
			err = ErrNoPanel
		}
		return nil, err
	}
	if err != nil {
		skipped(err)
	}

	if title == "" {
		title = pageTitle(doc, filename)
	}
	sections := panels[0].Sections

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return &Result{
		HTML:     buf.Bytes(),
		Outline:  doctree.FromSections(title, sections),
		Sections: len(sections),
		Panels:   len(panels),
		ETag:     ContentHashHex(buf.Bytes()),
	}, nil
}

// Outline parses a document and reports its sections without building a
// panel.
func (w *Worker) Outline(data []byte, filename, title string) (*doctree.Outline, error) {
	doc, err := w.Parse(data, filename)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if title == "" {
		title = pageTitle(doc, filename)
	}
	return doctree.FromSections(title, nav.Scan(doc, w.navCfg)), nil
}

func pageTitle(doc *dom.Document, filename string) string {
	if t := doc.Query("title"); t != nil {
		if s := dom.TextContent(t); s != "" {
			return s
		}
	}
	return filename
}
