package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/policyaudit/internal/analyzer"
	"github.com/dgallion1/policyaudit/internal/parser"
	"github.com/dgallion1/policyaudit/internal/policy"
	"github.com/dgallion1/policyaudit/internal/report"
)

// Worker processes a single analysis job.
type Worker struct {
	analyzer   *analyzer.Analyzer
	log        *slog.Logger
	parserOpts parser.Options
}

func NewWorker(a *analyzer.Analyzer, log *slog.Logger, parserOpts parser.Options) *Worker {
	return &Worker{
		analyzer:   a,
		log:        log,
		parserOpts: parserOpts,
	}
}

// Process runs the full analysis pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.parserOpts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	text, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.SetContentHash(ContentHashHex([]byte(text)))

	// An unreadable document still produces a report: every question
	// resolves to the fallback answer.
	job.SetSections(len(policy.Segment(text)))

	// Phase 2: Analyze. The job ID namespaces this run's index entries.
	job.SetStatus(StatusAnalyzing, "analyzing")
	rep, err := w.analyzer.Analyze(ctx, job.ID, text)
	if err != nil {
		log.Error("analysis failed", "error", err)
		job.AddError(fmt.Sprintf("analyze: %s", err))
		job.SetStatus(StatusFailed, "analyzing")
		return
	}
	job.SetReport(rep)

	// Phase 3: Render the PDF artifact.
	job.SetStatus(StatusRendering, "rendering")
	var pdf bytes.Buffer
	if err := report.RenderPDF(&pdf, rep); err != nil {
		log.Error("render failed", "error", err)
		job.AddError(fmt.Sprintf("render: %s", err))
		job.SetStatus(StatusFailed, "rendering")
		return
	}
	job.SetPDF(pdf.Bytes())

	log.Info("analysis complete", "answers", len(rep.Answers), "pdf_bytes", pdf.Len())
	job.SetStatus(StatusCompleted, "done")
}
