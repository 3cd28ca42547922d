// Command analyze runs a one-shot compliance analysis of a single policy
// document and writes the report to stdout or a PDF file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/policyaudit/internal/analyzer"
	"github.com/dgallion1/policyaudit/internal/embedding"
	"github.com/dgallion1/policyaudit/internal/parser"
	"github.com/dgallion1/policyaudit/internal/pipeline"
	"github.com/dgallion1/policyaudit/internal/qa"
	"github.com/dgallion1/policyaudit/internal/report"
	"github.com/dgallion1/policyaudit/internal/vectorstore"
)

func main() {
	filePath := flag.String("file", "", "Policy document to analyze (.pdf, .txt, .md, .html, .docx)")
	embedModel := flag.String("embed-model", "all-minilm", "Ollama model for embeddings")
	embedDim := flag.Int("embed-dim", 384, "Embedding vector dimension")
	extractModel := flag.String("extract-model", "llama3.2", "Ollama model for answer extraction")
	pgDSN := flag.String("pg", "", "PostgreSQL DSN (empty uses the in-memory store)")
	topK := flag.Int("k", 3, "Candidate sections retrieved per question")
	pdfFallback := flag.Bool("pdftotext-fallback", true, "Shell out to pdftotext when the native PDF reader finds no text")
	pdfOut := flag.String("pdf", "", "Write the report as a PDF to this path")
	jsonOut := flag.Bool("json", false, "Print the report as JSON instead of plain text")
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	p, err := parser.ForFile(*filePath, parser.Options{PDFFallbackPdftotext: *pdfFallback})
	if err != nil {
		log.Fatalf("Unsupported document: %v", err)
	}
	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("Failed to open document: %v", err)
	}
	text, err := p.Parse(f, *filePath)
	f.Close()
	if err != nil {
		log.Fatalf("Failed to parse document: %v", err)
	}

	var store vectorstore.Store
	if *pgDSN != "" {
		pg, err := vectorstore.NewPostgresStore(ctx, *pgDSN, *embedDim)
		if err != nil {
			log.Fatalf("Failed to connect to postgres: %v", err)
		}
		if err := pg.Initialize(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		defer pg.Close()
		store = pg
	} else {
		store = vectorstore.NewMemoryStore(*embedDim)
	}

	embedder := embedding.NewOllamaEmbedder(*embedModel, *embedDim)
	extractor := qa.NewOllamaExtractor(*extractModel, 60*time.Second, nil)
	anl := analyzer.New(embedder, store, extractor, logger, analyzer.Config{TopK: *topK})

	start := time.Now()
	rep, err := anl.Analyze(ctx, pipeline.NewJobID(), text)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if *pdfOut != "" {
		out, err := os.Create(*pdfOut)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *pdfOut, err)
		}
		if err := report.RenderPDF(out, rep); err != nil {
			out.Close()
			log.Fatalf("Failed to render PDF: %v", err)
		}
		out.Close()
		fmt.Printf("Report written to %s (%.1fs)\n", *pdfOut, time.Since(start).Seconds())
		return
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
		return
	}

	fmt.Println("Compliance Report")
	fmt.Println()
	for _, rec := range rep.Answers {
		fmt.Println(rec.Question)
		fmt.Printf("  Answer: %s\n\n", rec.Answer)
	}
}
