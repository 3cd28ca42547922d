// Package analyzer runs the compliance analysis pipeline: segment a policy
// document, index the sections in a vector store, then answer each catalog
// question from the most relevant sections.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/policyaudit/internal/embedding"
	"github.com/dgallion1/policyaudit/internal/policy"
	"github.com/dgallion1/policyaudit/internal/qa"
	"github.com/dgallion1/policyaudit/internal/vectorstore"
)

// Config bounds the analyzer's concurrency and timeouts.
type Config struct {
	TopK                   int
	MaxConcurrentEmbed     int
	MaxConcurrentQuestions int
	QuestionTimeout        time.Duration
}

func (c Config) withDefaults() Config {
	if c.TopK <= 0 {
		c.TopK = 3
	}
	if c.MaxConcurrentEmbed <= 0 {
		c.MaxConcurrentEmbed = 4
	}
	if c.MaxConcurrentQuestions <= 0 {
		c.MaxConcurrentQuestions = 2
	}
	if c.QuestionTimeout <= 0 {
		c.QuestionTimeout = 2 * time.Minute
	}
	return c
}

// Analyzer wires the embedder, vector store and extractor into one pipeline.
type Analyzer struct {
	embedder  embedding.Embedder
	store     vectorstore.Store
	extractor qa.Extractor
	log       *slog.Logger
	cfg       Config
}

func New(embedder embedding.Embedder, store vectorstore.Store, extractor qa.Extractor, log *slog.Logger, cfg Config) *Analyzer {
	return &Analyzer{
		embedder:  embedder,
		store:     store,
		extractor: extractor,
		log:       log,
		cfg:       cfg.withDefaults(),
	}
}

// Analyze runs the full pipeline over one document. runID namespaces the
// vector store entries for this call; entries are removed before returning.
// Embedding and store failures abort the analysis: a broken model or store
// must be distinguishable from a policy that is genuinely silent. Only
// per-question timeouts and extraction failures degrade to the fallback
// answer.
func (a *Analyzer) Analyze(ctx context.Context, runID, document string) (policy.Report, error) {
	log := a.log.With("run_id", runID)

	sections := policy.Segment(document)
	log.Info("segmented document", "sections", len(sections))

	if len(sections) > 0 {
		if err := a.indexSections(ctx, runID, sections); err != nil {
			return policy.Report{}, fmt.Errorf("index sections: %w", err)
		}
		defer func() {
			if err := a.store.DeleteRun(context.WithoutCancel(ctx), runID); err != nil {
				log.Warn("run cleanup failed", "error", err)
			}
		}()
	}

	// Questions are independent of each other, so they run concurrently
	// under a semaphore. Results land in their catalog slot, keeping the
	// report in catalog order.
	answers := make([]policy.AnswerRecord, len(policy.Questions))
	errs := make([]error, len(policy.Questions))
	sem := make(chan struct{}, a.cfg.MaxConcurrentQuestions)
	done := make(chan int, len(policy.Questions))

	for i, question := range policy.Questions {
		sem <- struct{}{}
		go func(i int, question string) {
			defer func() { <-sem }()
			answer := policy.SentinelAnswer
			if len(sections) > 0 {
				got, ok, err := a.answerQuestion(ctx, runID, question, sections)
				if err != nil {
					errs[i] = fmt.Errorf("question %d: %w", i, err)
				} else if ok {
					answer = got
				}
			}
			answers[i] = policy.AnswerRecord{Question: question, Answer: answer}
			done <- i
		}(i, question)
	}
	for range policy.Questions {
		<-done
	}
	for _, err := range errs {
		if err != nil {
			return policy.Report{}, err
		}
	}

	return policy.Report{Answers: answers}, nil
}

// indexSections embeds every section and writes it to the store under
// (runID, section index), with bounded concurrency. Any failure is fatal.
func (a *Analyzer) indexSections(ctx context.Context, runID string, sections []policy.Section) error {
	type indexResult struct {
		idx int
		err error
	}
	results := make(chan indexResult, len(sections))
	sem := make(chan struct{}, a.cfg.MaxConcurrentEmbed)

	for _, section := range sections {
		sem <- struct{}{}
		go func(s policy.Section) {
			defer func() { <-sem }()
			vec, err := a.embedder.Embed(ctx, s.Text)
			if err != nil {
				results <- indexResult{idx: s.Index, err: fmt.Errorf("embed section %d: %w", s.Index, err)}
				return
			}
			if err := a.store.Upsert(ctx, runID, s.Index, vec); err != nil {
				results <- indexResult{idx: s.Index, err: fmt.Errorf("store section %d: %w", s.Index, err)}
				return
			}
			results <- indexResult{idx: s.Index}
		}(section)
	}

	var firstErr error
	for range sections {
		r := <-results
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
	}
	return firstErr
}

// answerQuestion retrieves the top sections for one question and scans them
// in rank order, returning the first validated answer not already produced
// by an earlier candidate of the same question. ok=false means no section
// yields one. Embedding and store failures are returned as errors; only a
// question timeout degrades to a silent no-answer.
func (a *Analyzer) answerQuestion(ctx context.Context, runID, question string, sections []policy.Section) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.QuestionTimeout)
	defer cancel()

	log := a.log.With("run_id", runID, "question", question)

	qvec, err := a.embedder.Embed(ctx, question)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("question timed out", "stage", "embed", "error", err)
			return "", false, nil
		}
		return "", false, fmt.Errorf("embed question: %w", err)
	}

	candidates, err := a.store.QueryTopK(ctx, runID, qvec, a.cfg.TopK)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("question timed out", "stage", "retrieve", "error", err)
			return "", false, nil
		}
		return "", false, fmt.Errorf("retrieve candidates: %w", err)
	}

	// seen holds answer text already produced and rejected by an earlier
	// candidate of this question, so identical spans are not retried.
	seen := make(map[string]struct{})
	for _, cand := range candidates {
		if cand.SectionIndex < 0 || cand.SectionIndex >= len(sections) {
			log.Warn("candidate out of range", "section_index", cand.SectionIndex)
			continue
		}
		passage := sections[cand.SectionIndex].Text

		ans, err := a.extract(ctx, question, passage)
		if err != nil {
			log.Warn("extraction failed", "section_index", cand.SectionIndex, "error", err)
			continue
		}
		if _, dup := seen[ans.Text]; dup {
			continue
		}

		span, ok := qa.ValidateAnswer(ans.Text, passage)
		if !ok {
			if ans.Text != "" {
				seen[ans.Text] = struct{}{}
			}
			continue
		}
		log.Info("answer found", "section_index", cand.SectionIndex, "score", cand.Score)
		return span, true, nil
	}
	return "", false, nil
}

// extract calls the extractor, retrying transient failures with backoff.
func (a *Analyzer) extract(ctx context.Context, question, passage string) (qa.Answer, error) {
	var lastErr error
	for attempt := 0; attempt < extractRetries; attempt++ {
		ans, err := a.extractor.Extract(ctx, question, passage)
		if err == nil {
			return ans, nil
		}
		lastErr = err
		if !isRetryable(err) {
			break
		}
		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return qa.Answer{}, ctx.Err()
		}
	}
	return qa.Answer{}, lastErr
}
