// Package report runs the due-diligence pipeline: collect official data
// about a company, synthesize it into a structured report and publish
// progress through the job store.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/cache"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector/dinum"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/jobs"
	"github.com/HumbledDS/dd-intelligence-assistant/pkg/models"
)

// Collectors groups the external sources the pipeline draws from, in the
// roles it uses them for.
type Collectors struct {
	Identity         collector.Client // primary identity source
	IdentityFallback collector.Client // used when the primary fails
	Financial        collector.Client
	Notices          collector.Client
	News             collector.NewsClient
}

// Ingestor is the post-completion embedding hook. Failures are logged and
// swallowed, never affecting the job outcome.
type Ingestor interface {
	IngestReport(ctx context.Context, siren string, sections []models.Section) error
}

// Service accepts report requests, serves cache hits synchronously and runs
// the pipeline asynchronously for misses.
type Service struct {
	jobs         *jobs.Store
	cache        *cache.Tiered
	collectors   Collectors
	synthesizer  models.Synthesizer
	ingestor     Ingestor
	phaseTimeout time.Duration
	synthTimeout time.Duration
}

func NewService(
	jobStore *jobs.Store,
	tiered *cache.Tiered,
	collectors Collectors,
	synthesizer models.Synthesizer,
	ingestor Ingestor,
	phaseTimeout, synthTimeout time.Duration,
) *Service {
	if phaseTimeout <= 0 {
		phaseTimeout = 20 * time.Second
	}
	if synthTimeout <= 0 {
		synthTimeout = 60 * time.Second
	}
	return &Service{
		jobs:         jobStore,
		cache:        tiered,
		collectors:   collectors,
		synthesizer:  synthesizer,
		ingestor:     ingestor,
		phaseTimeout: phaseTimeout,
		synthTimeout: synthTimeout,
	}
}

// Submit starts report generation for siren. A cache hit returns a completed
// job immediately, with cached true; that job is synthesized on the fly and
// never enters the job store. On a miss the returned job is queued and the
// pipeline runs in the background. Two concurrent misses for the same siren
// both run; last completion wins in the cache.
func (s *Service) Submit(ctx context.Context, siren string, variant models.Variant) (models.Job, bool, error) {
	if !models.ValidVariant(variant) {
		return models.Job{}, false, fmt.Errorf("unknown report variant %q", variant)
	}

	key := cache.ReportKey(siren, string(variant))
	if raw, ok := s.cache.Lookup(ctx, key); ok {
		var job models.Job
		if err := json.Unmarshal(raw, &job); err == nil {
			slog.Info("report served from cache", "siren", siren, "variant", variant)
			return job, true, nil
		}
		// Poisoned entry; drop it and regenerate.
		s.cache.Invalidate(ctx, key)
	}

	job := s.jobs.Create(siren, variant)
	go s.runPipeline(job.ID, siren, variant)
	return job, false, nil
}

// runPipeline executes the phases for one job. It owns all writes to the job
// and always leaves it in a terminal state.
func (s *Service) runPipeline(jobID uuid.UUID, siren string, variant models.Variant) {
	ctx := context.Background()
	log := slog.With("job_id", jobID.String(), "siren", siren, "variant", variant)

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline panicked", "panic", r)
			_ = s.jobs.Fail(jobID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := s.jobs.MarkProcessing(jobID); err != nil {
		log.Error("mark processing failed", "error", err)
		return
	}
	start := time.Now()

	// Phase 1: identity. The only critical collection phase.
	identity, err := s.fetch(ctx, s.collectors.Identity, siren)
	if err != nil {
		log.Warn("primary identity source failed, trying fallback", "error", err)
		identity, err = s.fetch(ctx, s.collectors.IdentityFallback, siren)
	}
	if err != nil {
		log.Error("identity phase failed", "error", err)
		_ = s.jobs.Fail(jobID, fmt.Sprintf("identity collection failed: %v", err))
		return
	}
	if !collector.EmptyPayload(identity) {
		if _, err := s.jobs.AppendSection(jobID, models.SectionIdentity, identity, ""); err != nil {
			log.Error("append identity section failed", "error", err)
			return
		}
	}
	companyName := dinum.CompanyName(identity, siren)

	// Phase 2: financial filings and legal notices, fetched concurrently.
	// Sections are appended only after both finish so the order is stable.
	var financial, notices json.RawMessage
	var financialErr, noticesErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		financial, financialErr = s.fetch(gctx, s.collectors.Financial, siren)
		return nil
	})
	g.Go(func() error {
		notices, noticesErr = s.fetch(gctx, s.collectors.Notices, siren)
		return nil
	})
	_ = g.Wait()

	s.appendCollected(log, jobID, models.SectionLegalFinancial, financial, financialErr)
	s.appendCollected(log, jobID, models.SectionPublicNotices, notices, noticesErr)

	// Phase 3: press coverage. Skipped for quick reports.
	if variant != models.VariantQuick {
		fetchCtx, cancel := context.WithTimeout(ctx, s.phaseTimeout)
		news, err := s.collectors.News.FetchByName(fetchCtx, companyName)
		cancel()
		s.appendCollected(log, jobID, models.SectionReputation, news, err)
	}

	// Phase 4: synthesis. Skipped for quick reports; a failure here fails
	// the job because a report without a verdict is not a report.
	if variant != models.VariantQuick {
		if err := s.synthesize(ctx, jobID, siren, variant); err != nil {
			log.Error("synthesis phase failed", "error", err)
			_ = s.jobs.Fail(jobID, fmt.Sprintf("synthesis failed: %v", err))
			return
		}
	}

	if err := s.jobs.Complete(jobID); err != nil {
		log.Error("complete job failed", "error", err)
		return
	}
	log.Info("pipeline completed", "duration_ms", time.Since(start).Milliseconds())

	final, ok := s.jobs.Get(jobID)
	if !ok {
		return
	}
	s.embedAndCache(ctx, final)
}

// fetch runs one collector call under the phase timeout.
func (s *Service) fetch(ctx context.Context, client collector.Client, siren string) (json.RawMessage, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.phaseTimeout)
	defer cancel()
	return client.Fetch(fetchCtx, siren)
}

// appendCollected records one non-critical phase result: a data section on
// success, an error-flagged section on failure, nothing for empty payloads.
func (s *Service) appendCollected(log *slog.Logger, jobID uuid.UUID, kind string, payload json.RawMessage, err error) {
	if err != nil {
		log.Warn("collection phase degraded", "section", kind, "error", err)
		if _, appendErr := s.jobs.AppendSection(jobID, kind, nil, err.Error()); appendErr != nil {
			log.Error("append error section failed", "section", kind, "error", appendErr)
		}
		return
	}
	if collector.EmptyPayload(payload) {
		return
	}
	if _, err := s.jobs.AppendSection(jobID, kind, payload, ""); err != nil {
		log.Error("append section failed", "section", kind, "error", err)
	}
}

func (s *Service) synthesize(ctx context.Context, jobID uuid.UUID, siren string, variant models.Variant) error {
	job, ok := s.jobs.Get(jobID)
	if !ok {
		return errors.New("job disappeared before synthesis")
	}

	genCtx, cancel := context.WithTimeout(ctx, s.synthTimeout)
	defer cancel()
	synthesis, err := s.synthesizer.Generate(genCtx, models.SynthesisRequest{
		Siren:    siren,
		Variant:  variant,
		Sections: job.Sections,
	})
	if err != nil {
		return err
	}

	synthesis.Recommendation = models.NormalizeRecommendation(synthesis.Recommendation)
	synthesis.RedFlags = mergeRedFlags(synthesis.RedFlags, ScanRedFlags(job.Sections))
	synthesis.ConfidenceScore = clamp01(synthesis.ConfidenceScore)

	payload, err := json.Marshal(synthesis)
	if err != nil {
		return fmt.Errorf("encode synthesis: %w", err)
	}
	_, err = s.jobs.AppendSection(jobID, models.SectionSynthesis, payload, "")
	return err
}

// embedAndCache runs the best-effort post-completion steps. Neither failure
// changes the job outcome.
func (s *Service) embedAndCache(ctx context.Context, job models.Job) {
	if s.ingestor != nil {
		if err := s.ingestor.IngestReport(ctx, job.Siren, job.Sections); err != nil {
			slog.Warn("report embedding skipped", "siren", job.Siren, "error", err)
		}
	}

	raw, err := json.Marshal(job)
	if err != nil {
		slog.Error("encode completed job", "siren", job.Siren, "error", err)
		return
	}
	key := cache.ReportKey(job.Siren, string(job.Variant))
	s.cache.Store(ctx, key, raw, cache.TTLFor(cache.SourceReport))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
