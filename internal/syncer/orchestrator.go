// Package syncer runs the catalog sync paths: scraped listing pages, Product Hunt and the
// trending seed list.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/pruthviraj-chavan/happytools1/internal/dedupe"
	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/extractor"
	"github.com/pruthviraj-chavan/happytools1/internal/fetcher"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
	"github.com/pruthviraj-chavan/happytools1/internal/metrics"
	"github.com/pruthviraj-chavan/happytools1/internal/normalizer"
	"github.com/pruthviraj-chavan/happytools1/internal/producthunt"
	"github.com/pruthviraj-chavan/happytools1/internal/sources"
)

const defaultDelay = 2 * time.Second

// PageFetcher downloads one listing page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.RawPage, error)
}

// CandidateExtractor turns page markup into candidates.
type CandidateExtractor interface {
	Extract(body []byte, pageURL, category string) iter.Seq[domain.Candidate]
}

// PostSource supplies Product Hunt posts.
type PostSource interface {
	Configured() bool
	FetchPosts(ctx context.Context) ([]producthunt.Post, error)
}

// Store is the part of the catalog the sync paths write to.
type Store interface {
	dedupe.Lookup
	Insert(ctx context.Context, tool *domain.Tool) error
	Update(ctx context.Context, tool *domain.Tool) error
}

// RunRecorder persists run history.
type RunRecorder interface {
	Start(ctx context.Context, run *domain.SyncRun) error
	Finish(ctx context.Context, run *domain.SyncRun) error
}

// EventPublisher announces finished runs.
type EventPublisher interface {
	PublishRun(ctx context.Context, run *domain.SyncRun) error
}

// Config tunes the scraped path.
type Config struct {
	// Delay is the pause between the end of one target and the start of the next.
	Delay time.Duration `yaml:"delay"`
	// FetchAttempts above 1 retries timeouts, 429 and 5xx responses.
	FetchAttempts int `yaml:"fetch_attempts"`
	// PlaceholderOnEmpty emits one "<Category> AI Tool" record for a target that failed or
	// yielded nothing.
	PlaceholderOnEmpty bool `yaml:"placeholder_on_empty"`
}

// Deps are the collaborators of an Orchestrator. Store is required; Fetcher is required
// for the scraped path and Posts for the Product Hunt path.
type Deps struct {
	Fetcher    PageFetcher
	Extractor  CandidateExtractor
	Normalizer *normalizer.Normalizer
	Classifier *producthunt.Classifier
	Posts      PostSource
	Store      Store
	Targets    []domain.Target
	Runs       RunRecorder
	Events     EventPublisher
	Metrics    *metrics.Metrics
	Clock      func() time.Time
}

// Orchestrator sequences fetch, extract, normalize, dedupe and reconcile for each sync path.
// Steps inside one invocation are strictly sequential; separate invocations may overlap and
// only meet at the store.
type Orchestrator struct {
	cfg        Config
	fetcher    PageFetcher
	extractor  CandidateExtractor
	normalizer *normalizer.Normalizer
	classifier *producthunt.Classifier
	posts      PostSource
	store      Store
	targets    []domain.Target
	runs       RunRecorder
	events     EventPublisher
	metrics    *metrics.Metrics
	now        func() time.Time
	log        logger.Logger
}

// New creates an Orchestrator, filling unset optional dependencies with defaults.
func New(deps Deps, cfg Config, log logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if cfg.FetchAttempts <= 0 {
		cfg.FetchAttempts = 1
	}
	if deps.Clock == nil {
		deps.Clock = func() time.Time { return time.Now().UTC() }
	}
	if deps.Extractor == nil {
		deps.Extractor = extractor.New(extractor.WithLogger(log))
	}
	if deps.Normalizer == nil {
		deps.Normalizer = normalizer.New(normalizer.WithClock(deps.Clock))
	}
	if deps.Classifier == nil {
		deps.Classifier = producthunt.NewClassifier(producthunt.DefaultKeywords)
	}
	if len(deps.Targets) == 0 {
		deps.Targets = sources.DefaultTargets()
	}

	return &Orchestrator{
		cfg:        cfg,
		fetcher:    deps.Fetcher,
		extractor:  deps.Extractor,
		normalizer: deps.Normalizer,
		classifier: deps.Classifier,
		posts:      deps.Posts,
		store:      deps.Store,
		targets:    deps.Targets,
		runs:       deps.Runs,
		events:     deps.Events,
		metrics:    deps.Metrics,
		now:        deps.Clock,
		log:        log,
	}
}

// DefaultConfig is a 2s delay, a single fetch attempt and no placeholders.
func DefaultConfig() Config {
	return Config{Delay: defaultDelay, FetchAttempts: 1}
}

// Targets returns the configured scrape targets.
func (o *Orchestrator) Targets() []domain.Target {
	return o.targets
}

// SyncScrapedTargets syncs every configured target.
func (o *Orchestrator) SyncScrapedTargets(ctx context.Context) domain.SyncResult {
	return o.Run(ctx, domain.RunKindScraped).Result()
}

// SyncProductHunt syncs the newest Product Hunt posts that look like AI tools.
func (o *Orchestrator) SyncProductHunt(ctx context.Context) domain.SyncResult {
	return o.Run(ctx, domain.RunKindProductHunt).Result()
}

// SyncTrending syncs the trending seed list.
func (o *Orchestrator) SyncTrending(ctx context.Context) domain.SyncResult {
	return o.Run(ctx, domain.RunKindTrending).Result()
}

// SyncAll runs the Product Hunt path then the scraped path and sums them. A failure in
// one path does not stop the other.
func (o *Orchestrator) SyncAll(ctx context.Context) domain.SyncResult {
	return o.Run(ctx, domain.RunKindAll).Result()
}

// Run executes one sync path with run history, metrics and events around it. It never
// panics and never returns nil; failures are carried in Report.Err.
func (o *Orchestrator) Run(ctx context.Context, kind domain.RunKind) *Report {
	run := &domain.SyncRun{ID: uuid.New(), Kind: kind, StartedAt: o.now()}
	log := o.log.With(logger.String("run_id", run.ID.String()), logger.String("kind", string(kind)))

	o.metrics.RecordRunStarted()
	if o.runs != nil {
		if err := o.runs.Start(ctx, run); err != nil {
			log.Warn("Failed to record sync run start", logger.Error(err))
		}
	}
	log.Info("Sync run started")

	var report *Report
	switch kind {
	case domain.RunKindScraped:
		report = o.guard(ctx, kind, log, o.syncScraped)
	case domain.RunKindProductHunt:
		report = o.guard(ctx, kind, log, o.syncProductHunt)
	case domain.RunKindTrending:
		report = o.guard(ctx, kind, log, o.syncTrending)
	case domain.RunKindAll:
		report = &Report{Kind: kind}
		report.merge(o.guard(ctx, domain.RunKindProductHunt, log, o.syncProductHunt))
		report.merge(o.guard(ctx, domain.RunKindScraped, log, o.syncScraped))
	default:
		report = &Report{Kind: kind, Err: fmt.Errorf("unknown sync kind %q", kind)}
	}
	report.Kind = kind

	o.finish(context.WithoutCancel(ctx), run, report, log)
	return report
}

func (o *Orchestrator) finish(ctx context.Context, run *domain.SyncRun, report *Report, log logger.Logger) {
	finished := o.now()
	run.FinishedAt = &finished
	run.Synced = report.Synced
	run.Updated = report.Updated
	run.TotalFound = report.TotalFound
	run.Rejected = report.Rejected
	run.StoreErrors = report.StoreErrors
	run.FailedTargets = report.FailedTargets()
	if report.Err != nil {
		msg := report.Err.Error()
		run.Error = &msg
	}

	o.metrics.RecordRunFinished(string(run.Kind), report.Err != nil, run.Duration().Seconds())

	if o.runs != nil {
		if err := o.runs.Finish(ctx, run); err != nil {
			log.Warn("Failed to record sync run result", logger.Error(err))
		}
	}
	if o.events != nil {
		if err := o.events.PublishRun(ctx, run); err != nil {
			log.Warn("Failed to publish sync event", logger.Error(err))
		}
	}

	fields := []logger.Field{
		logger.Int("synced", report.Synced),
		logger.Int("updated", report.Updated),
		logger.Int("total_found", report.TotalFound),
		logger.Int("rejected", report.Rejected),
		logger.Int("store_errors", report.StoreErrors),
		logger.Int("failed_targets", run.FailedTargets),
		logger.Duration("duration", run.Duration()),
	}
	if report.Err != nil {
		log.Error("Sync run failed", append(fields, logger.Error(report.Err))...)
		return
	}
	log.Info("Sync run completed", fields...)
}

// guard isolates one sync path so a panic becomes a failed report.
func (o *Orchestrator) guard(
	ctx context.Context,
	kind domain.RunKind,
	log logger.Logger,
	path func(context.Context, logger.Logger) *Report,
) (report *Report) {
	defer func() {
		if r := recover(); r != nil {
			report = &Report{Kind: kind, Err: fmt.Errorf("%s sync panicked: %v", kind, r)}
		}
	}()
	report = path(ctx, log)
	report.Kind = kind
	if report.Err != nil {
		log.Warn("Sync path failed", logger.String("path", string(kind)), logger.Error(report.Err))
	}
	return report
}

// ErrNoStore is reported when the orchestrator was built without a store.
var ErrNoStore = errors.New("catalog store is not configured")
