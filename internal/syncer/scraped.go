package syncer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pruthviraj-chavan/happytools1/internal/dedupe"
	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/fetcher"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
	"github.com/pruthviraj-chavan/happytools1/internal/normalizer"
	"github.com/pruthviraj-chavan/happytools1/internal/retry"
)

// ErrNoFetcher is reported when the scraped path runs without a fetcher.
var ErrNoFetcher = errors.New("page fetcher is not configured")

const placeholderRating = 4.2

func (o *Orchestrator) syncScraped(ctx context.Context, log logger.Logger) *Report {
	return o.syncTargets(ctx, o.targets, log)
}

// SyncTargets runs the scraped path over an explicit target list without recording a run.
func (o *Orchestrator) SyncTargets(ctx context.Context, targets []domain.Target) *Report {
	return o.syncTargets(ctx, targets, o.log)
}

// syncTargets processes targets one at a time, in order, pausing for the configured delay
// after each target before the next one starts. A failed target is recorded and skipped. Tools are deduplicated across the whole
// call, first seen wins.
func (o *Orchestrator) syncTargets(ctx context.Context, targets []domain.Target, log logger.Logger) *Report {
	report := &Report{Kind: domain.RunKindScraped}
	if o.fetcher == nil {
		report.Err = ErrNoFetcher
		return report
	}
	if o.store == nil {
		report.Err = ErrNoStore
		return report
	}

	report.Targets = make([]TargetOutcome, len(targets))
	w := o.newWriter(log)
	seen := dedupe.NewSeen()

	for i, target := range targets {
		out := &report.Targets[i]
		out.Target = target
		out.State = StatePending
		tlog := log.With(logger.URL(target.URL), logger.String("category", target.Category))

		if i > 0 {
			if err := retry.Sleep(ctx, o.cfg.Delay); err != nil {
				o.fail(out, fmt.Errorf("wait for delay: %w", err), tlog)
				continue
			}
		} else if err := ctx.Err(); err != nil {
			o.fail(out, err, tlog)
			continue
		}

		tools := o.syncTarget(ctx, out, seen, tlog)
		if o.cfg.PlaceholderOnEmpty && len(tools) == 0 && ctx.Err() == nil {
			if p := o.placeholder(target); p != nil && seen.Add(p.Name) {
				tlog.Info("Using placeholder tool", logger.String("name", p.Name))
				tools = append(tools, p)
			}
		}

		report.Rejected += out.Rejected
		report.TotalFound += len(tools)
		w.write(ctx, tools)

		if out.State == StateNormalizing {
			o.advance(out, StateReconciled, tlog)
		}
	}

	w.apply(report)
	o.metrics.RecordTools(domain.SourceAIToolsFyi, report.Synced, report.Updated, report.Rejected, report.StoreErrors)
	if err := ctx.Err(); err != nil {
		report.Err = err
	}
	return report
}

// syncTarget drives one target up to StateNormalizing, or to StateFailed. It returns the
// tools that survived normalization and run-level dedupe.
func (o *Orchestrator) syncTarget(
	ctx context.Context, out *TargetOutcome, seen *dedupe.Seen, log logger.Logger,
) []*domain.Tool {
	o.advance(out, StateFetching, log)
	page, err := o.fetch(ctx, out.Target.URL)
	if err != nil {
		o.fail(out, err, log)
		return nil
	}

	o.advance(out, StateExtracting, log)
	var candidates []domain.Candidate
	for c := range o.extractor.Extract(page.Body, page.FinalURL, out.Target.Category) {
		candidates = append(candidates, c)
	}
	if err := ctx.Err(); err != nil {
		o.fail(out, err, log)
		return nil
	}

	o.advance(out, StateNormalizing, log)
	tools := make([]*domain.Tool, 0, len(candidates))
	for _, c := range candidates {
		tool, err := o.normalizer.Normalize(c, out.Target.Category, domain.SourceAIToolsFyi)
		if errors.Is(err, normalizer.ErrRejected) {
			out.Rejected++
			continue
		}
		if err != nil {
			log.Warn("Normalize failed", logger.Error(err))
			out.Rejected++
			continue
		}
		if !seen.Add(tool.Name) {
			continue
		}
		tools = append(tools, tool)
	}
	out.Found = len(tools)

	log.Info("Target scraped",
		logger.Int("candidates", len(candidates)),
		logger.Int("tools", len(tools)),
		logger.Int("rejected", out.Rejected),
	)
	return tools
}

func (o *Orchestrator) fetch(ctx context.Context, url string) (*fetcher.RawPage, error) {
	var page *fetcher.RawPage
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = o.cfg.FetchAttempts
	cfg.IsRetryable = func(err error) bool {
		var fe *fetcher.FetchError
		return errors.As(err, &fe) && fe.Temporary()
	}

	err := retry.Do(ctx, cfg, func() error {
		p, err := o.fetcher.Fetch(ctx, url)
		if err != nil {
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	if page.FinalURL == "" {
		page.FinalURL = url
	}
	return page, nil
}

func (o *Orchestrator) fail(out *TargetOutcome, err error, log logger.Logger) {
	out.Err = err
	o.advance(out, StateFailed, log)
	o.metrics.RecordTargetFailure(out.FailureReason())
	log.Warn("Target failed", logger.String("reason", out.FailureReason()), logger.Error(err))
}

func (o *Orchestrator) advance(out *TargetOutcome, to TargetState, log logger.Logger) {
	if err := out.advance(to); err != nil {
		log.Error("Target state machine violation", logger.Error(err))
	}
}

// placeholder synthesizes the stand-in record for an empty category page.
func (o *Orchestrator) placeholder(target domain.Target) *domain.Tool {
	cat := target.Category
	if cat == "" {
		cat = domain.CategoryGeneral
	}
	lower := strings.ToLower(cat)
	tool, err := o.normalizer.Normalize(domain.Candidate{
		Name:        cat + " AI Tool",
		Tagline:     "Professional AI solution for " + lower,
		Description: "Explore advanced AI capabilities designed specifically for " + lower + " applications and workflows.",
		URL:         target.URL,
		Website:     target.URL,
		Pricing:     domain.PricingFreemium,
		Rating:      placeholderRating,
	}, cat, domain.SourceAIToolsFyi)
	if err != nil {
		return nil
	}
	return tool
}
