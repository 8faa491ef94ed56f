package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/pruthviraj-chavan/happytools1/internal/dedupe"
	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
	"github.com/pruthviraj-chavan/happytools1/internal/normalizer"
	"github.com/pruthviraj-chavan/happytools1/internal/producthunt"
	"github.com/pruthviraj-chavan/happytools1/internal/sources"
)

// syncProductHunt fetches one page of newest posts, keeps the AI-looking ones and stores
// them keyed by their Product Hunt id.
func (o *Orchestrator) syncProductHunt(ctx context.Context, log logger.Logger) *Report {
	report := &Report{Kind: domain.RunKindProductHunt}
	if o.store == nil {
		report.Err = ErrNoStore
		return report
	}
	if o.posts == nil || !o.posts.Configured() {
		report.Err = producthunt.ErrMissingAPIKey
		return report
	}

	posts, err := o.posts.FetchPosts(ctx)
	if err != nil {
		report.Err = fmt.Errorf("fetch product hunt posts: %w", err)
		return report
	}
	relevant := o.classifier.Filter(posts)
	log.Info("Product Hunt posts classified",
		logger.Int("posts", len(posts)),
		logger.Int("ai_tools", len(relevant)),
	)

	candidates := make([]domain.Candidate, len(relevant))
	for i, p := range relevant {
		candidates[i] = producthunt.ToCandidate(p)
	}
	o.syncCandidates(ctx, report, domain.SourceProductHunt, func(domain.Candidate) string {
		return domain.CategoryGeneral
	}, candidates, log)
	return report
}

// syncTrending stores the trending seed list.
func (o *Orchestrator) syncTrending(ctx context.Context, log logger.Logger) *Report {
	report := &Report{Kind: domain.RunKindTrending}
	if o.store == nil {
		report.Err = ErrNoStore
		return report
	}

	seeds := sources.TrendingSeeds()
	categories := make(map[string]string, len(seeds))
	candidates := make([]domain.Candidate, len(seeds))
	for i, s := range seeds {
		candidates[i] = s.Candidate
		categories[s.Candidate.Name] = s.Category
	}
	o.syncCandidates(ctx, report, domain.SourceGoogleTrending, func(c domain.Candidate) string {
		return categories[c.Name]
	}, candidates, log)
	return report
}

// syncCandidates is the normalize, dedupe and write tail shared by the non-scraped paths.
func (o *Orchestrator) syncCandidates(
	ctx context.Context,
	report *Report,
	source string,
	categoryOf func(domain.Candidate) string,
	candidates []domain.Candidate,
	log logger.Logger,
) {
	seen := dedupe.NewSeen()
	tools := make([]*domain.Tool, 0, len(candidates))
	for _, c := range candidates {
		tool, err := o.normalizer.Normalize(c, categoryOf(c), source)
		if err != nil {
			if !errors.Is(err, normalizer.ErrRejected) {
				log.Warn("Normalize failed", logger.Error(err))
			}
			report.Rejected++
			continue
		}
		if seen.Add(tool.Name) {
			tools = append(tools, tool)
		}
	}
	report.TotalFound = len(tools)

	w := o.newWriter(log)
	w.write(ctx, tools)
	w.apply(report)
	o.metrics.RecordTools(source, report.Synced, report.Updated, report.Rejected, report.StoreErrors)
}
