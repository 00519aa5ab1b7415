package projects

import (
	"context"
	"sort"

	"github.com/SignorelliLorenzo/portfolio/locale"
	"github.com/SignorelliLorenzo/portfolio/metrics"
	"github.com/SignorelliLorenzo/portfolio/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Resolver answers project queries from a live source and falls back to the
// bundled dataset when the source is missing, failing or empty.
type Resolver struct {
	source  Source
	dataset *Dataset
	donate  bool
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

type Option func(*Resolver)

// WithTranslationDonor lets dataset records supply the Italian fields a live
// record lacks.
func WithTranslationDonor() Option {
	return func(r *Resolver) {
		r.donate = true
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// NewResolver builds a resolver. source may be nil, meaning no live source
// is configured.
func NewResolver(source Source, dataset *Dataset, opts ...Option) *Resolver {
	r := &Resolver{
		source:  source,
		dataset: dataset,
		logger:  log.With().Str("component", "projectResolver").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SourceName is the name of the live source, or "none".
func (r *Resolver) SourceName() string {
	if r.source == nil {
		return "none"
	}
	return r.source.Name()
}

func (r *Resolver) Dataset() *Dataset {
	return r.dataset
}

// List returns every project localized for loc, ordered by the record order
// with ties kept in source order.
func (r *Resolver) List(ctx context.Context, loc locale.Locale) []models.Project {
	records, tier := r.records(ctx)
	r.metrics.ObserveSource(r.SourceName(), tier)

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].order() < records[j].order()
	})

	out := make([]models.Project, 0, len(records))
	for _, rec := range records {
		out = append(out, Localize(rec, loc))
	}
	return out
}

func (r *Resolver) records(ctx context.Context) ([]Record, string) {
	if r.source != nil {
		records, err := r.source.Records(ctx)
		switch {
		case err != nil:
			r.metrics.SourceFailure(r.source.Name())
			r.logger.Warn().Err(err).Str("source", r.source.Name()).Msg("listing failed, using bundled dataset")
		case len(records) == 0:
			r.logger.Info().Str("source", r.source.Name()).Msg("source is empty, using bundled dataset")
		default:
			return r.enrich(records), metrics.TierLive
		}
	}
	return r.dataset.All(), metrics.TierFallback
}

// Get returns one project localized for loc, or ErrNotFound.
func (r *Resolver) Get(ctx context.Context, id string, loc locale.Locale) (models.Project, error) {
	if id == "" {
		return models.Project{}, ErrNotFound
	}

	if r.source != nil {
		rec, err := r.source.Record(ctx, id)
		switch {
		case err != nil:
			r.metrics.SourceFailure(r.source.Name())
			r.logger.Warn().Err(err).Str("source", r.source.Name()).Str("projectID", id).Msg("lookup failed, using bundled dataset")
		case rec != nil:
			r.metrics.ObserveSource(r.source.Name(), metrics.TierLive)
			return Localize(r.enrichOne(*rec), loc), nil
		}
	}

	rec, ok := r.dataset.Lookup(id)
	if !ok {
		r.metrics.ObserveSource(r.SourceName(), metrics.TierMissing)
		return models.Project{}, ErrNotFound
	}
	r.metrics.ObserveSource(r.SourceName(), metrics.TierFallback)
	return Localize(rec, loc), nil
}

func (r *Resolver) enrich(records []Record) []Record {
	if !r.donate {
		return records
	}
	for i := range records {
		records[i] = r.enrichOne(records[i])
	}
	return records
}

func (r *Resolver) enrichOne(rec Record) Record {
	if !r.donate {
		return rec
	}
	if donor, ok := r.dataset.Lookup(rec.ID); ok {
		return rec.withDonor(donor)
	}
	return rec
}
