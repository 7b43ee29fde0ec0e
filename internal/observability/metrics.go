package observability

import (
	"context"
	"time"

	"resumescore/internal/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the domain instruments. Disabled groups stay nil.
type Metrics struct {
	AnalysesTotal    metric.Int64Counter
	AnalysisErrors   metric.Int64Counter
	AnalysisDuration metric.Float64Histogram
	ScoreValues      metric.Float64Histogram

	FilesImported metric.Int64Counter
	ImportErrors  metric.Int64Counter

	SuggestionsTotal metric.Int64Counter
	SuggestionErrors metric.Int64Counter

	RateLimitHits metric.Int64Counter
}

// scoreBuckets cover the 0-100 scoring range in steps of ten.
var scoreBuckets = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

func newMetrics(meter metric.Meter, toggles config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if toggles.Analysis {
		if m.AnalysesTotal, err = meter.Int64Counter("resumescore.analyses.total",
			metric.WithDescription("Number of completed resume analyses")); err != nil {
			return nil, err
		}
		if m.AnalysisErrors, err = meter.Int64Counter("resumescore.analyses.errors",
			metric.WithDescription("Number of failed resume analyses")); err != nil {
			return nil, err
		}
		if m.AnalysisDuration, err = meter.Float64Histogram("resumescore.analysis.duration",
			metric.WithDescription("Time spent analyzing a resume"),
			metric.WithUnit("s")); err != nil {
			return nil, err
		}
		if m.ScoreValues, err = meter.Float64Histogram("resumescore.score",
			metric.WithDescription("Distribution of produced scores"),
			metric.WithExplicitBucketBoundaries(scoreBuckets...)); err != nil {
			return nil, err
		}
	}

	if toggles.Imports {
		if m.FilesImported, err = meter.Int64Counter("resumescore.imports.total",
			metric.WithDescription("Number of files converted to text")); err != nil {
			return nil, err
		}
		if m.ImportErrors, err = meter.Int64Counter("resumescore.imports.errors",
			metric.WithDescription("Number of failed file conversions")); err != nil {
			return nil, err
		}
	}

	if toggles.Suggestions {
		if m.SuggestionsTotal, err = meter.Int64Counter("resumescore.suggestions.total",
			metric.WithDescription("Number of suggestion requests served")); err != nil {
			return nil, err
		}
		if m.SuggestionErrors, err = meter.Int64Counter("resumescore.suggestions.errors",
			metric.WithDescription("Number of rejected suggestion requests")); err != nil {
			return nil, err
		}
	}

	if toggles.Infrastructure {
		if m.RateLimitHits, err = meter.Int64Counter("resumescore.ratelimit.hits",
			metric.WithDescription("Number of requests rejected by the rate limiter")); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordAnalysis records one analyzer run. score is ignored on error.
func (m *Metrics) RecordAnalysis(ctx context.Context, analyzer string, score float64, elapsed time.Duration, err error) {
	if m == nil || m.AnalysesTotal == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("analyzer", analyzer))
	m.AnalysisDuration.Record(ctx, elapsed.Seconds(), attrs)
	if err != nil {
		m.AnalysisErrors.Add(ctx, 1, attrs)
		return
	}
	m.AnalysesTotal.Add(ctx, 1, attrs)
	m.ScoreValues.Record(ctx, score, attrs)
}

// RecordImport records one file extraction attempt.
func (m *Metrics) RecordImport(ctx context.Context, fileType string, err error) {
	if m == nil || m.FilesImported == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("file_type", fileType))
	if err != nil {
		m.ImportErrors.Add(ctx, 1, attrs)
		return
	}
	m.FilesImported.Add(ctx, 1, attrs)
}

// RecordSuggestion records one suggestion request and the source that answered it.
func (m *Metrics) RecordSuggestion(ctx context.Context, kind, source string, err error) {
	if m == nil || m.SuggestionsTotal == nil {
		return
	}
	if err != nil {
		m.SuggestionErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
		return
	}
	m.SuggestionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("source", source),
	))
}

// RecordRateLimitHit records a rejected request.
func (m *Metrics) RecordRateLimitHit(ctx context.Context, limitedBy string) {
	if m == nil || m.RateLimitHits == nil {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("limited_by", limitedBy)))
}
