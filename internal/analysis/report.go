package analysis

import (
	"context"

	"resumescore/internal/resume"

	"golang.org/x/sync/errgroup"
)

// Report combines the results of both analyzers for one document.
type Report struct {
	Source  string        `json:"source,omitempty" yaml:"source,omitempty"`
	Quality QualityResult `json:"quality" yaml:"quality"`
	ATS     ATSResult     `json:"ats" yaml:"ats"`
}

// Analyze runs both analyzers on the same document snapshot.
func Analyze(doc resume.Document) Report {
	return Report{
		Quality: ComputeQualityScore(doc),
		ATS:     ComputeATSScore(doc),
	}
}

// AnalyzeConcurrently runs the analyzers on separate goroutines. The analyzers
// share no state, so the result equals Analyze(doc).
func AnalyzeConcurrently(ctx context.Context, doc resume.Document) (Report, error) {
	doc.Normalize()

	var report Report
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Quality = ComputeQualityScore(doc)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.ATS = ComputeATSScore(doc)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return report, nil
}
