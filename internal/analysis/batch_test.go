package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	summary := Summarize([]BatchItem{
		{File: "a.json", QualityTotal: 85, ATSScore: 85},
		{File: "b.json", Error: "invalid document"},
		{File: "c.json", QualityTotal: 13, ATSScore: 0},
		{File: "d.json", QualityTotal: 50, ATSScore: 60},
	})

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 1, summary.Failed)
	assert.InDelta(t, 49.3, summary.AverageQuality, 1e-9)
	assert.InDelta(t, 48.3, summary.AverageATS, 1e-9)
	assert.Equal(t, "b.json", summary.Items[1].File)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, []BatchItem{}, summary.Items)
	assert.Zero(t, summary.Processed)
	assert.Zero(t, summary.AverageQuality)
}
