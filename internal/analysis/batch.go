package analysis

import "math"

// BatchItem is the outcome for one file in a batch run.
type BatchItem struct {
	File         string `json:"file" yaml:"file"`
	QualityTotal int    `json:"qualityTotal" yaml:"qualityTotal"`
	ATSScore     int    `json:"atsScore" yaml:"atsScore"`
	Error        string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the file could not be analyzed.
func (b BatchItem) Failed() bool {
	return b.Error != ""
}

// BatchSummary aggregates a batch run. Averages cover successful files only.
type BatchSummary struct {
	Items          []BatchItem `json:"items" yaml:"items"`
	Processed      int         `json:"processed" yaml:"processed"`
	Failed         int         `json:"failed" yaml:"failed"`
	AverageQuality float64     `json:"averageQuality" yaml:"averageQuality"`
	AverageATS     float64     `json:"averageAts" yaml:"averageAts"`
}

// Summarize folds items into a summary, keeping their order.
func Summarize(items []BatchItem) BatchSummary {
	s := BatchSummary{Items: items}
	if s.Items == nil {
		s.Items = []BatchItem{}
	}

	var quality, ats int
	for _, it := range items {
		if it.Failed() {
			s.Failed++
			continue
		}
		s.Processed++
		quality += it.QualityTotal
		ats += it.ATSScore
	}
	if s.Processed > 0 {
		s.AverageQuality = oneDecimal(float64(quality) / float64(s.Processed))
		s.AverageATS = oneDecimal(float64(ats) / float64(s.Processed))
	}
	return s
}

func oneDecimal(x float64) float64 {
	return math.Round(x*10) / 10
}
