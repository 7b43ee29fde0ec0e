package analysis

import (
	"fmt"
	"math"
	"strings"

	"resumescore/internal/resume"
)

// FeedbackStatus is the outcome of a single quality rule.
type FeedbackStatus string

const (
	StatusSuccess FeedbackStatus = "success"
	StatusWarning FeedbackStatus = "warning"
	StatusError   FeedbackStatus = "error"
)

// Quality categories in declaration order.
const (
	CategoryPersonal   = "personal"
	CategoryExperience = "experience"
	CategoryContent    = "content"
	CategoryFormatting = "formatting"
)

// FeedbackItem is one diagnostic produced by the quality scorer.
type FeedbackItem struct {
	Category string         `json:"category" yaml:"category"`
	Status   FeedbackStatus `json:"status" yaml:"status"`
	Message  string         `json:"message" yaml:"message"`
	Points   int            `json:"points" yaml:"points"`
}

// InsightItem is a narrative summary line.
type InsightItem struct {
	Status  FeedbackStatus `json:"status" yaml:"status"`
	Message string         `json:"message" yaml:"message"`
}

// CategoryScores holds the per-category scores, each 0-100.
type CategoryScores struct {
	Personal   int `json:"personal" yaml:"personal"`
	Experience int `json:"experience" yaml:"experience"`
	Content    int `json:"content" yaml:"content"`
	Formatting int `json:"formatting" yaml:"formatting"`
}

// QualityResult is the output of the quality scorer.
type QualityResult struct {
	Total      int            `json:"total" yaml:"total"`
	Categories CategoryScores `json:"categories" yaml:"categories"`
	Feedback   []FeedbackItem `json:"feedback" yaml:"feedback"`
	Insights   []InsightItem  `json:"insights" yaml:"insights"`
}

type categoryScore struct {
	name     string
	label    string
	weight   float64
	raw      float64
	feedback []FeedbackItem
}

var defaultQualityRules = DefaultQualityRules()

// ComputeQualityScore scores a document with the default quality rules.
func ComputeQualityScore(doc resume.Document) QualityResult {
	return defaultQualityRules.Score(doc)
}

// Score evaluates the four quality categories and folds them into a weighted total.
func (r QualityRules) Score(doc resume.Document) QualityResult {
	doc.Normalize()

	categories := []categoryScore{
		r.scorePersonal(doc),
		r.scoreExperience(doc),
		r.scoreContent(doc),
		r.scoreFormatting(doc),
	}

	weighted := 0.0
	feedback := make([]FeedbackItem, 0, 12)
	for i := range categories {
		categories[i].raw = math.Min(categories[i].raw, 100)
		weighted += categories[i].raw * categories[i].weight / 100
		feedback = append(feedback, categories[i].feedback...)
	}

	return QualityResult{
		Total: clamp(round(weighted)),
		Categories: CategoryScores{
			Personal:   round(categories[0].raw),
			Experience: round(categories[1].raw),
			Content:    round(categories[2].raw),
			Formatting: round(categories[3].raw),
		},
		Feedback: feedback,
		Insights: insights(weighted, categories),
	}
}

func (r QualityRules) scorePersonal(doc resume.Document) categoryScore {
	c := categoryScore{name: CategoryPersonal, label: "personal information", weight: 15}

	present := doc.PersonalInfo.PresentCount()
	c.raw = float64(present) / 4 * 100
	if present == 4 {
		c.feedback = append(c.feedback, item(c.name, StatusSuccess, "All contact information complete", 15))
	} else {
		c.feedback = append(c.feedback, item(c.name, StatusWarning,
			fmt.Sprintf("Complete %d missing contact field(s)", 4-present), round(c.raw*0.15)))
	}
	return c
}

func (r QualityRules) scoreExperience(doc resume.Document) categoryScore {
	c := categoryScore{name: CategoryExperience, label: "work experience", weight: 40}

	if len(doc.Experience) == 0 {
		c.feedback = append(c.feedback, item(c.name, StatusError, "Add at least one work experience", 0))
		return c
	}

	c.raw = 50
	c.feedback = append(c.feedback, item(c.name, StatusSuccess, "Work experience section exists", 20))

	complete := 0
	for _, e := range doc.Experience {
		if e.Complete() {
			complete++
		}
	}
	ratio := float64(complete) / float64(len(doc.Experience))
	c.raw += ratio * 30
	if complete == len(doc.Experience) {
		c.feedback = append(c.feedback, item(c.name, StatusSuccess, "All experience entries complete", 12))
	} else {
		c.feedback = append(c.feedback, item(c.name, StatusWarning,
			fmt.Sprintf("%d incomplete experience entries", len(doc.Experience)-complete), round(ratio*12)))
	}

	if anyMatch(doc.Descriptions(), r.Quantifiable) {
		c.raw += 20
		c.feedback = append(c.feedback, item(c.name, StatusSuccess, "Includes quantifiable achievements", 8))
	} else {
		c.feedback = append(c.feedback, item(c.name, StatusWarning, "Add numbers and metrics to achievements", 0))
	}
	return c
}

func (r QualityRules) scoreContent(doc resume.Document) categoryScore {
	c := categoryScore{name: CategoryContent, label: "content quality", weight: 25}

	text := doc.LowerText()
	found := countContained(text, r.ActionWords)
	actionScore := float64(found) / float64(len(r.ActionWords)) * 100
	c.raw += actionScore * 0.4
	if found >= r.StrongActionWords {
		c.feedback = append(c.feedback, item(c.name, StatusSuccess,
			fmt.Sprintf("Strong action words (%d found)", found), 10))
	} else {
		c.feedback = append(c.feedback, item(c.name, StatusWarning,
			"Use more action words (developed, managed, etc.)", round(actionScore*0.1)))
	}

	length := doc.Length()
	if length > r.DetailLength {
		c.raw += 60
		c.feedback = append(c.feedback, item(c.name, StatusSuccess, "Sufficient detail and content", 15))
	} else {
		share := float64(length) / float64(r.DetailLength)
		c.raw += 60 * share
		c.feedback = append(c.feedback, item(c.name, StatusWarning, "Add more detailed content", round(share*15)))
	}
	return c
}

func (r QualityRules) scoreFormatting(doc resume.Document) categoryScore {
	c := categoryScore{name: CategoryFormatting, label: "formatting", weight: 20}

	if anyContains(doc.Descriptions(), r.BulletMarkers) {
		c.raw += 50
		c.feedback = append(c.feedback, item(c.name, StatusSuccess, "Good use of bullet points", 10))
	} else {
		c.feedback = append(c.feedback, item(c.name, StatusWarning, "Use bullet points for better readability", 0))
	}

	if datesConsistent(doc.Experience, r.Year.MatchString) {
		c.raw += 50
		c.feedback = append(c.feedback, item(c.name, StatusSuccess, "Consistent date formatting", 10))
	} else {
		c.feedback = append(c.feedback, item(c.name, StatusWarning, "Use consistent date format (e.g., Jan 2020)", 5))
	}
	return c
}

func insights(weighted float64, categories []categoryScore) []InsightItem {
	var out []InsightItem
	switch {
	case weighted >= 90:
		out = append(out, InsightItem{StatusSuccess, "Excellent! Your resume is ready to impress recruiters."})
	case weighted >= 75:
		out = append(out, InsightItem{StatusSuccess, "Great job! A few tweaks will make it perfect."})
	case weighted >= 60:
		out = append(out, InsightItem{StatusWarning, "Good progress! Focus on the highlighted areas."})
	default:
		out = append(out, InsightItem{StatusError, "Needs improvement. Follow the suggestions below."})
	}

	// Ties keep the category declared first.
	weakest := categories[0]
	for _, c := range categories[1:] {
		if c.raw < weakest.raw {
			weakest = c
		}
	}
	if weakest.raw < 70 {
		out = append(out, InsightItem{StatusWarning, fmt.Sprintf("Focus on improving your %s section.", weakest.label)})
	}
	return out
}

func item(category string, status FeedbackStatus, message string, points int) FeedbackItem {
	return FeedbackItem{Category: category, Status: status, Message: message, Points: points}
}

func datesConsistent(entries []resume.ExperienceEntry, hasYear func(string) bool) bool {
	for _, e := range entries {
		if resume.Present(e.Duration) && !hasYear(e.Duration) {
			return false
		}
	}
	return true
}

func anyMatch(values []string, pattern interface{ MatchString(string) bool }) bool {
	for _, v := range values {
		if v != "" && pattern.MatchString(v) {
			return true
		}
	}
	return false
}

func anyContains(values []string, markers []string) bool {
	for _, v := range values {
		for _, m := range markers {
			if strings.Contains(v, m) {
				return true
			}
		}
	}
	return false
}

func countContained(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func round(x float64) int {
	return int(math.Round(x))
}

func clamp(score int) int {
	return max(0, min(score, 100))
}
