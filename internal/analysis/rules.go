package analysis

import "regexp"

// QualityRules are the vocabularies and patterns used by the quality scorer.
// The table is independent of ATSRules; the two differ in action-verb
// coverage and accepted bullet markers.
type QualityRules struct {
	ActionWords       []string
	Quantifiable      *regexp.Regexp
	BulletMarkers     []string
	Year              *regexp.Regexp
	StrongActionWords int
	DetailLength      int
}

// ATSRules are the vocabularies and patterns used by the ATS checker.
type ATSRules struct {
	ActionVerbs        []string
	Quantifiable       *regexp.Regexp
	BulletMarkers      []string
	Year               *regexp.Regexp
	FreeEmailProviders []string
	Keywords           []string
	MinKeywords        int
	MinContactFields   int
	SkillsStrong       int
	SkillsAdequate     int
	MinLength          int
	MaxLength          int
}

// DefaultQualityRules returns the rule table used by ComputeQualityScore.
func DefaultQualityRules() QualityRules {
	return QualityRules{
		ActionWords: []string{
			"developed", "implemented", "managed", "created", "improved", "optimized",
			"designed", "built", "led", "achieved", "delivered", "collaborated",
		},
		Quantifiable:      regexp.MustCompile(`(?i)\d+%|\d+\+|\$\d+|increased|improved|reduced|saved`),
		BulletMarkers:     []string{"•", "-", "*"},
		Year:              regexp.MustCompile(`\d{4}`),
		StrongActionWords: 5,
		DetailLength:      800,
	}
}

// DefaultATSRules returns the rule table used by ComputeATSScore.
func DefaultATSRules() ATSRules {
	return ATSRules{
		ActionVerbs: []string{
			"developed", "implemented", "managed", "created", "improved",
			"optimized", "designed", "built", "led", "achieved",
		},
		Quantifiable:       regexp.MustCompile(`(?i)\d+%|\d+\+|\$\d+|increased|improved|reduced|saved`),
		BulletMarkers:      []string{"•", "-"},
		Year:               regexp.MustCompile(`\d{4}`),
		FreeEmailProviders: []string{"gmail", "yahoo", "hotmail"},
		Keywords: []string{
			"javascript", "react", "node", "python", "aws",
			"docker", "git", "agile", "scrum", "api",
		},
		MinKeywords:      5,
		MinContactFields: 3,
		SkillsStrong:     8,
		SkillsAdequate:   4,
		MinLength:        1000,
		MaxLength:        8000,
	}
}
