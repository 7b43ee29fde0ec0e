package analysis

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"resumescore/internal/resume"
)

// CheckStatus is the outcome of a single ATS check.
type CheckStatus string

const (
	CheckPass    CheckStatus = "pass"
	CheckWarning CheckStatus = "warning"
	CheckFail    CheckStatus = "fail"
)

// Impact ranks a check for display ordering.
type Impact string

const (
	ImpactCritical Impact = "critical"
	ImpactHigh     Impact = "high"
	ImpactMedium   Impact = "medium"
	ImpactLow      Impact = "low"
)

// Rank orders impacts from most to least severe.
func (i Impact) Rank() int {
	switch i {
	case ImpactCritical:
		return 0
	case ImpactHigh:
		return 1
	case ImpactMedium:
		return 2
	default:
		return 3
	}
}

// CheckItem is one diagnostic produced by the ATS checker.
type CheckItem struct {
	Category   string      `json:"category" yaml:"category"`
	Status     CheckStatus `json:"status" yaml:"status"`
	Message    string      `json:"message" yaml:"message"`
	Impact     Impact      `json:"impact" yaml:"impact"`
	Suggestion string      `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// ATSResult is the output of the ATS checker.
type ATSResult struct {
	Score  int         `json:"score" yaml:"score"`
	Checks []CheckItem `json:"checks" yaml:"checks"`
}

type atsRun struct {
	score  int
	checks []CheckItem
}

func (a *atsRun) add(points int, check CheckItem) {
	a.score += points
	a.checks = append(a.checks, check)
}

var defaultATSRules = DefaultATSRules()

// ComputeATSScore checks a document with the default ATS rules.
func ComputeATSScore(doc resume.Document) ATSResult {
	return defaultATSRules.Check(doc)
}

// Check runs every ATS rule in order, clamps the total and sorts the checks by impact.
func (r ATSRules) Check(doc resume.Document) ATSResult {
	doc.Normalize()

	run := &atsRun{checks: make([]CheckItem, 0, 11)}
	r.checkContact(run, doc)
	r.checkEmail(run, doc)
	r.checkExperience(run, doc)
	r.checkEducation(run, doc)
	r.checkSkills(run, doc)
	r.checkFormatting(run, doc)
	r.checkKeywords(run, doc)

	slices.SortStableFunc(run.checks, func(a, b CheckItem) int {
		return cmp.Compare(a.Impact.Rank(), b.Impact.Rank())
	})

	return ATSResult{Score: clamp(run.score), Checks: run.checks}
}

func (r ATSRules) checkContact(run *atsRun, doc resume.Document) {
	present := doc.PersonalInfo.PresentCount()
	if present >= r.MinContactFields {
		run.add(15, CheckItem{Category: "Contact Info", Status: CheckPass,
			Message: "Complete contact information provided", Impact: ImpactHigh})
		return
	}
	run.add(0, CheckItem{Category: "Contact Info", Status: CheckFail,
		Message:    fmt.Sprintf("Missing %d contact field(s)", 4-present),
		Impact:     ImpactHigh,
		Suggestion: "Add missing contact information (name, email, phone, location)"})
}

func (r ATSRules) checkEmail(run *atsRun, doc resume.Document) {
	email := strings.TrimSpace(doc.PersonalInfo.Email)
	switch {
	case email == "":
		run.add(0, CheckItem{Category: "Email", Status: CheckFail,
			Message: "No email address provided", Impact: ImpactHigh,
			Suggestion: "Add a professional email address"})
	case countContained(strings.ToLower(email), r.FreeEmailProviders) > 0:
		run.add(5, CheckItem{Category: "Email", Status: CheckWarning,
			Message: "Consider using a professional email domain", Impact: ImpactMedium,
			Suggestion: "Use firstname.lastname@professionaldomain.com format"})
	default:
		run.add(10, CheckItem{Category: "Email", Status: CheckPass,
			Message: "Professional email address detected", Impact: ImpactMedium})
	}
}

// checkExperience also covers achievements and action verbs, which only run
// when at least one entry exists.
func (r ATSRules) checkExperience(run *atsRun, doc resume.Document) {
	if len(doc.Experience) == 0 {
		run.add(0, CheckItem{Category: "Experience", Status: CheckFail,
			Message: "No work experience provided", Impact: ImpactCritical,
			Suggestion: "Add at least one work experience entry"})
		return
	}
	run.add(10, CheckItem{Category: "Experience", Status: CheckPass,
		Message: fmt.Sprintf("%d work experience entries found", len(doc.Experience)), Impact: ImpactHigh})

	descriptions := doc.Descriptions()
	if anyMatch(descriptions, r.Quantifiable) {
		run.add(10, CheckItem{Category: "Achievements", Status: CheckPass,
			Message: "Quantifiable achievements detected", Impact: ImpactHigh})
	} else {
		run.add(0, CheckItem{Category: "Achievements", Status: CheckWarning,
			Message: "No quantifiable achievements found", Impact: ImpactHigh,
			Suggestion: "Add numbers, percentages, and metrics to show impact"})
	}

	hasVerb := false
	for _, d := range descriptions {
		if countContained(strings.ToLower(d), r.ActionVerbs) > 0 {
			hasVerb = true
			break
		}
	}
	if hasVerb {
		run.add(5, CheckItem{Category: "Action Verbs", Status: CheckPass,
			Message: "Strong action verbs used", Impact: ImpactMedium})
	} else {
		run.add(0, CheckItem{Category: "Action Verbs", Status: CheckWarning,
			Message: "Use more action verbs to start bullet points", Impact: ImpactMedium,
			Suggestion: "Start descriptions with: Developed, Implemented, Managed, etc."})
	}
}

func (r ATSRules) checkEducation(run *atsRun, doc resume.Document) {
	if len(doc.Education) > 0 {
		run.add(10, CheckItem{Category: "Education", Status: CheckPass,
			Message: "Education information provided", Impact: ImpactMedium})
		return
	}
	run.add(0, CheckItem{Category: "Education", Status: CheckWarning,
		Message: "No education information provided", Impact: ImpactMedium,
		Suggestion: "Add your educational background"})
}

func (r ATSRules) checkSkills(run *atsRun, doc resume.Document) {
	total := doc.Skills.Count()
	switch {
	case total >= r.SkillsStrong:
		run.add(15, CheckItem{Category: "Skills", Status: CheckPass,
			Message: fmt.Sprintf("%d skills listed across categories", total), Impact: ImpactHigh})
	case total >= r.SkillsAdequate:
		run.add(10, CheckItem{Category: "Skills", Status: CheckWarning,
			Message: fmt.Sprintf("%d skills listed - consider adding more", total), Impact: ImpactMedium,
			Suggestion: "Add 8-12 relevant skills for better ATS matching"})
	default:
		run.add(0, CheckItem{Category: "Skills", Status: CheckFail,
			Message: "Insufficient skills listed", Impact: ImpactHigh,
			Suggestion: "Add technical and soft skills relevant to your field"})
	}
}

// checkFormatting awards up to 15 points from bullets, dates and overall length.
// Dates only score when there is at least one experience entry to inspect.
func (r ATSRules) checkFormatting(run *atsRun, doc resume.Document) {
	if anyContains(doc.Descriptions(), r.BulletMarkers) {
		run.add(5, CheckItem{Category: "Formatting", Status: CheckPass,
			Message: "Proper bullet point formatting used", Impact: ImpactMedium})
	} else {
		run.add(0, CheckItem{Category: "Formatting", Status: CheckWarning,
			Message: "Use bullet points for better readability", Impact: ImpactMedium,
			Suggestion: "Format job descriptions with bullet points"})
	}

	switch {
	case len(doc.Experience) == 0:
		run.add(0, CheckItem{Category: "Date Format", Status: CheckWarning,
			Message: "No experience dates to evaluate", Impact: ImpactLow,
			Suggestion: `Use consistent format: "Jan 2020 - Present"`})
	case datesConsistent(doc.Experience, r.Year.MatchString):
		run.add(5, CheckItem{Category: "Date Format", Status: CheckPass,
			Message: "Consistent date formatting", Impact: ImpactLow})
	default:
		run.add(0, CheckItem{Category: "Date Format", Status: CheckWarning,
			Message: "Inconsistent date formatting detected", Impact: ImpactLow,
			Suggestion: `Use consistent format: "Jan 2020 - Present"`})
	}

	length := doc.Length()
	switch {
	case length > r.MinLength && length < r.MaxLength:
		run.add(5, CheckItem{Category: "Length", Status: CheckPass,
			Message: "Appropriate resume length", Impact: ImpactMedium})
	case length <= r.MinLength:
		run.add(0, CheckItem{Category: "Length", Status: CheckWarning,
			Message: "Resume may be too short", Impact: ImpactMedium,
			Suggestion: "Add more detailed descriptions and achievements"})
	default:
		run.add(0, CheckItem{Category: "Length", Status: CheckWarning,
			Message: "Resume may be too long", Impact: ImpactMedium,
			Suggestion: "Consider condensing content to 1-2 pages"})
	}
}

func (r ATSRules) checkKeywords(run *atsRun, doc resume.Document) {
	found := countContained(doc.LowerText(), r.Keywords)
	if found >= r.MinKeywords {
		run.add(10, CheckItem{Category: "Keywords", Status: CheckPass,
			Message: fmt.Sprintf("%d relevant keywords found", found), Impact: ImpactHigh})
		return
	}
	run.add(0, CheckItem{Category: "Keywords", Status: CheckWarning,
		Message: fmt.Sprintf("Only %d relevant keywords found", found), Impact: ImpactHigh,
		Suggestion: "Include more industry-specific keywords and technologies"})
}
