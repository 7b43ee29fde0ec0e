package analysis

import (
	"fmt"
	"strings"
	"testing"

	"resumescore/internal/resume"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureDocuments() map[string]resume.Document {
	long := sampleDocument()
	long.Experience[0].Description = strings.Repeat("• Increased throughput by 40% using Go and Kubernetes\n", 200)

	free := sampleDocument()
	free.PersonalInfo.Email = "jane@gmail.com"

	messy := sampleDocument()
	messy.Experience = append(messy.Experience, resume.ExperienceEntry{Company: "Globex", Duration: "a while"})
	messy.Skills = resume.Skills{Technical: []string{"Go", " ", ""}}

	return map[string]resume.Document{
		"empty":        resume.Empty(),
		"sample":       sampleDocument(),
		"long":         long,
		"free email":   free,
		"messy":        messy.Normalized(),
		"zero value":   {},
		"missing only": {PersonalInfo: resume.PersonalInfo{Name: "Solo"}},
	}
}

func checkByCategory(t *testing.T, result ATSResult, category string) CheckItem {
	t.Helper()
	for _, c := range result.Checks {
		if c.Category == category {
			return c
		}
	}
	require.Failf(t, "check not found", "category %q", category)
	return CheckItem{}
}

func TestComputeATSScoreSampleDocument(t *testing.T) {
	result := ComputeATSScore(sampleDocument())

	assert.Equal(t, 85, result.Score)

	var categories []string
	for _, c := range result.Checks {
		categories = append(categories, c.Category)
	}
	assert.Equal(t, []string{
		"Contact Info", "Experience", "Achievements", "Skills", "Keywords",
		"Email", "Action Verbs", "Education", "Formatting", "Length",
		"Date Format",
	}, categories)

	assert.Equal(t, CheckItem{
		Category:   "Keywords",
		Status:     CheckWarning,
		Message:    "Only 4 relevant keywords found",
		Impact:     ImpactHigh,
		Suggestion: "Include more industry-specific keywords and technologies",
	}, checkByCategory(t, result, "Keywords"))
	assert.Equal(t, CheckItem{
		Category:   "Length",
		Status:     CheckWarning,
		Message:    "Resume may be too short",
		Impact:     ImpactMedium,
		Suggestion: "Add more detailed descriptions and achievements",
	}, checkByCategory(t, result, "Length"))
	assert.Equal(t, "9 skills listed across categories", checkByCategory(t, result, "Skills").Message)
	assert.Equal(t, "1 work experience entries found", checkByCategory(t, result, "Experience").Message)
}

func TestComputeATSScoreEmptyDocument(t *testing.T) {
	result := ComputeATSScore(resume.Empty())

	assert.Equal(t, 0, result.Score)

	expected := []CheckItem{
		{Category: "Experience", Status: CheckFail, Message: "No work experience provided", Impact: ImpactCritical,
			Suggestion: "Add at least one work experience entry"},
		{Category: "Contact Info", Status: CheckFail, Message: "Missing 4 contact field(s)", Impact: ImpactHigh,
			Suggestion: "Add missing contact information (name, email, phone, location)"},
		{Category: "Email", Status: CheckFail, Message: "No email address provided", Impact: ImpactHigh,
			Suggestion: "Add a professional email address"},
		{Category: "Skills", Status: CheckFail, Message: "Insufficient skills listed", Impact: ImpactHigh,
			Suggestion: "Add technical and soft skills relevant to your field"},
		{Category: "Keywords", Status: CheckWarning, Message: "Only 0 relevant keywords found", Impact: ImpactHigh,
			Suggestion: "Include more industry-specific keywords and technologies"},
		{Category: "Education", Status: CheckWarning, Message: "No education information provided", Impact: ImpactMedium,
			Suggestion: "Add your educational background"},
		{Category: "Formatting", Status: CheckWarning, Message: "Use bullet points for better readability", Impact: ImpactMedium,
			Suggestion: "Format job descriptions with bullet points"},
		{Category: "Length", Status: CheckWarning, Message: "Resume may be too short", Impact: ImpactMedium,
			Suggestion: "Add more detailed descriptions and achievements"},
		{Category: "Date Format", Status: CheckWarning, Message: "No experience dates to evaluate", Impact: ImpactLow,
			Suggestion: `Use consistent format: "Jan 2020 - Present"`},
	}
	assert.Equal(t, expected, result.Checks)
}

func TestATSSkillsBoundaries(t *testing.T) {
	tests := []struct {
		count  int
		points int
		status CheckStatus
		impact Impact
	}{
		{count: 3, points: 0, status: CheckFail, impact: ImpactHigh},
		{count: 4, points: 10, status: CheckWarning, impact: ImpactMedium},
		{count: 7, points: 10, status: CheckWarning, impact: ImpactMedium},
		{count: 8, points: 15, status: CheckPass, impact: ImpactHigh},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d skills", tt.count), func(t *testing.T) {
			doc := resume.Empty()
			for i := range tt.count {
				doc.Skills.Tools = append(doc.Skills.Tools, fmt.Sprintf("skill%d", i))
			}

			result := ComputeATSScore(doc)

			// the empty document scores nothing, so the total is the skills contribution
			assert.Equal(t, tt.points, result.Score)
			check := checkByCategory(t, result, "Skills")
			assert.Equal(t, tt.status, check.Status)
			assert.Equal(t, tt.impact, check.Impact)
		})
	}
}

func TestATSSkillsIgnoreBlankEntries(t *testing.T) {
	doc := resume.Empty()
	doc.Skills = resume.Skills{
		Technical: []string{"Go", " ", ""},
		Soft:      []string{"Teamwork"},
		Languages: []string{"English"},
		Tools:     []string{"Vim"},
	}

	result := ComputeATSScore(doc)

	assert.Equal(t, "4 skills listed - consider adding more", checkByCategory(t, result, "Skills").Message)
}

func TestATSEmail(t *testing.T) {
	tests := []struct {
		email  string
		points int
		status CheckStatus
	}{
		{email: "jane@acme.io", points: 10, status: CheckPass},
		{email: "jane@gmail.com", points: 5, status: CheckWarning},
		{email: "jane@Yahoo.com", points: 5, status: CheckWarning},
		{email: "jane@hotmail.co.uk", points: 5, status: CheckWarning},
		{email: "   ", points: 0, status: CheckFail},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			doc := resume.Empty()
			doc.PersonalInfo.Email = tt.email

			result := ComputeATSScore(doc)

			assert.Equal(t, tt.points, result.Score)
			assert.Equal(t, tt.status, checkByCategory(t, result, "Email").Status)
		})
	}
}

func TestATSContactThreshold(t *testing.T) {
	doc := resume.Empty()
	doc.PersonalInfo = resume.PersonalInfo{Name: "A", Phone: "1", Location: "Paris"}

	result := ComputeATSScore(doc)

	// three fields pass the contact check, email is still missing
	assert.Equal(t, 15, result.Score)
	assert.Equal(t, CheckPass, checkByCategory(t, result, "Contact Info").Status)

	doc.PersonalInfo.Location = ""
	result = ComputeATSScore(doc)
	assert.Equal(t, "Missing 2 contact field(s)", checkByCategory(t, result, "Contact Info").Message)
}

func TestATSBulletMarkersDifferFromQuality(t *testing.T) {
	doc := resume.Empty()
	doc.Experience = []resume.ExperienceEntry{{Description: "* Shipped the release"}}

	ats := ComputeATSScore(doc)
	quality := ComputeQualityScore(doc)

	assert.Equal(t, CheckWarning, checkByCategory(t, ats, "Formatting").Status)
	assert.Equal(t, 100, quality.Categories.Formatting)
}

func TestATSActionVerbsExcludeQualityOnlyWords(t *testing.T) {
	doc := resume.Empty()
	doc.Experience = []resume.ExperienceEntry{{Description: "Delivered features and collaborated with design"}}

	result := ComputeATSScore(doc)

	assert.Equal(t, CheckWarning, checkByCategory(t, result, "Action Verbs").Status)
}

func TestATSLength(t *testing.T) {
	tests := []struct {
		name    string
		repeat  int
		message string
	}{
		{name: "short", repeat: 0, message: "Resume may be too short"},
		{name: "appropriate", repeat: 20, message: "Appropriate resume length"},
		{name: "long", repeat: 200, message: "Resume may be too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := resume.Empty()
			doc.Experience = []resume.ExperienceEntry{{Description: strings.Repeat("Quarterly planning work. ", tt.repeat*2)}}

			result := ComputeATSScore(doc)

			assert.Equal(t, tt.message, checkByCategory(t, result, "Length").Message)
		})
	}
}

func TestATSKeywordsCountSubstrings(t *testing.T) {
	doc := resume.Empty()
	doc.Skills.Technical = []string{"JavaScript", "React", "Node.js", "GitHub", "REST APIs"}

	result := ComputeATSScore(doc)

	assert.Equal(t, "5 relevant keywords found", checkByCategory(t, result, "Keywords").Message)
}

func TestQuantifiableAchievementIsMonotonic(t *testing.T) {
	plain := sampleDocument()
	plain.Experience[0].Description = "• Worked on the billing system"

	enriched := sampleDocument()
	enriched.Experience[0].Description = "• Worked on the billing system and increased revenue by 30%"

	plainQuality := ComputeQualityScore(plain)
	enrichedQuality := ComputeQualityScore(enriched)
	assert.Greater(t, enrichedQuality.Categories.Experience, plainQuality.Categories.Experience)

	plainATS := ComputeATSScore(plain)
	enrichedATS := ComputeATSScore(enriched)
	assert.Equal(t, CheckWarning, checkByCategory(t, plainATS, "Achievements").Status)
	assert.Equal(t, CheckPass, checkByCategory(t, enrichedATS, "Achievements").Status)
	assert.Greater(t, enrichedATS.Score, plainATS.Score)
}

func TestATSChecksSortedByImpact(t *testing.T) {
	for name, doc := range fixtureDocuments() {
		t.Run(name, func(t *testing.T) {
			result := ComputeATSScore(doc)
			for i := 1; i < len(result.Checks); i++ {
				assert.LessOrEqual(t, result.Checks[i-1].Impact.Rank(), result.Checks[i].Impact.Rank())
			}
		})
	}
}

func TestScoresStayInRange(t *testing.T) {
	for name, doc := range fixtureDocuments() {
		t.Run(name, func(t *testing.T) {
			quality := ComputeQualityScore(doc)
			ats := ComputeATSScore(doc)

			assert.GreaterOrEqual(t, quality.Total, 0)
			assert.LessOrEqual(t, quality.Total, 100)
			assert.GreaterOrEqual(t, ats.Score, 0)
			assert.LessOrEqual(t, ats.Score, 100)
		})
	}
}

func TestAnalyzersAreIdempotent(t *testing.T) {
	for name, doc := range fixtureDocuments() {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, ComputeQualityScore(doc), ComputeQualityScore(doc))
			assert.Equal(t, ComputeATSScore(doc), ComputeATSScore(doc))
		})
	}
}

func TestImpactRank(t *testing.T) {
	assert.Equal(t, 0, ImpactCritical.Rank())
	assert.Equal(t, 1, ImpactHigh.Rank())
	assert.Equal(t, 2, ImpactMedium.Rank())
	assert.Equal(t, 3, ImpactLow.Rank())
}

func BenchmarkComputeATSScore(b *testing.B) {
	doc := sampleDocument()
	for b.Loop() {
		ComputeATSScore(doc)
	}
}
