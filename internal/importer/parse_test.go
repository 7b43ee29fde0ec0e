package importer

import (
	"fmt"
	"testing"

	"resumescore/internal/resume"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = `Jane Doe
jane.doe@example.com | (555) 123-4567
Austin, TX

WORK EXPERIENCE
Senior Engineer | Acme Corp | 2020 - Present
• Led migration to Go services
• Reduced latency by 35%
Software Engineer at Initech 2016 - 2020
Maintained billing pipelines for enterprise customers

EDUCATION
BSc Computer Science | State University | 2012 - 2016
• Graduated with honors

SKILLS
JavaScript, Python, Leadership, Communication, Figma
Teamwork, Problem-solving`

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestParseSampleResume(t *testing.T) {
	doc := Parser{NewID: sequentialIDs()}.Parse(sampleText)

	assert.Equal(t, resume.PersonalInfo{
		Name:     "Jane Doe",
		Email:    "jane.doe@example.com",
		Phone:    "(555) 123-4567",
		Location: "Austin, TX",
	}, doc.PersonalInfo)

	assert.Equal(t, []resume.ExperienceEntry{
		{
			ID:          "id-1",
			Company:     "Acme Corp",
			Position:    "Senior Engineer",
			Duration:    "2020 - Present",
			Description: "• Led migration to Go services\n• Reduced latency by 35%",
		},
		{
			ID:          "id-2",
			Company:     "Initech",
			Position:    "Software Engineer",
			Duration:    "2016 - 2020",
			Description: "• Maintained billing pipelines for enterprise customers",
		},
	}, doc.Experience)

	assert.Equal(t, []resume.EducationEntry{{
		ID:           "id-3",
		Institution:  "State University",
		Degree:       "BSc Computer Science",
		Duration:     "2012 - 2016",
		Achievements: "• Graduated with honors",
	}}, doc.Education)

	assert.Equal(t, []string{"JavaScript", "Python"}, doc.Skills.Technical)
	assert.Equal(t, []string{"Leadership", "Communication", "Teamwork", "Problem-solving"}, doc.Skills.Soft)
	assert.Equal(t, []string{"Figma"}, doc.Skills.Tools)
	assert.Equal(t, []string{}, doc.Skills.Languages)
}

func TestParseExperienceHeader(t *testing.T) {
	tests := []struct {
		line string
		want resume.ExperienceEntry
	}{
		{
			line: "Engineer | Acme",
			want: resume.ExperienceEntry{Position: "Engineer", Company: "Acme"},
		},
		{
			line: "Developer - Globex 2014 - 2016",
			want: resume.ExperienceEntry{Position: "Developer", Company: "Globex", Duration: "2014 - 2016"},
		},
		{
			line: "Engineer 2019 - current",
			want: resume.ExperienceEntry{Position: "Engineer", Duration: "2019 - current"},
		},
		{
			line: "Freelance Consultant 2018",
			want: resume.ExperienceEntry{Position: "Freelance Consultant 2018"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, *parseExperienceHeader(tt.line))
		})
	}
}

func TestSectionHeader(t *testing.T) {
	tests := []struct {
		line   string
		want   section
		header bool
	}{
		{line: "WORK EXPERIENCE", want: sectionExperience, header: true},
		{line: "Professional Experience", want: sectionExperience, header: true},
		{line: "Education", want: sectionEducation, header: true},
		{line: "Technical Skills", want: sectionSkills, header: true},
		{line: "Teamwork, Leadership", header: false},
		{line: "Worked across five teams on payments infrastructure", header: false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := sectionHeader(tt.line)
			assert.Equal(t, tt.header, ok)
			if tt.header {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseIgnoresContentBeforeSections(t *testing.T) {
	doc := ParseText("Jane Doe\n• Stray bullet\nSomething else entirely here")

	assert.Equal(t, "Jane Doe", doc.PersonalInfo.Name)
	assert.Empty(t, doc.Experience)
	assert.Empty(t, doc.Education)
}

func TestParseNameRules(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "skips resume banner", text: "RESUME\nJohn Smith", want: "John Smith"},
		{name: "skips lines with numbers", text: "555-123-4567\nJohn Smith", want: "John Smith"},
		{name: "too short", text: "JS", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseText(tt.text).PersonalInfo.Name)
		})
	}
}

func TestParsedDocumentHasEntryIDs(t *testing.T) {
	doc := ParseText(sampleText)

	require.Len(t, doc.Experience, 2)
	assert.NotEmpty(t, doc.Experience[0].ID)
	assert.NotEqual(t, doc.Experience[0].ID, doc.Experience[1].ID)
}
