package resume

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeEmptyDocument(t *testing.T) {
	want := `{"personalInfo":{"name":"","email":"","phone":"","location":""},"experience":[],"education":[],` +
		`"skills":{"technical":[],"soft":[],"languages":[],"tools":[]}}`

	assert.Equal(t, want, Empty().Serialize())
	assert.Equal(t, want, Document{}.Serialize(), "zero value serializes like an empty document")
	assert.Equal(t, 157, Document{}.Length())
}

func TestSerializeDoesNotEscapeHTML(t *testing.T) {
	doc := Empty()
	doc.Experience = []ExperienceEntry{{Description: "<b>R&D</b>"}}

	assert.Contains(t, doc.Serialize(), `"description":"<b>R&D</b>"`)
}

func TestLengthCountsCharacters(t *testing.T) {
	bullet := Empty()
	bullet.Experience = []ExperienceEntry{{Description: "•"}}
	dash := Empty()
	dash.Experience = []ExperienceEntry{{Description: "-"}}

	assert.Equal(t, dash.Length(), bullet.Length())
}

func TestPersonalInfoPresentCount(t *testing.T) {
	tests := []struct {
		name string
		info PersonalInfo
		want int
	}{
		{name: "empty", info: PersonalInfo{}, want: 0},
		{name: "whitespace is absent", info: PersonalInfo{Name: "  ", Email: "\t"}, want: 0},
		{name: "three fields", info: PersonalInfo{Name: "A", Email: "a@b.c", Phone: "1"}, want: 3},
		{name: "all fields", info: PersonalInfo{Name: "A", Email: "a@b.c", Phone: "1", Location: "X"}, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.PresentCount())
		})
	}
}

func TestExperienceEntryComplete(t *testing.T) {
	entry := ExperienceEntry{Company: "Acme", Position: "Engineer", Duration: "2020", Description: "Built things"}
	assert.True(t, entry.Complete())

	entry.Duration = " "
	assert.False(t, entry.Complete())
}

func TestSkillsCount(t *testing.T) {
	skills := Skills{
		Technical: []string{"Go", ""},
		Soft:      []string{" "},
		Languages: nil,
		Tools:     []string{"Git", "Make"},
	}

	assert.Equal(t, 3, skills.Count())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
		check  func(t *testing.T, doc Document)
	}{
		{
			name:   "json with missing sections",
			data:   `{"personalInfo":{"name":"Jane"}}`,
			format: FormatJSON,
			check: func(t *testing.T, doc Document) {
				assert.Equal(t, "Jane", doc.PersonalInfo.Name)
				assert.NotNil(t, doc.Experience)
				assert.NotNil(t, doc.Skills.Languages)
			},
		},
		{
			name: "yaml document",
			data: `
personalInfo:
  name: Jane
  email: jane@example.com
experience:
  - company: Acme
    position: Engineer
    duration: 2019 - 2021
skills:
  technical: [Go, Python]
`,
			format: FormatYAML,
			check: func(t *testing.T, doc Document) {
				require.Len(t, doc.Experience, 1)
				assert.Equal(t, "2019 - 2021", doc.Experience[0].Duration)
				assert.Equal(t, []string{"Go", "Python"}, doc.Skills.Technical)
				assert.Equal(t, []string{}, doc.Skills.Tools)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.data), tt.format)
			require.NoError(t, err)
			tt.check(t, doc)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte(`{"personalInfo":`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode([]byte(`{}`), "xml")
	assert.EqualError(t, err, "unsupported document format: xml")
}

func TestFormatFromFilename(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromFilename("resume.YAML"))
	assert.Equal(t, FormatYAML, FormatFromFilename("resume.yml"))
	assert.Equal(t, FormatJSON, FormatFromFilename("resume.json"))
	assert.Equal(t, FormatJSON, FormatFromFilename("resume"))
}

func TestNewEntryID(t *testing.T) {
	id := NewEntryID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewEntryID())
}
