package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Document is the structured resume consumed by the analyzers.
// The JSON key order of the structs below is the canonical serialization order.
type Document struct {
	PersonalInfo PersonalInfo      `json:"personalInfo" yaml:"personalInfo"`
	Experience   []ExperienceEntry `json:"experience" yaml:"experience"`
	Education    []EducationEntry  `json:"education" yaml:"education"`
	Skills       Skills            `json:"skills" yaml:"skills"`
}

// PersonalInfo holds contact details.
type PersonalInfo struct {
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone" yaml:"phone"`
	Location string `json:"location" yaml:"location"`
}

// ExperienceEntry is a single work experience item.
type ExperienceEntry struct {
	ID          string `json:"id" yaml:"id"`
	Company     string `json:"company" yaml:"company"`
	Position    string `json:"position" yaml:"position"`
	Duration    string `json:"duration" yaml:"duration"`
	Description string `json:"description" yaml:"description"`
}

// EducationEntry is a single education item.
type EducationEntry struct {
	ID           string `json:"id" yaml:"id"`
	Institution  string `json:"institution" yaml:"institution"`
	Degree       string `json:"degree" yaml:"degree"`
	Field        string `json:"field" yaml:"field"`
	Duration     string `json:"duration" yaml:"duration"`
	GPA          string `json:"gpa" yaml:"gpa"`
	Achievements string `json:"achievements" yaml:"achievements"`
}

// Skills groups skills by fixed category.
type Skills struct {
	Technical []string `json:"technical" yaml:"technical"`
	Soft      []string `json:"soft" yaml:"soft"`
	Languages []string `json:"languages" yaml:"languages"`
	Tools     []string `json:"tools" yaml:"tools"`
}

// Input formats accepted by Decode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Present reports whether a field value counts as filled in.
func Present(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Fields returns the personal fields in declaration order.
func (p PersonalInfo) Fields() []string {
	return []string{p.Name, p.Email, p.Phone, p.Location}
}

// PresentCount returns how many personal fields are filled in.
func (p PersonalInfo) PresentCount() int {
	n := 0
	for _, f := range p.Fields() {
		if Present(f) {
			n++
		}
	}
	return n
}

// Complete reports whether company, position, duration and description are all present.
func (e ExperienceEntry) Complete() bool {
	return Present(e.Company) && Present(e.Position) && Present(e.Duration) && Present(e.Description)
}

// All returns every skill category in declaration order.
func (s Skills) All() [][]string {
	return [][]string{s.Technical, s.Soft, s.Languages, s.Tools}
}

// Count returns the number of non-blank skills across all categories.
func (s Skills) Count() int {
	n := 0
	for _, category := range s.All() {
		for _, skill := range category {
			if Present(skill) {
				n++
			}
		}
	}
	return n
}

// Normalize replaces nil collections with empty ones so that the
// serialized shape is always complete.
func (d *Document) Normalize() {
	if d.Experience == nil {
		d.Experience = []ExperienceEntry{}
	}
	if d.Education == nil {
		d.Education = []EducationEntry{}
	}
	if d.Skills.Technical == nil {
		d.Skills.Technical = []string{}
	}
	if d.Skills.Soft == nil {
		d.Skills.Soft = []string{}
	}
	if d.Skills.Languages == nil {
		d.Skills.Languages = []string{}
	}
	if d.Skills.Tools == nil {
		d.Skills.Tools = []string{}
	}
}

// Normalized returns a normalized copy of the document.
func (d Document) Normalized() Document {
	d.Normalize()
	return d
}

// Empty returns a document with every section present and blank.
func Empty() Document {
	return Document{}.Normalized()
}

// Serialize returns the compact canonical JSON form of the document.
// Documents only contain strings and slices, so encoding cannot fail.
func (d Document) Serialize() string {
	d.Normalize()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Length is the number of characters in the serialized document.
func (d Document) Length() int {
	return utf8.RuneCountInString(d.Serialize())
}

// LowerText is the lowercased serialized document used for substring rules.
func (d Document) LowerText() string {
	return strings.ToLower(d.Serialize())
}

// Descriptions returns the description of each experience entry in order.
func (d Document) Descriptions() []string {
	out := make([]string, len(d.Experience))
	for i, e := range d.Experience {
		out[i] = e.Description
	}
	return out
}

// Decode parses a document in the given format and normalizes it.
func Decode(data []byte, format string) (Document, error) {
	var doc Document
	switch strings.ToLower(format) {
	case "", FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("failed to decode JSON document: %w", err)
		}
	case FormatYAML, "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("failed to decode YAML document: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("unsupported document format: %s", format)
	}
	doc.Normalize()
	return doc, nil
}

// FormatFromFilename guesses the document format from a file name.
func FormatFromFilename(filename string) string {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// NewEntryID returns a fresh identity for an experience or education entry.
func NewEntryID() string {
	return uuid.NewString()
}
