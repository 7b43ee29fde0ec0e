package importer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"resumescore/internal/resume"
)

var (
	emailPattern     = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phonePattern     = regexp.MustCompile(`\(\d{3}\)\s?\d{3}-\d{4}|\d{3}-\d{3}-\d{4}|\+\d{1,3}\s?\(\d{3}\)\s?\d{3}-\d{4}`)
	threeDigits      = regexp.MustCompile(`\d{3}`)
	fourDigits       = regexp.MustCompile(`\d{4}`)
	trailingState    = regexp.MustCompile(`[A-Z]{2}$`)
	dateRangePattern = regexp.MustCompile(`(?i)(\d{4}.*?(?:present|current|\d{4}))`)
	leadingDigit     = regexp.MustCompile(`^\d`)
)

var (
	locationHints   = []string{"CA", "NY", "TX", "FL", "IL", "WA"}
	technicalSkills = []string{"javascript", "react", "node.js", "python", "java", "aws", "docker", "git"}
	softSkills      = []string{"leadership", "communication", "management", "teamwork", "problem-solving"}
)

type section int

const (
	sectionNone section = iota
	sectionExperience
	sectionEducation
	sectionSkills
)

// Parser splits extracted resume text into a structured document.
type Parser struct {
	// NewID mints entry identities. Defaults to resume.NewEntryID.
	NewID func() string
}

// ParseText parses text with the default parser.
func ParseText(text string) resume.Document {
	return Parser{}.Parse(text)
}

// Parse runs the line-oriented import heuristic over text.
func (p Parser) Parse(text string) resume.Document {
	newID := p.NewID
	if newID == nil {
		newID = resume.NewEntryID
	}

	doc := resume.Empty()
	info := &doc.PersonalInfo

	var (
		current    = sectionNone
		experience *resume.ExperienceEntry
		education  *resume.EducationEntry
	)

	for i, line := range nonEmptyLines(text) {
		if info.Email == "" && strings.Contains(line, "@") {
			info.Email = emailPattern.FindString(line)
		}
		if info.Phone == "" {
			info.Phone = phonePattern.FindString(line)
		}
		if info.Name == "" && i < 10 && looksLikeName(line) {
			info.Name = line
		}
		if info.Location == "" && looksLikeLocation(line) {
			parts := strings.Split(line, "|")
			info.Location = strings.TrimSpace(parts[len(parts)-1])
		}

		if next, ok := sectionHeader(line); ok {
			current = next
			continue
		}

		switch current {
		case sectionExperience:
			isBullet := strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-")
			switch {
			case (strings.Contains(line, "|") || fourDigits.MatchString(line)) && !isBullet:
				if experience != nil {
					doc.Experience = append(doc.Experience, *experience)
				}
				experience = parseExperienceHeader(line)
				experience.ID = newID()
			case experience == nil:
			case isBullet || strings.HasPrefix(line, "*"):
				experience.Description = appendLine(experience.Description, "\n", line)
			case utf8.RuneCountInString(line) > 10 && !leadingDigit.MatchString(line):
				if experience.Description == "" {
					experience.Description = "• " + line
				} else {
					experience.Description += "\n• " + line
				}
			}

		case sectionEducation:
			switch {
			case strings.Contains(line, "|") && !strings.HasPrefix(line, "•"):
				if education != nil {
					doc.Education = append(doc.Education, *education)
				}
				parts := splitTrim(line, "|")
				education = &resume.EducationEntry{
					ID:          newID(),
					Degree:      part(parts, 0),
					Institution: part(parts, 1),
					Duration:    part(parts, 2),
				}
			case strings.HasPrefix(line, "•") && education != nil:
				education.Achievements = appendLine(education.Achievements, "\n", line)
			}

		case sectionSkills:
			for _, skill := range splitTrim(line, ",") {
				if skill == "" {
					continue
				}
				classifySkill(&doc.Skills, skill)
			}
		}
	}

	if experience != nil {
		doc.Experience = append(doc.Experience, *experience)
	}
	if education != nil {
		doc.Education = append(doc.Education, *education)
	}
	return doc
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func looksLikeName(line string) bool {
	upper := strings.ToUpper(line)
	n := utf8.RuneCountInString(line)
	return !strings.Contains(line, "@") &&
		!threeDigits.MatchString(line) &&
		!strings.Contains(upper, "RESUME") &&
		!strings.Contains(upper, "CV") &&
		n > 2 && n < 50
}

func looksLikeLocation(line string) bool {
	if strings.Contains(line, "@") || utf8.RuneCountInString(line) >= 100 {
		return false
	}
	if trailingState.MatchString(line) || strings.Contains(line, ",") ||
		strings.Contains(strings.ToLower(line), "city") {
		return true
	}
	for _, hint := range locationHints {
		if strings.Contains(line, hint) {
			return true
		}
	}
	return false
}

// sectionHeader recognizes short heading lines such as "WORK EXPERIENCE".
// List-like lines are never headers, so a skills line mentioning teamwork
// stays in the skills section.
func sectionHeader(line string) (section, bool) {
	if len(strings.Fields(line)) > 4 || strings.ContainsAny(line, ",|•") {
		return sectionNone, false
	}
	upper := strings.ToUpper(line)
	switch {
	case strings.Contains(upper, "EXPERIENCE") || strings.Contains(upper, "WORK"):
		return sectionExperience, true
	case strings.Contains(upper, "EDUCATION"):
		return sectionEducation, true
	case strings.Contains(upper, "SKILLS"):
		return sectionSkills, true
	}
	return sectionNone, false
}

// parseExperienceHeader handles "Position | Company | Dates" as well as
// "Position at Company 2019 - Present" and "Position - Company 2019 - 2021".
func parseExperienceHeader(line string) *resume.ExperienceEntry {
	entry := &resume.ExperienceEntry{}

	if strings.Contains(line, "|") {
		parts := splitTrim(line, "|")
		entry.Position = part(parts, 0)
		entry.Company = part(parts, 1)
		entry.Duration = part(parts, 2)
		return entry
	}

	loc := dateRangePattern.FindStringSubmatchIndex(line)
	if loc == nil {
		entry.Position = line
		return entry
	}

	entry.Duration = line[loc[2]:loc[3]]
	before := strings.TrimSpace(line[:loc[0]])
	switch {
	case strings.Contains(before, " at "):
		parts := strings.Split(before, " at ")
		entry.Position = strings.TrimSpace(parts[0])
		entry.Company = strings.TrimSpace(parts[1])
	case strings.Contains(before, " - "):
		parts := strings.Split(before, " - ")
		entry.Position = strings.TrimSpace(parts[0])
		entry.Company = strings.TrimSpace(parts[1])
	default:
		entry.Position = before
	}
	return entry
}

func classifySkill(skills *resume.Skills, skill string) {
	lower := strings.ToLower(skill)
	switch {
	case containsAny(lower, technicalSkills):
		skills.Technical = append(skills.Technical, skill)
	case containsAny(lower, softSkills):
		skills.Soft = append(skills.Soft, skill)
	default:
		skills.Tools = append(skills.Tools, skill)
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func part(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

func appendLine(existing, sep, line string) string {
	if existing == "" {
		return line
	}
	return existing + sep + line
}
