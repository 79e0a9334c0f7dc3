package model

import "time"

// CurrentResumeVersion is the schema version written on every save.
// Bump it when ResumeData changes shape; readers can then migrate old rows.
const CurrentResumeVersion = 1

// Resume is the single persisted resume document for a user.
//
// There is at most one Resume per user (user_id is UNIQUE in the store) and
// writes are whole-document upserts: the first save inserts the row, every
// later save replaces Data wholesale. PDF uploads touch only PDFURL.
type Resume struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Data      ResumeData `json:"data"`
	PDFURL    string     `json:"pdf_url,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ResumeData is the typed, versioned resume schema.
//
// The sections and their fields match what the builder UI collects: a block
// of contact scalars, a free-text summary, and ordered entry lists for
// experience, education, skills, projects and languages. Every field is
// optional — a half-finished resume is a perfectly valid document — but the
// validator tags bound lengths and counts so a hostile client cannot stuff
// megabytes into a "phone number".
type ResumeData struct {
	Version  int    `json:"version"`
	Name     string `json:"name"     validate:"max=200"`
	Title    string `json:"title"    validate:"max=200"`
	Email    string `json:"email"    validate:"omitempty,email,max=254"`
	Phone    string `json:"phone"    validate:"max=50"`
	Location string `json:"location" validate:"max=200"`
	LinkedIn string `json:"linkedin" validate:"max=300"`
	Summary  string `json:"summary"  validate:"max=5000"`

	Experience []ExperienceEntry `json:"experience" validate:"max=50,dive"`
	Education  []EducationEntry  `json:"education"  validate:"max=50,dive"`
	Skills     []SkillEntry      `json:"skills"     validate:"max=100,dive"`
	Projects   []ProjectEntry    `json:"projects"   validate:"max=50,dive"`
	Languages  []LanguageEntry   `json:"languages,omitempty" validate:"max=50,dive"`
}

// ExperienceEntry is one position in the work history list.
type ExperienceEntry struct {
	Company     string `json:"company"     validate:"max=200"`
	Position    string `json:"position"    validate:"max=200"`
	Duration    string `json:"duration"    validate:"max=100"`
	Description string `json:"description" validate:"max=5000"`
}

// EducationEntry is one entry in the education list.
type EducationEntry struct {
	Institution string `json:"institution" validate:"max=200"`
	Degree      string `json:"degree"      validate:"max=200"`
	Year        string `json:"year"        validate:"max=50"`
	GPA         string `json:"gpa"         validate:"max=20"`
}

// SkillEntry is a named skill with a freeform proficiency level.
type SkillEntry struct {
	Name  string `json:"name"  validate:"max=100"`
	Level string `json:"level" validate:"max=100"`
}

// ProjectEntry is one portfolio project.
type ProjectEntry struct {
	Name        string `json:"name"        validate:"max=200"`
	Description string `json:"description" validate:"max=5000"`
	Tech        string `json:"tech"        validate:"max=500"`
}

// LanguageEntry is a spoken language and proficiency.
type LanguageEntry struct {
	Name        string `json:"name"        validate:"max=100"`
	Proficiency string `json:"proficiency" validate:"max=100"`
}

// EmptyResumeData returns a fresh draft with one blank entry per list, the
// shape the builder starts from. Keeping at least one entry in each list is
// what makes the editing UI stable — you can always type into "the first
// experience" without creating it first.
func EmptyResumeData() ResumeData {
	return ResumeData{
		Version:    CurrentResumeVersion,
		Experience: []ExperienceEntry{{}},
		Education:  []EducationEntry{{}},
		Skills:     []SkillEntry{{}},
		Projects:   []ProjectEntry{{}},
		Languages:  []LanguageEntry{{}},
	}
}
