// Package wizard implements the resume builder's form state: a six-step
// walk over the sections of a model.ResumeData draft, with the editing
// operations the form exposes and the visibility rules the live preview
// uses.
//
// The wizard never talks to the network or the store — it owns exactly one
// in-memory draft. Callers load a saved document into it, mutate it through
// the Set/Add/Remove operations, and persist the Data field when the user
// hits save.
package wizard

import (
	"fmt"
	"strings"

	"github.com/sakif/careercraft/internal/model"
)

// Section identifies one step of the builder. The order here is the order
// the form walks through.
type Section int

const (
	SectionContact Section = iota
	SectionSummary
	SectionExperience
	SectionEducation
	SectionSkills
	SectionProjects

	sectionCount
)

var sectionNames = [...]string{"Contact", "Summary", "Experience", "Education", "Skills", "Projects"}

// String returns the section's display name.
func (s Section) String() string {
	if s < 0 || s >= sectionCount {
		return fmt.Sprintf("Section(%d)", int(s))
	}
	return sectionNames[s]
}

// Sections returns all steps in display order.
func Sections() []Section {
	out := make([]Section, sectionCount)
	for i := range out {
		out[i] = Section(i)
	}
	return out
}

// Wizard holds one resume draft and the current step.
type Wizard struct {
	step Section
	Data model.ResumeData
}

// New starts a wizard on a fresh draft: every list pre-seeded with one
// blank entry so the form always has a row to type into.
func New() *Wizard {
	return &Wizard{Data: model.EmptyResumeData()}
}

// Load starts a wizard on a previously saved document. Empty lists are
// re-seeded with one blank entry, restoring the always-one-row invariant
// for documents saved by older clients.
func Load(data model.ResumeData) *Wizard {
	if len(data.Experience) == 0 {
		data.Experience = []model.ExperienceEntry{{}}
	}
	if len(data.Education) == 0 {
		data.Education = []model.EducationEntry{{}}
	}
	if len(data.Skills) == 0 {
		data.Skills = []model.SkillEntry{{}}
	}
	if len(data.Projects) == 0 {
		data.Projects = []model.ProjectEntry{{}}
	}
	return &Wizard{Data: data}
}

// Step returns the current section.
func (w *Wizard) Step() Section {
	return w.step
}

// Next advances one step, saturating at the last section. There is no
// validation gating — a user may reach Projects with Contact untouched.
func (w *Wizard) Next() {
	if w.step < sectionCount-1 {
		w.step++
	}
}

// Prev goes back one step, saturating at the first section.
func (w *Wizard) Prev() {
	if w.step > 0 {
		w.step--
	}
}

// SetField sets one of the scalar fields by its JSON name.
func (w *Wizard) SetField(field, value string) error {
	switch field {
	case "name":
		w.Data.Name = value
	case "title":
		w.Data.Title = value
	case "email":
		w.Data.Email = value
	case "phone":
		w.Data.Phone = value
	case "location":
		w.Data.Location = value
	case "linkedin":
		w.Data.LinkedIn = value
	case "summary":
		w.Data.Summary = value
	default:
		return fmt.Errorf("wizard: unknown field %q", field)
	}
	return nil
}

// SetListField sets one field of one entry in a list section.
func (w *Wizard) SetListField(section Section, index int, field, value string) error {
	switch section {
	case SectionExperience:
		if index < 0 || index >= len(w.Data.Experience) {
			return indexError(section, index)
		}
		e := &w.Data.Experience[index]
		switch field {
		case "company":
			e.Company = value
		case "position":
			e.Position = value
		case "duration":
			e.Duration = value
		case "description":
			e.Description = value
		default:
			return fieldError(section, field)
		}

	case SectionEducation:
		if index < 0 || index >= len(w.Data.Education) {
			return indexError(section, index)
		}
		e := &w.Data.Education[index]
		switch field {
		case "institution":
			e.Institution = value
		case "degree":
			e.Degree = value
		case "year":
			e.Year = value
		case "gpa":
			e.GPA = value
		default:
			return fieldError(section, field)
		}

	case SectionSkills:
		if index < 0 || index >= len(w.Data.Skills) {
			return indexError(section, index)
		}
		e := &w.Data.Skills[index]
		switch field {
		case "name":
			e.Name = value
		case "level":
			e.Level = value
		default:
			return fieldError(section, field)
		}

	case SectionProjects:
		if index < 0 || index >= len(w.Data.Projects) {
			return indexError(section, index)
		}
		e := &w.Data.Projects[index]
		switch field {
		case "name":
			e.Name = value
		case "description":
			e.Description = value
		case "tech":
			e.Tech = value
		default:
			return fieldError(section, field)
		}

	default:
		return fmt.Errorf("wizard: %s is not a list section", section)
	}
	return nil
}

// AddExperience appends an entry seeded from tmpl.
func (w *Wizard) AddExperience(tmpl model.ExperienceEntry) {
	w.Data.Experience = append(w.Data.Experience, tmpl)
}

// AddEducation appends an entry seeded from tmpl.
func (w *Wizard) AddEducation(tmpl model.EducationEntry) {
	w.Data.Education = append(w.Data.Education, tmpl)
}

// AddSkill appends an entry seeded from tmpl.
func (w *Wizard) AddSkill(tmpl model.SkillEntry) {
	w.Data.Skills = append(w.Data.Skills, tmpl)
}

// AddProject appends an entry seeded from tmpl.
func (w *Wizard) AddProject(tmpl model.ProjectEntry) {
	w.Data.Projects = append(w.Data.Projects, tmpl)
}

// AddItem appends a blank entry to a list section. The form's "Add"
// buttons start from an empty template; callers with prefilled values
// use the typed Add* variants directly.
func (w *Wizard) AddItem(section Section) error {
	switch section {
	case SectionExperience:
		w.AddExperience(model.ExperienceEntry{})
	case SectionEducation:
		w.AddEducation(model.EducationEntry{})
	case SectionSkills:
		w.AddSkill(model.SkillEntry{})
	case SectionProjects:
		w.AddProject(model.ProjectEntry{})
	default:
		return fmt.Errorf("wizard: %s is not a list section", section)
	}
	return nil
}

// RemoveItem deletes the entry at index from a list section.
//
// The last remaining entry cannot be removed — the form and the preview
// both assume each list has at least one row.
func (w *Wizard) RemoveItem(section Section, index int) error {
	switch section {
	case SectionExperience:
		if len(w.Data.Experience) <= 1 {
			return lastItemError(section)
		}
		if index < 0 || index >= len(w.Data.Experience) {
			return indexError(section, index)
		}
		w.Data.Experience = append(w.Data.Experience[:index], w.Data.Experience[index+1:]...)

	case SectionEducation:
		if len(w.Data.Education) <= 1 {
			return lastItemError(section)
		}
		if index < 0 || index >= len(w.Data.Education) {
			return indexError(section, index)
		}
		w.Data.Education = append(w.Data.Education[:index], w.Data.Education[index+1:]...)

	case SectionSkills:
		if len(w.Data.Skills) <= 1 {
			return lastItemError(section)
		}
		if index < 0 || index >= len(w.Data.Skills) {
			return indexError(section, index)
		}
		w.Data.Skills = append(w.Data.Skills[:index], w.Data.Skills[index+1:]...)

	case SectionProjects:
		if len(w.Data.Projects) <= 1 {
			return lastItemError(section)
		}
		if index < 0 || index >= len(w.Data.Projects) {
			return indexError(section, index)
		}
		w.Data.Projects = append(w.Data.Projects[:index], w.Data.Projects[index+1:]...)

	default:
		return fmt.Errorf("wizard: %s is not a list section", section)
	}
	return nil
}

// SectionVisible reports whether a section should appear in the preview:
// only once its first required field is non-empty. A list section shows as
// soon as ANY entry has its leading field filled in.
func (w *Wizard) SectionVisible(section Section) bool {
	switch section {
	case SectionContact:
		return strings.TrimSpace(w.Data.Name) != ""
	case SectionSummary:
		return strings.TrimSpace(w.Data.Summary) != ""
	case SectionExperience:
		for _, e := range w.Data.Experience {
			if strings.TrimSpace(e.Company) != "" {
				return true
			}
		}
	case SectionEducation:
		for _, e := range w.Data.Education {
			if strings.TrimSpace(e.Institution) != "" {
				return true
			}
		}
	case SectionSkills:
		for _, e := range w.Data.Skills {
			if strings.TrimSpace(e.Name) != "" {
				return true
			}
		}
	case SectionProjects:
		for _, e := range w.Data.Projects {
			if strings.TrimSpace(e.Name) != "" {
				return true
			}
		}
	}
	return false
}

// VisibleSections returns the sections the preview should render, in order.
func (w *Wizard) VisibleSections() []Section {
	var out []Section
	for _, s := range Sections() {
		if w.SectionVisible(s) {
			out = append(out, s)
		}
	}
	return out
}

func indexError(section Section, index int) error {
	return fmt.Errorf("wizard: %s has no entry %d", section, index)
}

func fieldError(section Section, field string) error {
	return fmt.Errorf("wizard: %s has no field %q", section, field)
}

func lastItemError(section Section) error {
	return fmt.Errorf("wizard: cannot remove the last %s entry", section)
}
