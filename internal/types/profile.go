package types

// Profile is the structured applicant profile extracted from a resume or
// edited directly by the user. It is stored as JSONB and passed verbatim to
// the scoring and tailoring stages.
type Profile struct {
	Summary    string            `json:"summary,omitempty"`
	Skills     []string          `json:"skills"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
	Projects   []ProjectEntry    `json:"projects,omitempty"`
}

// ExperienceEntry is one role in the applicant's work history.
type ExperienceEntry struct {
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Description []string `json:"description,omitempty"`
}

// EducationEntry is one institution in the applicant's education history.
type EducationEntry struct {
	Institution string   `json:"institution"`
	Details     []string `json:"details,omitempty"`
}

// ProjectEntry is one personal or professional project.
type ProjectEntry struct {
	Name        string   `json:"name"`
	Description []string `json:"description,omitempty"`
}

// IsEmpty reports whether the profile carries no usable signal for scoring.
func (p *Profile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.Summary == "" && len(p.Skills) == 0 && len(p.Experience) == 0 &&
		len(p.Education) == 0 && len(p.Projects) == 0
}
