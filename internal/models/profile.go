package models

// Profile is the structured candidate summary extracted from anonymized resume
// text. Every field may be empty; a degraded-but-valid profile is still a profile.
type Profile struct {
	Skills          []string  `json:"skills"`
	Projects        []Project `json:"projects"`
	ExperienceYears *int      `json:"experience_years"`
	Education       []string  `json:"education"`
	Summary         string    `json:"summary"`
}

type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   []string `json:"tech_stack"`
	Role        string   `json:"role"`
	Years       string   `json:"years"`
}
