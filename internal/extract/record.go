package extract

// Kind names one of the record shapes the assistant can emit.
type Kind string

const (
	KindWorkExperience Kind = "work_experience"
	KindProject        Kind = "project"
	KindProfile        Kind = "profile"
)

// Record is a classified payload. The only implementations are
// WorkExperience, Project and Profile.
type Record interface {
	Kind() Kind
	record()
}

type WorkExperience struct {
	Company          string   `json:"company"`
	Role             string   `json:"role"`
	StartDate        *string  `json:"start_date,omitempty"` // YYYY-MM
	EndDate          *string  `json:"end_date,omitempty"`
	Responsibilities []string `json:"responsibilities"`
	Achievements     []string `json:"achievements"`
}

type Project struct {
	Title        string   `json:"title"`
	Description  *string  `json:"description,omitempty"`
	Impact       *string  `json:"impact,omitempty"`
	Technologies []string `json:"technologies"`
}

// Profile carries only the fields present in the payload; nil means absent.
type Profile struct {
	Bio            *string  `json:"bio,omitempty"`
	CurrentJobRole *string  `json:"current_job_role,omitempty"`
	CareerSummary  *string  `json:"career_summary,omitempty"`
	Skills         []string `json:"skills,omitempty"`
}

func (WorkExperience) Kind() Kind { return KindWorkExperience }
func (Project) Kind() Kind        { return KindProject }
func (Profile) Kind() Kind        { return KindProfile }

func (WorkExperience) record() {}
func (Project) record()        {}
func (Profile) record()        {}
