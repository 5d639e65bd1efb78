package models

import (
	"time"

	"github.com/lib/pq"
)

// Profile is one row per user, created lazily on first write.
type Profile struct {
	UserID         string  `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Bio            *string `gorm:"column:bio;type:text" json:"bio"`
	CurrentJobRole *string `gorm:"column:current_job_role;type:text" json:"current_job_role"`
	CareerSummary  *string `gorm:"column:career_summary;type:text" json:"career_summary"`

	Skills pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// HasContent reports whether any captured field is set.
func (p *Profile) HasContent() bool {
	if p == nil {
		return false
	}
	nonEmpty := func(s *string) bool { return s != nil && *s != "" }
	return nonEmpty(p.Bio) || nonEmpty(p.CurrentJobRole) || nonEmpty(p.CareerSummary) || len(p.Skills) > 0
}
