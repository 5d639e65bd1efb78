package models

import (
	"time"

	"github.com/lib/pq"
)

// WorkExperience rows are append-only from extraction.
type WorkExperience struct {
	ID        string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    string  `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Company   string  `gorm:"column:company;type:text;not null" json:"company"`
	Role      string  `gorm:"column:role;type:text;not null" json:"role"`
	StartDate *string `gorm:"column:start_date;type:text" json:"start_date"` // YYYY-MM
	EndDate   *string `gorm:"column:end_date;type:text" json:"end_date"`

	Responsibilities pq.StringArray `gorm:"column:responsibilities;type:text[]" json:"responsibilities"`
	Achievements     pq.StringArray `gorm:"column:achievements;type:text[]" json:"achievements"`

	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (WorkExperience) TableName() string { return "work_experience" }
