package models

import (
	"time"

	"github.com/lib/pq"
)

type Project struct {
	ID          string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID      string  `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Title       string  `gorm:"column:title;type:text;not null" json:"title"`
	Description *string `gorm:"column:description;type:text" json:"description"`
	Impact      *string `gorm:"column:impact;type:text" json:"impact"`

	Technologies pq.StringArray `gorm:"column:technologies;type:text[]" json:"technologies"`

	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }
