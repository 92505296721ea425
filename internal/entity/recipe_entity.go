package entity

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	Id                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                 string
	NameLocalized        string
	Description          string
	DescriptionLocalized string
	Ingredients          []string
	Steps                []string
	Minutes              int
	Servings             int
	Difficulty           string
	Tags                 []string
	AllergyFlags         []string
	Provenance           string
	Embedding            []float32
	CreatedAt            time.Time
	UpdatedAt            *time.Time
	DeletedAt            *time.Time
	IsDeleted            bool
}
