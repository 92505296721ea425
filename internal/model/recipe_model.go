package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Recipe struct {
	Id                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                 string          `gorm:"type:varchar(255);not null"`
	NameLocalized        string          `gorm:"type:varchar(255)"`
	Description          string          `gorm:"type:text"`
	DescriptionLocalized string          `gorm:"type:text"`
	Ingredients          datatypes.JSON  `gorm:"type:jsonb"`
	Steps                datatypes.JSON  `gorm:"type:jsonb"`
	Minutes              int             `gorm:"default:0"`
	Servings             int             `gorm:"default:0"`
	Difficulty           string          `gorm:"type:varchar(16)"`
	Tags                 datatypes.JSON  `gorm:"type:jsonb"`
	AllergyFlags         datatypes.JSON  `gorm:"type:jsonb"`
	Provenance           string          `gorm:"type:varchar(32);not null;default:'corpus';index"`
	Embedding            pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text uses 768 dimensions
	CreatedAt            time.Time       `gorm:"autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime"`
	DeletedAt            gorm.DeletedAt  `gorm:"index"`
}

func (Recipe) TableName() string {
	return "recipes"
}
