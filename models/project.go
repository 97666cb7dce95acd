package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project represents a portfolio entry with its technologies and images
type Project struct {
	ID                uint                        `json:"id" gorm:"primaryKey"`
	Title             string                      `json:"title" gorm:"type:text;not null"`
	Description       string                      `json:"description" gorm:"type:text;not null"`
	LinkRepo          string                      `json:"linkRepo" gorm:"type:text"`
	LinkDemo          string                      `json:"linkDemo" gorm:"type:text"`
	ProjectDate       time.Time                   `json:"projectDate" gorm:"not null;index"`
	Proposito         *string                     `json:"proposito,omitempty" gorm:"type:text"`
	Aprendizados      datatypes.JSONSlice[string] `json:"aprendizados,omitempty"`
	MediaPrincipalURL *string                     `json:"media_principal_url,omitempty" gorm:"column:media_principal_url;type:text"`
	Status            ProjectStatus               `json:"status" gorm:"type:text;not null;default:CONCLUIDO"`
	CreatedAt         time.Time                   `json:"createdAt" gorm:"index"`
	Technologies      []TechnologyOnProject       `json:"technologies" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Images            []Image                     `json:"images" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// TechnologyOnProject links a project to a technology.
type TechnologyOnProject struct {
	ProjectID    uint       `json:"projectId" gorm:"primaryKey;autoIncrement:false"`
	TechnologyID uint       `json:"technologyId" gorm:"primaryKey;autoIncrement:false;index"`
	Technology   Technology `json:"technology" gorm:"foreignKey:TechnologyID;references:ID;constraint:OnDelete:CASCADE"`
}

// Image belongs to exactly one project and goes away with it.
type Image struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	ProjectID uint    `json:"projectId" gorm:"not null;index"`
	URL       string  `json:"url" gorm:"type:text;not null"`
	AltText   *string `json:"altText,omitempty" gorm:"type:text"`
}
