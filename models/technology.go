package models

// DefaultTechnologyCategory is assigned to technologies created implicitly from a project.
const DefaultTechnologyCategory = "Outros"

// Technology is a skill that projects can reference.
type Technology struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	Name            string  `json:"name" gorm:"type:text;not null;uniqueIndex"`
	Category        string  `json:"category" gorm:"type:text;not null"`
	Icon            *string `json:"icon,omitempty" gorm:"type:text"`
	Color           *string `json:"color,omitempty" gorm:"type:text"`
	ShowInPortfolio bool    `json:"showInPortfolio" gorm:"not null;default:false"`
}
