package models

import (
	"time"
)

// Field limits shared by the schema and the serializer.
const (
	RecipeNameMaxLength        = 200
	RecipeDescriptionMaxLength = 2000
	IngredientNameMaxLength    = 200
)

type Recipe struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
	Name        string       `gorm:"size:200;not null" json:"name"`
	Description string       `gorm:"size:2000;not null" json:"description"`
	Ingredients []Ingredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

// Ingredient belongs to exactly one Recipe.
type Ingredient struct {
	ID       uint   `gorm:"primarykey" json:"-"`
	Name     string `gorm:"size:200;not null" json:"name"`
	RecipeID uint   `gorm:"not null;index" json:"-"`
}
