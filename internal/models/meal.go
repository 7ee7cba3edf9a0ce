package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// FoodItem is a value type with no identity beyond its position in a meal's
// item list.
type FoodItem struct {
	Name        string  `json:"name" example:"Grilled chicken"`
	Calories    float64 `json:"calories" example:"350"`
	Protein     float64 `json:"protein" example:"32"`
	Carbs       float64 `json:"carbs" example:"5"`
	Fat         float64 `json:"fat" example:"20"`
	ServingSize string  `json:"serving_size,omitempty" example:"1 breast"`
}

// FoodItems is stored as a JSON array column on the meal row.
type FoodItems []FoodItem

func (f FoodItems) Value() (driver.Value, error) {
	if f == nil {
		f = FoodItems{}
	}
	return json.Marshal(f)
}

func (f *FoodItems) Scan(value interface{}) error {
	if value == nil {
		*f = FoodItems{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("unsupported type for FoodItems: %T", value)
	}
}

type Meal struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id" example:"0b9fe3f0-5ab9-4a56-a2a5-8708e3a3a1f4"`
	CreatedAt time.Time      `json:"created_at" example:"2023-01-01T00:00:00Z"`
	UpdatedAt time.Time      `json:"updated_at" example:"2023-01-01T00:00:00Z"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-" swaggerignore:"true"`
	UserID    uint           `gorm:"not null;index" json:"user_id" example:"1"`

	// Date is the calendar day, Timestamp (unix ms) is the authoritative
	// ordering key.
	Date      string `gorm:"size:10;index" json:"date" example:"2023-01-01"`
	Timestamp int64  `gorm:"index" json:"timestamp" example:"1700000000000"`
	Name      string `gorm:"size:255" json:"name" example:"Lunch"`

	Items FoodItems `gorm:"type:jsonb" json:"items"`

	// Totals are recomputed server-side from Items on every create and update.
	TotalCalories float64 `json:"total_calories" example:"650"`
	TotalProtein  float64 `json:"total_protein" example:"45"`
	TotalCarbs    float64 `json:"total_carbs" example:"60"`
	TotalFat      float64 `json:"total_fat" example:"22"`

	ImageURL *string `gorm:"size:512" json:"image_url,omitempty"`
}

func (Meal) TableName() string {
	return "meals"
}

// HasImage reports whether the meal was logged with a photo. Photo-dependent
// badges count meals through this predicate.
func (m *Meal) HasImage() bool {
	return m.ImageURL != nil && *m.ImageURL != ""
}

// ComputeTotals sums the item macros into the meal totals.
func (m *Meal) ComputeTotals() {
	var calories, protein, carbs, fat float64
	for _, item := range m.Items {
		calories += item.Calories
		protein += item.Protein
		carbs += item.Carbs
		fat += item.Fat
	}
	m.TotalCalories = calories
	m.TotalProtein = protein
	m.TotalCarbs = carbs
	m.TotalFat = fat
}
