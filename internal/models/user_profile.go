package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// BadgeList stores the set of earned badge ids as a JSON array column.
// The set only grows; badges are never removed once earned.
type BadgeList []string

func (b BadgeList) Value() (driver.Value, error) {
	if b == nil {
		b = BadgeList{}
	}
	return json.Marshal(b)
}

func (b *BadgeList) Scan(value interface{}) error {
	if value == nil {
		*b = BadgeList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("unsupported type for BadgeList: %T", value)
	}
}

func (b BadgeList) Contains(id string) bool {
	for _, earned := range b {
		if earned == id {
			return true
		}
	}
	return false
}

type UserProfile struct {
	ID        uint           `gorm:"primaryKey" json:"id" example:"1"`
	CreatedAt time.Time      `json:"created_at" example:"2023-01-01T00:00:00Z"`
	UpdatedAt time.Time      `json:"updated_at" example:"2023-01-01T00:00:00Z"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-" swaggerignore:"true"`
	UserID    uint           `gorm:"unique" json:"user_id" example:"1"`
	Name      string         `gorm:"size:255" json:"name" example:"Alex"`

	// Biometrics
	Age           int     `json:"age" example:"30"`
	Sex           string  `gorm:"size:10" json:"sex" example:"male"`
	Weight        float64 `json:"weight" example:"80"`
	Height        float64 `json:"height" example:"180"`
	ActivityLevel string  `gorm:"size:20" json:"activity_level" example:"moderate"`
	GoalType      string  `gorm:"size:20" json:"goal_type" example:"maintenance"`

	// Derived daily targets, rewritten whenever biometrics or goal type change.
	// Never edited directly.
	GoalCalories int `json:"goal_calories" example:"2759"`
	GoalProtein  int `json:"goal_protein" example:"207"`
	GoalCarbs    int `json:"goal_carbs" example:"241"`
	GoalFat      int `json:"goal_fat" example:"107"`

	// Engagement state. Checkpoint timestamps are unix milliseconds.
	Streak              int       `gorm:"default:1" json:"streak" example:"1"`
	LastLoginCheckpoint int64     `json:"last_login_checkpoint" example:"1700000000000"`
	LastMealCheckpoint  int64     `json:"last_meal_checkpoint" example:"1700000000000"`
	EarnedBadges        BadgeList `gorm:"type:jsonb;default:'[]'" json:"earned_badges" swaggertype:"array,string"`
	TotalMealsLogged    int       `json:"total_meals_logged" example:"0"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
