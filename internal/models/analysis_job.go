package models

import (
	"time"

	"gorm.io/gorm"
)

type AnalysisJob struct {
	ID           string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Status       string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Progress     int            `gorm:"default:0" json:"progress"`
	CurrentStep  string         `gorm:"size:100" json:"current_step,omitempty"`
	ImageCount   int            `json:"image_count"`
	ErrorMessage *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-" swaggerignore:"true"`
}

// Job status constants
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
	JobStatusCancelled  = "cancelled"
)

// Job step descriptions reported through the progress endpoint
const (
	JobStepDecodingImages  = "Decoding images"
	JobStepAnalyzingImages = "Analyzing images"
	JobStepSavingResults   = "Saving results"
)

func (aj *AnalysisJob) TableName() string {
	return "analysis_jobs"
}

// AnalysisJobRequest represents a queued unit of work for the worker pool.
// Images are raw bytes, already base64-decoded by the controller.
type AnalysisJobRequest struct {
	JobID  string
	UserID uint
	Images []AnalysisImage
}

type AnalysisImage struct {
	Data     []byte
	MimeType string
}

// AnalysisResult is what the vision service returns for a set of meal photos.
// It is cached in Redis until the client collects it.
type AnalysisResult struct {
	Items    []FoodItem `json:"items"`
	MealName string     `json:"meal_name"`
}
