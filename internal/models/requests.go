package models

// ProfileInput is the onboarding / settings payload. Goals are never accepted
// from the client; they are derived from these fields.
type ProfileInput struct {
	Name          string  `json:"name" binding:"required"`
	Age           int     `json:"age" binding:"required"`
	Sex           string  `json:"sex" binding:"required,oneof=male female"`
	Weight        float64 `json:"weight" binding:"required"`
	Height        float64 `json:"height" binding:"required"`
	ActivityLevel string  `json:"activity_level" binding:"required,oneof=sedentary light moderate active extra"`
	GoalType      string  `json:"goal_type" binding:"required,oneof=weight_loss maintenance muscle_gain"`
}

// MealInput creates or fully replaces a meal. Totals are computed server-side.
type MealInput struct {
	Name  string     `json:"name"`
	Items []FoodItem `json:"items" binding:"required,min=1"`

	// Optional photo, base64 encoded. Upload failure is soft: the meal is
	// saved without an image.
	ImageBase64   string `json:"image_base64,omitempty"`
	ImageMimeType string `json:"image_mime_type,omitempty"`
}

// AnalysisInput submits one or more meal photos for asynchronous analysis.
type AnalysisInput struct {
	Images []AnalysisImageInput `json:"images" binding:"required,min=1,max=4"`
}

type AnalysisImageInput struct {
	Base64   string `json:"base64" binding:"required"`
	MimeType string `json:"mime_type" binding:"required"`
}
