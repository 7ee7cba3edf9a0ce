// Package vision calls the image analysis service that turns meal photos into
// a structured list of food items with macro estimates.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"nutrack/internal/models"
)

// AnalysisError covers every failure mode of the analysis service:
// unreachable, misconfigured, rate limited, or malformed output. All of them
// are surfaced to the user as a retryable failure; no meal is created.
type AnalysisError struct {
	Reason string
	Err    error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("analysis failed: %s", e.Reason)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

type Analyzer interface {
	Analyze(ctx context.Context, images []models.AnalysisImage) (*models.AnalysisResult, error)
}

type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient() *Client {
	baseURL := os.Getenv("VISION_BASE_URL")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	model := os.Getenv("VISION_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Client{
		apiKey:  os.Getenv("VISION_API_KEY"),
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

const analysisPrompt = `Analyze these food images. Identify the dishes and estimate the nutritional content per serving shown. Be realistic with oil and sauce calories. Suggest a short meal name. Return the response as a valid JSON object with fields "items" (array of {name, calories, protein, carbs, fat, servingSize}) and "mealName".`

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type contentPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type generateContentRequest struct {
	Contents []struct {
		Parts []contentPart `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string `json:"response_mime_type"`
	} `json:"generationConfig"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// analysisPayload mirrors the JSON schema the model is prompted to produce.
type analysisPayload struct {
	Items []struct {
		Name        string  `json:"name"`
		Calories    float64 `json:"calories"`
		Protein     float64 `json:"protein"`
		Carbs       float64 `json:"carbs"`
		Fat         float64 `json:"fat"`
		ServingSize string  `json:"servingSize"`
	} `json:"items"`
	MealName string `json:"mealName"`
}

// Analyze submits the images and parses the structured response. Every error
// path returns an *AnalysisError.
func (c *Client) Analyze(ctx context.Context, images []models.AnalysisImage) (*models.AnalysisResult, error) {
	if c.apiKey == "" {
		return nil, &AnalysisError{Reason: "VISION_API_KEY not configured"}
	}
	if len(images) == 0 {
		return nil, &AnalysisError{Reason: "no images provided"}
	}

	var reqBody generateContentRequest
	parts := []contentPart{{Text: analysisPrompt}}
	for _, img := range images {
		parts = append(parts, contentPart{InlineData: &inlineData{
			MimeType: img.MimeType,
			Data:     base64.StdEncoding.EncodeToString(img.Data),
		}})
	}
	reqBody.Contents = []struct {
		Parts []contentPart `json:"parts"`
	}{{Parts: parts}}
	reqBody.GenerationConfig.ResponseMimeType = "application/json"

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &AnalysisError{Reason: "failed to marshal request", Err: err}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &AnalysisError{Reason: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AnalysisError{Reason: "analysis service unreachable", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AnalysisError{Reason: "failed to read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &AnalysisError{Reason: fmt.Sprintf("analysis service returned status %d: %s", resp.StatusCode, string(body))}
	}

	var genResp generateContentResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, &AnalysisError{Reason: "failed to parse response envelope", Err: err}
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, &AnalysisError{Reason: "no candidates returned"}
	}

	text := strings.TrimSpace(genResp.Candidates[0].Content.Parts[0].Text)
	// Models occasionally wrap the JSON in a markdown code fence.
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, &AnalysisError{Reason: "malformed analysis output", Err: err}
	}
	if len(payload.Items) == 0 {
		return nil, &AnalysisError{Reason: "analysis returned no food items"}
	}

	result := &models.AnalysisResult{MealName: payload.MealName}
	for _, item := range payload.Items {
		result.Items = append(result.Items, models.FoodItem{
			Name:        item.Name,
			Calories:    clampNonNegative(item.Calories),
			Protein:     clampNonNegative(item.Protein),
			Carbs:       clampNonNegative(item.Carbs),
			Fat:         clampNonNegative(item.Fat),
			ServingSize: item.ServingSize,
		})
	}
	return result, nil
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
