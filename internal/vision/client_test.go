package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nutrack/internal/models"

	"github.com/stretchr/testify/assert"
)

func testClient(serverURL string) *Client {
	return &Client{
		apiKey:     "test-key",
		baseURL:    serverURL,
		model:      "test-model",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func candidateResponse(text string) string {
	resp := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{
						{"text": text},
					},
				},
			},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func sampleImages() []models.AnalysisImage {
	return []models.AnalysisImage{
		{Data: []byte("fake image bytes"), MimeType: "image/jpeg"},
	}
}

func TestAnalyzeParsesStructuredOutput(t *testing.T) {
	payload := `{"items":[{"name":"Grilled chicken","calories":350,"protein":32,"carbs":5,"fat":20,"servingSize":"1 breast"}],"mealName":"Chicken lunch"}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "test-model")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req, "contents")

		w.Write([]byte(candidateResponse(payload)))
	}))
	defer server.Close()

	client := testClient(server.URL)
	result, err := client.Analyze(context.Background(), sampleImages())

	assert.NoError(t, err)
	assert.Equal(t, "Chicken lunch", result.MealName)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, "Grilled chicken", result.Items[0].Name)
	assert.Equal(t, float64(350), result.Items[0].Calories)
	assert.Equal(t, "1 breast", result.Items[0].ServingSize)
}

func TestAnalyzeStripsMarkdownFence(t *testing.T) {
	payload := "```json\n{\"items\":[{\"name\":\"Salad\",\"calories\":120,\"protein\":3,\"carbs\":10,\"fat\":8}],\"mealName\":\"Salad\"}\n```"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateResponse(payload)))
	}))
	defer server.Close()

	client := testClient(server.URL)
	result, err := client.Analyze(context.Background(), sampleImages())

	assert.NoError(t, err)
	assert.Equal(t, "Salad", result.MealName)
}

func TestAnalyzeClampsNegativeMacros(t *testing.T) {
	payload := `{"items":[{"name":"Oddity","calories":-50,"protein":-1,"carbs":12,"fat":0}],"mealName":"Oddity"}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateResponse(payload)))
	}))
	defer server.Close()

	client := testClient(server.URL)
	result, err := client.Analyze(context.Background(), sampleImages())

	assert.NoError(t, err)
	assert.Equal(t, float64(0), result.Items[0].Calories)
	assert.Equal(t, float64(0), result.Items[0].Protein)
	assert.Equal(t, float64(12), result.Items[0].Carbs)
}

func TestAnalyzeErrorPaths(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		reason  string
	}{
		{
			name: "service error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"quota exceeded"}`))
			},
			reason: "status 429",
		},
		{
			name: "malformed envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json at all"))
			},
			reason: "envelope",
		},
		{
			name: "no candidates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"candidates":[]}`))
			},
			reason: "no candidates",
		},
		{
			name: "malformed analysis output",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(candidateResponse("I could not identify any food")))
			},
			reason: "malformed analysis output",
		},
		{
			name: "empty item list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(candidateResponse(`{"items":[],"mealName":""}`)))
			},
			reason: "no food items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := testClient(server.URL)
			result, err := client.Analyze(context.Background(), sampleImages())

			assert.Nil(t, result)
			assert.Error(t, err)

			var analysisErr *AnalysisError
			assert.ErrorAs(t, err, &analysisErr)
			assert.Contains(t, analysisErr.Reason, tt.reason)
		})
	}
}

func TestAnalyzeRequiresAPIKey(t *testing.T) {
	client := &Client{httpClient: &http.Client{}}
	result, err := client.Analyze(context.Background(), sampleImages())

	assert.Nil(t, result)
	var analysisErr *AnalysisError
	assert.ErrorAs(t, err, &analysisErr)
	assert.Contains(t, analysisErr.Reason, "VISION_API_KEY")
}

func TestAnalyzeRequiresImages(t *testing.T) {
	client := testClient("http://localhost:0")
	result, err := client.Analyze(context.Background(), nil)

	assert.Nil(t, result)
	var analysisErr *AnalysisError
	assert.ErrorAs(t, err, &analysisErr)
	assert.Contains(t, analysisErr.Reason, "no images")
}
