package provider

import (
	"bytes"
	"cancer-support-bot/internal/domain/apperrors"
	"cancer-support-bot/internal/domain/dto"
	"cancer-support-bot/internal/infra/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

var geminiSafetySettings = []dto.GeminiSafetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

var geminiGenerationConfig = dto.GeminiGenerationConfig{
	Temperature:     0.3,
	TopP:            0.8,
	TopK:            40,
	MaxOutputTokens: 1024,
}

// GeminiProvider calls the Gemini generateContent endpoint.
type GeminiProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	APIKey     string
	Model      string
	BaseURL    string
}

func NewGeminiProvider(logger *logger.Logger, httpClient *http.Client, apiKey, model, baseURL string) *GeminiProvider {
	return &GeminiProvider{
		Logger:     logger,
		HttpClient: httpClient,
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Generate sends prompt as a single user turn and returns the joined text of
// the first candidate. The caller bounds the call through ctx.
func (g *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if g.APIKey == "" {
		return "", apperrors.NewGenerationError("API key is not configured", nil)
	}
	if g.Model == "" {
		return "", apperrors.NewGenerationError("model is not configured", nil)
	}

	payload, err := json.Marshal(dto.GeminiRequest{
		Contents:         []dto.GeminiContent{{Role: "user", Parts: []dto.GeminiPart{{Text: prompt}}}},
		SafetySettings:   geminiSafetySettings,
		GenerationConfig: geminiGenerationConfig,
	})
	if err != nil {
		return "", apperrors.NewGenerationError("failed to marshal request", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent", g.BaseURL, g.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.NewGenerationError("failed to create HTTP request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	res, err := g.HttpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", apperrors.NewGenerationError("request timed out", err)
		}
		return "", apperrors.NewGenerationError("service unreachable", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", apperrors.NewGenerationError("failed to read response body", err)
	}

	if res.StatusCode != http.StatusOK {
		detail := statusDetail(res.StatusCode, body)
		g.Logger.Debug("Gemini returned an error status", logrus.Fields{"status": res.StatusCode, "response_body": string(body)})
		return "", apperrors.NewGenerationError(detail, nil)
	}

	var apiResp dto.GeminiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", apperrors.NewGenerationError("malformed response", err)
	}

	if apiResp.PromptFeedback != nil && apiResp.PromptFeedback.BlockReason != "" {
		return "", apperrors.NewGenerationError("prompt blocked by safety filter: "+apiResp.PromptFeedback.BlockReason, nil)
	}
	if len(apiResp.Candidates) == 0 {
		return "", apperrors.NewGenerationError("empty response", nil)
	}

	var sb strings.Builder
	for _, part := range apiResp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		reason := apiResp.Candidates[0].FinishReason
		if reason == "SAFETY" {
			return "", apperrors.NewGenerationError("response blocked by safety filter", nil)
		}
		return "", apperrors.NewGenerationError("empty response", nil)
	}

	return text, nil
}

func statusDetail(status int, body []byte) string {
	var apiErr dto.GeminiErrorResponse
	message := ""
	if json.Unmarshal(body, &apiErr) == nil {
		message = apiErr.Error.Message
	}

	var detail string
	switch {
	case status == http.StatusTooManyRequests:
		detail = "rate limited"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		detail = "authentication failed"
	default:
		detail = fmt.Sprintf("unexpected HTTP status %d", status)
	}
	if message != "" {
		detail += ": " + message
	}
	return detail
}
