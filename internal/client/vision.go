package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quickmoney-backend/internal/config"
)

// NotFound is the sentinel the classifier is instructed to return in either
// field when the screenshot does not contain unambiguous values.
const NotFound = "not_found"

const visionMaxAttempts = 2

var (
	// ErrClassifierUnavailable covers transport failures, timeouts and
	// non-2xx replies. Callers must treat it as "verification inconclusive",
	// never as a rejection.
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	// ErrBadExtraction means the classifier replied but the payload does not
	// parse as the expected two-field JSON object.
	ErrBadExtraction = errors.New("classifier reply not parseable")
)

// ExtractionResult is the structured pair pulled out of a payment screenshot.
type ExtractionResult struct {
	Amount   string `json:"amount"`
	CardName string `json:"cardName"`
}

func (r *ExtractionResult) Found() bool {
	return r.Amount != NotFound && r.CardName != NotFound
}

type VisionClient interface {
	ExtractPayment(ctx context.Context, screenshotURL string) (*ExtractionResult, error)
}

type visionClientImpl struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	prompt     string
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewVisionClient(cfg *config.Classifier, cardTitles []string) VisionClient {
	return &visionClientImpl{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		prompt:  buildPrompt(cardTitles),
	}
}

func buildPrompt(cardTitles []string) string {
	quoted := make([]string, len(cardTitles))
	for i, title := range cardTitles {
		quoted[i] = fmt.Sprintf("%q", title)
	}

	return fmt.Sprintf(`Analyze this payment screenshot and extract:
1. The exact payment amount (look for ₹ symbol followed by numbers, could be like ₹100.01, ₹200.01, etc.)
2. The payment description/note/remark that mentions the card name (could be %s)

Return ONLY a JSON object with this exact format:
{
  "amount": "100.01",
  "cardName": "Starter Card"
}

If you cannot find the amount or card name clearly, return:
{
  "amount": "not_found",
  "cardName": "not_found"
}`, strings.Join(quoted, " or "))
}

// ExtractPayment issues one synchronous completion request with the fixed
// extraction instruction and the screenshot URL. Transport errors, 429 and
// 5xx replies get a single retry before surfacing ErrClassifierUnavailable.
func (c *visionClientImpl) ExtractPayment(ctx context.Context, screenshotURL string) (*ExtractionResult, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: c.prompt},
					{Type: "image_url", ImageURL: &imageURL{URL: screenshotURL}},
				},
			},
		},
		MaxTokens: 200,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < visionMaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("http new request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: read response: %v", ErrClassifierUnavailable, err)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("%w: status %d: %s", ErrClassifierUnavailable, resp.StatusCode, string(respBody))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return nil, lastErr
		}

		return parseExtraction(respBody)
	}

	return nil, lastErr
}

func parseExtraction(respBody []byte) (*ExtractionResult, error) {
	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadExtraction, err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", ErrBadExtraction)
	}

	content := stripCodeFences(chat.Choices[0].Message.Content)

	var result ExtractionResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadExtraction, err)
	}
	if result.Amount == "" || result.CardName == "" {
		return nil, fmt.Errorf("%w: missing amount or cardName", ErrBadExtraction)
	}

	return &result, nil
}

// Models wrap JSON replies in markdown fences often enough that stripping
// them first is part of the reply contract.
func stripCodeFences(content string) string {
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}
