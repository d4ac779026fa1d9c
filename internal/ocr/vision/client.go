package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vendor-backend/internal/ocr"
)

// Client calls an HTTP text-detection service. The provider accepts a stored
// document locator and responds with detected text plus any structured fields
// it could pull out on its own.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a vision client.
func NewClient(apiURL, apiKey string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiURL) == "" {
		return nil, fmt.Errorf("OCR_API_URL is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OCR_API_KEY is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type detectRequest struct {
	Locator string `json:"locator"`
}

type detectResponse struct {
	Text         string `json:"text"`
	BusinessName string `json:"businessName"`
	TaxID1       string `json:"taxId1"`
	TaxID2       string `json:"taxId2"`
	Error        *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Recognize runs one text-detection call for a stored document.
func (c *Client) Recognize(ctx context.Context, locator string) (ocr.Recognition, error) {
	payload, err := json.Marshal(detectRequest{Locator: locator})
	if err != nil {
		return ocr.Recognition{}, fmt.Errorf("marshal detect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return ocr.Recognition{}, fmt.Errorf("build detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ocr.Recognition{}, fmt.Errorf("call text detection: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return ocr.Recognition{}, fmt.Errorf("read detect response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return ocr.Recognition{}, fmt.Errorf("text detection status %d: %s", resp.StatusCode, truncate(string(body), 512))
	}

	var parsed detectResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ocr.Recognition{}, fmt.Errorf("decode detect response: %w", err)
	}
	if parsed.Error != nil {
		return ocr.Recognition{}, fmt.Errorf("text detection error: %s", parsed.Error.Message)
	}

	return ocr.Recognition{
		Text:         parsed.Text,
		BusinessName: parsed.BusinessName,
		TaxID1:       parsed.TaxID1,
		TaxID2:       parsed.TaxID2,
	}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

var _ ocr.Recognizer = (*Client)(nil)
