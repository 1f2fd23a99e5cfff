// Package assist turns free-form meal and workout text into structured
// suggestions via the Gemini generateContent API. Output is advisory: the
// caller shows it to the user for confirmation, nothing is persisted here.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const (
	defaultModel     = "gemini-1.5-flash"
	defaultTimeout   = 15 * time.Second
	maxRetries       = 3
	retryBase        = 300 * time.Millisecond
	retryJitter      = 80 * time.Millisecond
	temperature      = 0.2
	maxOutputTokens  = 512
	maxResponseBytes = 1 << 20
)

// Options configures the Gemini client. APIKey is required; everything else
// has a sensible default. BaseURL and HTTPClient exist for tests.
type Options struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	apiKey  string
	model   string
	timeout time.Duration
	baseURL string
	http    *http.Client
}

// New returns a client, or nil when no API key is configured. Callers treat a
// nil client as "feature off".
func New(opts Options) *Client {
	if opts.APIKey == "" {
		return nil
	}
	c := &Client{
		apiKey:  opts.APIKey,
		model:   opts.Model,
		timeout: opts.Timeout,
		baseURL: opts.BaseURL,
		http:    opts.HTTPClient,
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c
}

func (c *Client) Configured() bool { return c != nil }

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generateJSON sends one prompt and decodes the model's reply into out,
// tolerating code fences and prose around the JSON payload.
func (c *Client) generateJSON(ctx context.Context, prompt string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]any{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":     temperature,
			"maxOutputTokens": maxOutputTokens,
		},
	})
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		res, err := c.http.Do(req)
		if err != nil {
			return err
		}
		body, readErr := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
		res.Body.Close()
		if readErr != nil {
			return readErr
		}

		if res.StatusCode >= 200 && res.StatusCode < 300 {
			var gr generateResponse
			if err := json.Unmarshal(body, &gr); err != nil {
				return fmt.Errorf("gemini response decode: %w", err)
			}
			var text strings.Builder
			if len(gr.Candidates) > 0 {
				for _, p := range gr.Candidates[0].Content.Parts {
					text.WriteString(p.Text)
				}
			}
			raw := extractJSONString(text.String())
			if err := json.Unmarshal([]byte(raw), out); err != nil {
				return fmt.Errorf("gemini returned non-JSON: %s", truncate(raw, 300))
			}
			return nil
		}

		retryable := res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500
		if !retryable || attempt >= maxRetries {
			return fmt.Errorf("gemini request failed: %d %s", res.StatusCode, truncate(string(body), 300))
		}

		backoff := retryBase<<attempt + rand.N(retryJitter)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

var fenceRe = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")

// extractJSONString digs the JSON payload out of a model reply: fenced blocks
// win, then the first {...} span, then the raw text.
func extractJSONString(text string) string {
	t := strings.TrimSpace(text)

	if m := fenceRe.FindStringSubmatch(t); m != nil && m[1] != "" {
		return strings.TrimSpace(m[1])
	}

	first := strings.Index(t, "{")
	last := strings.LastIndex(t, "}")
	if first >= 0 && last > first {
		return strings.TrimSpace(t[first : last+1])
	}
	return t
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
