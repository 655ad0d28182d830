package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"resty.dev/v3"

	"github.com/at-ishikawa/dialogfix/internal/codec"
	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	"github.com/at-ishikawa/dialogfix/internal/ruletable"
	"github.com/at-ishikawa/dialogfix/internal/translate"
)

const (
	DefaultBaseURL          = "https://api.openai.com/v1"
	DefaultMaxRetryAttempts = 3
)

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewClient(apiKey, model, baseURL string, retryAttempts uint) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client *Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}
	if strings.Contains(errStr, "response error 5") {
		return true
	}
	if strings.Contains(errStr, "response error 429") {
		return true
	}
	return false
}

// Translate implements the translate.Translator interface
func (client *Client) Translate(
	ctx context.Context,
	text string,
	profile dialogue.Profile,
	hints *codec.CodeTable,
) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	var result string
	if err := retry.Do(
		func() error {
			translated, err := client.translate(ctx, text, profile, hints)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = translated
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return "", err
	}
	if result == "" {
		return "", translate.ErrEmptyTranslation
	}
	return result, nil
}

func languageName(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	if name := display.English.Tags().Name(t); name != "" {
		return name
	}
	return tag
}

func (client *Client) getRequestBody(text string, profile dialogue.Profile, hints *codec.CodeTable) ChatCompletionRequest {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, `You translate Japanese video game dialogue into %s (%s).

Return ONLY the translated text. No quotes, notes or romanization.
Keep the tone and line breaks of the original.
Characters from the Unicode private-use area are placeholders for names and terms. Copy each of them into the translation exactly once, unchanged, where the term belongs.`,
		languageName(profile.TargetLanguage), profile.TargetLanguage)

	codes := hints.Codes()
	hasMark := strings.ContainsRune(text, codec.MarkEscape)
	if len(codes) > 0 || hasMark {
		prompt.WriteString("\n\nPlaceholders:\n")
		for _, c := range codes {
			fmt.Fprintf(&prompt, "- %s = %s\n", c.Token, c.To)
		}
		if hasMark {
			fmt.Fprintf(&prompt, "- %c = %s\n", codec.MarkEscape, ruletable.ShortNameMarker)
		}
	}

	return ChatCompletionRequest{
		Model: client.model,
		Messages: []Message{
			{Role: RoleSystem, Content: prompt.String()},
			{Role: RoleUser, Content: text},
		},
		Temperature: 0.2,
	}
}

func (client *Client) translate(
	ctx context.Context,
	text string,
	profile dialogue.Profile,
	hints *codec.CodeTable,
) (string, error) {
	requestBody := client.getRequestBody(text, profile, hints)

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return "", fmt.Errorf("empty response body or choices: %s", response.String())
	}

	content := strings.TrimSpace(responseBody.Choices[0].Message.Content)
	slog.Default().Debug("openai response content",
		"request", requestBody,
		"response", responseBody,
	)
	return content, nil
}
