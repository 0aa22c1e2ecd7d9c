package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/smartcart/backend/internal/domain"
)

// DefaultModel is used when no model name is configured
const DefaultModel = "gemini-1.5-flash"

// Client reads product labels and shopping lists through the Gemini API
type Client struct {
	client      *genai.Client
	modelName   string
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
	debug       bool
}

// NewClient creates a Gemini client. An empty apiKey yields a client whose
// calls fail with domain.ErrMissingCredential.
func NewClient(ctx context.Context, apiKey, modelName string, requestsPerMinute int, logger zerolog.Logger) (*Client, error) {
	if modelName == "" {
		modelName = DefaultModel
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 15
	}

	c := &Client{
		modelName:   modelName,
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute),
		logger:      logger.With().Str("component", "gemini").Logger(),
	}
	if apiKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client
	return c, nil
}

// SetDebug enables logging of raw model responses
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Configured reports whether an API key was supplied.
func (c *Client) Configured() bool {
	return c.client != nil
}

// ExtractProduct sends a label photo to the model and parses the product it describes.
func (c *Client) ExtractProduct(ctx context.Context, file domain.Upload) (*domain.ProductRecord, error) {
	text, err := c.generate(ctx, productSchema, file, productPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, err)
	}
	record, err := ParseProductResponse(text)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("file", file.FileName).Str("name", record.Name).Msg("product extracted")
	return record, nil
}

// ExtractList sends a shopping-list photo to the model and returns the item names.
func (c *Client) ExtractList(ctx context.Context, file domain.Upload) ([]string, error) {
	text, err := c.generate(ctx, listSchema, file, listPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrListReadFailed, err)
	}
	return ParseListResponse(text)
}

// Close closes the underlying Gemini client.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) generate(ctx context.Context, schema *genai.Schema, file domain.Upload, prompt string) (string, error) {
	if c.client == nil {
		return "", domain.ErrMissingCredential
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	model := c.client.GenerativeModel(c.modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema

	start := time.Now()
	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: file.ContentType, Data: file.Data},
		genai.Text(prompt),
	)
	if err != nil {
		c.logger.Warn().Err(err).Str("file", file.FileName).Msg("generate content failed")
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := responseText(resp)
	if c.debug {
		c.logger.Debug().
			Str("file", file.FileName).
			Dur("latency", time.Since(start)).
			Str("response", text).
			Msg("model response")
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no content generated")
	}
	return text, nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
