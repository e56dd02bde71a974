// Package assist provides the AI collaborator features: receipt
// extraction, barcode identification, meal planning, budget analysis
// and freeform chat. It wraps langchaingo's OpenAI-compatible client so
// both the OpenAI API and self-hosted compatible servers work.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/khanehapp/khaneh/types"
)

var (
	// ErrUnavailable indicates no assistant is configured.
	ErrUnavailable = errors.New("assistant not configured")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid assistant configuration")

	// ErrBadReply indicates the model reply could not be parsed.
	ErrBadReply = errors.New("unparseable assistant reply")
)

// Config holds the connection settings for the model endpoint.
type Config struct {
	// BaseURL is the API base, e.g. https://api.openai.com/v1 or a
	// local OpenAI-compatible server.
	BaseURL string

	// Model is the chat model name.
	Model string

	// APIKey authenticates against the endpoint. Optional for local
	// servers.
	APIKey string
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidConfig)
	}
	return nil
}

// ReceiptLine is one purchased product extracted from receipt text.
type ReceiptLine struct {
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
}

// Product is the identification result for a scanned barcode.
type Product struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Assistant is the feature surface the application consumes. Every
// method degrades cleanly: callers treat any error as "no suggestion"
// and carry on without the assistant.
type Assistant interface {
	// ExtractReceipt turns raw receipt text into purchasable lines.
	ExtractReceipt(ctx context.Context, text string) ([]ReceiptLine, error)

	// IdentifyProduct names the product behind a barcode.
	IdentifyProduct(ctx context.Context, barcode string) (*Product, error)

	// PlanWeek proposes a seven-day meal plan from the pantry contents.
	PlanWeek(ctx context.Context, pantry []types.Item) ([]types.MealEntry, error)

	// AnalyzeBudget writes a short narrative over recent spending.
	AnalyzeBudget(ctx context.Context, spent, budget int, breakdown map[string]int) (string, error)

	// EstimatePrice guesses a unit price for a product name.
	EstimatePrice(ctx context.Context, name string) (int, error)

	// Chat answers a freeform household question.
	Chat(ctx context.Context, message string) (string, error)
}

// Service is the langchaingo-backed Assistant.
type Service struct {
	llm    *openai.LLM
	config Config
}

var _ Assistant = (*Service)(nil)

// NewService creates an Assistant talking to the configured endpoint.
func NewService(config Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	apiKey := config.APIKey
	if apiKey == "" {
		// the client requires a token even for keyless local servers
		apiKey = "placeholder"
	}

	llm, err := openai.New(
		openai.WithBaseURL(config.BaseURL),
		openai.WithModel(config.Model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("creating model client: %w", err)
	}

	return &Service{llm: llm, config: config}, nil
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	reply, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt,
		llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}
	return reply, nil
}

func (s *Service) ExtractReceipt(ctx context.Context, text string) ([]ReceiptLine, error) {
	prompt := fmt.Sprintf(`Extract the purchased products from this receipt text.
Reply with ONLY a JSON array of objects with keys "name", "price" (integer,
total for the line), "quantity" (integer, at least 1) and "category"
(one of: %s).

Receipt:
%s`, strings.Join(types.Categories, ", "), text)

	reply, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var lines []ReceiptLine
	if err := decodeReply(reply, &lines); err != nil {
		return nil, err
	}
	for i := range lines {
		if lines[i].Quantity < 1 {
			lines[i].Quantity = 1
		}
		if lines[i].Category == "" {
			lines[i].Category = types.CategoryMisc
		}
	}
	return lines, nil
}

func (s *Service) IdentifyProduct(ctx context.Context, barcode string) (*Product, error) {
	prompt := fmt.Sprintf(`Identify the retail product with barcode %s.
Reply with ONLY a JSON object with keys "name" and "category"
(one of: %s). If unknown, use an empty name.`,
		barcode, strings.Join(types.Categories, ", "))

	reply, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var p Product
	if err := decodeReply(reply, &p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: product not recognized", ErrBadReply)
	}
	if p.Category == "" {
		p.Category = types.CategoryMisc
	}
	return &p, nil
}

func (s *Service) PlanWeek(ctx context.Context, pantry []types.Item) ([]types.MealEntry, error) {
	names := make([]string, 0, len(pantry))
	for _, it := range pantry {
		if it.Status == types.StatusBought {
			names = append(names, it.Name)
		}
	}

	prompt := fmt.Sprintf(`Plan dinners for the next 7 days using mostly these
pantry items: %s.
Reply with ONLY a JSON array of 7 objects with keys "day" (weekday name),
"type" (always "DINNER"), "foodName" and "ingredients" (array of strings).`,
		strings.Join(names, ", "))

	reply, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var plan []types.MealEntry
	if err := decodeReply(reply, &plan); err != nil {
		return nil, err
	}
	for i := range plan {
		if plan[i].Type == "" {
			plan[i].Type = types.MealDinner
		}
	}
	return plan, nil
}

func (s *Service) AnalyzeBudget(ctx context.Context, spent, budget int, breakdown map[string]int) (string, error) {
	parts := make([]string, 0, len(breakdown))
	for category, sum := range breakdown {
		parts = append(parts, fmt.Sprintf("%s: %d", category, sum))
	}

	prompt := fmt.Sprintf(`A household spent %d of a %d monthly budget.
Spending by category: %s.
In 3 short sentences, point out the largest drains and one concrete saving.`,
		spent, budget, strings.Join(parts, "; "))

	return s.complete(ctx, prompt)
}

func (s *Service) EstimatePrice(ctx context.Context, name string) (int, error) {
	prompt := fmt.Sprintf(`Estimate a typical retail unit price for %q.
Reply with ONLY a JSON object with key "price" (integer).`, name)

	reply, err := s.complete(ctx, prompt)
	if err != nil {
		return 0, err
	}
	var out struct {
		Price int `json:"price"`
	}
	if err := decodeReply(reply, &out); err != nil {
		return 0, err
	}
	if out.Price < 0 {
		return 0, fmt.Errorf("%w: negative price", ErrBadReply)
	}
	return out.Price, nil
}

func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	prompt := "You are a concise household management helper.\n\n" + message
	return s.complete(ctx, prompt)
}

// decodeReply parses a JSON value out of a model reply, tolerating code
// fences and surrounding prose.
func decodeReply(reply string, v any) error {
	payload := extractJSON(reply)
	if payload == "" {
		return fmt.Errorf("%w: no JSON found", ErrBadReply)
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	return nil
}

func extractJSON(reply string) string {
	s := strings.TrimSpace(reply)
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return ""
	}
	var end int
	if s[start] == '[' {
		end = strings.LastIndex(s, "]")
	} else {
		end = strings.LastIndex(s, "}")
	}
	if end <= start {
		return ""
	}
	return s[start : end+1]
}

// Disabled is the Assistant used when no endpoint is configured. Every
// method reports ErrUnavailable.
type Disabled struct{}

var _ Assistant = Disabled{}

func (Disabled) ExtractReceipt(context.Context, string) ([]ReceiptLine, error) {
	return nil, ErrUnavailable
}

func (Disabled) IdentifyProduct(context.Context, string) (*Product, error) {
	return nil, ErrUnavailable
}

func (Disabled) PlanWeek(context.Context, []types.Item) ([]types.MealEntry, error) {
	return nil, ErrUnavailable
}

func (Disabled) AnalyzeBudget(context.Context, int, int, map[string]int) (string, error) {
	return "", ErrUnavailable
}

func (Disabled) EstimatePrice(context.Context, string) (int, error) {
	return 0, ErrUnavailable
}

func (Disabled) Chat(context.Context, string) (string, error) {
	return "", ErrUnavailable
}
