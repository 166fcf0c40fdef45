// Package llm owns the outbound call contract to the Gemini backend. It is
// the only package permitted network I/O to the external model.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"cumplia.mx/compliance-gateway/internal/gateway"
	"cumplia.mx/compliance-gateway/pkg/metrics"
)

const systemInstruction = "Eres un asesor experto en cumplimiento normativo y prevención de lavado de dinero en México (LFPIORPI). " +
	"Responde en español, de forma clara y concisa, citando umbrales y obligaciones cuando la pregunta lo requiera. " +
	"Si la información de referencia proporcionada no cubre la pregunta, dilo claramente y recomienda consultar a un asesor. " +
	"No inventes cifras ni obligaciones."

// Params is the read-only invocation configuration. Built once at startup
// and passed into the client instead of read from free variables.
type Params struct {
	Model             string
	SystemInstruction string
	MaxOutputTokens   int32
	Temperature       float32
	Timeout           time.Duration
}

// DefaultParams returns the fixed generation bounds for the advisory chat.
func DefaultParams(model string, timeout time.Duration) Params {
	if model == "" {
		model = "gemini-1.5-flash-latest"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return Params{
		Model:             model,
		SystemInstruction: systemInstruction,
		MaxOutputTokens:   1024,
		Temperature:       0.4,
		Timeout:           timeout,
	}
}

// GeminiClient implements gateway.ModelInvoker against the Gemini API.
type GeminiClient struct {
	client *genai.Client
	params Params
}

func NewGeminiClient(ctx context.Context, apiKey string, params Params) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, params: params}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Invoke seeds a chat session with the normalized history, submits the
// enriched message as the new turn and returns the plain-text completion.
// Exactly one attempt, bounded by the configured deadline.
func (c *GeminiClient) Invoke(ctx context.Context, history []gateway.Turn, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.params.Timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.params.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(c.params.SystemInstruction)},
	}

	maxTokens := c.params.MaxOutputTokens
	temp := c.params.Temperature
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temp,
	}

	session := model.StartChat()
	session.History = toGenaiHistory(history)

	start := time.Now()
	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		metrics.RecordLLMRequest(c.params.Model, "error", time.Since(start).Seconds())
		return "", fmt.Errorf("gemini SendMessage failed: %w", err)
	}
	metrics.RecordLLMRequest(c.params.Model, "success", time.Since(start).Seconds())

	text, err := extractText(resp)
	if err != nil {
		return "", err
	}
	return text, nil
}

func toGenaiHistory(history []gateway.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		contents = append(contents, &genai.Content{
			Role:  t.Role,
			Parts: []genai.Part{genai.Text(t.Content)},
		})
	}
	return contents
}

// extractText flattens the first candidate's text parts. Safety blocks show
// up as an empty candidate set or a safety finish reason rather than a
// transport error, so they are surfaced here as errors for classification.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("gemini blocked prompt for safety: %v", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("gemini returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("gemini response blocked for safety")
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned an empty candidate")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned a non-text candidate")
	}
	return sb.String(), nil
}
