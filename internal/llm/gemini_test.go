package llm

import (
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cumplia.mx/compliance-gateway/internal/gateway"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams("", 0)
	assert.Equal(t, "gemini-1.5-flash-latest", p.Model)
	assert.Equal(t, 60*time.Second, p.Timeout)
	assert.NotEmpty(t, p.SystemInstruction)
	assert.Positive(t, p.MaxOutputTokens)

	p = DefaultParams("gemini-1.5-pro", 10*time.Second)
	assert.Equal(t, "gemini-1.5-pro", p.Model)
	assert.Equal(t, 10*time.Second, p.Timeout)
}

func TestToGenaiHistory(t *testing.T) {
	contents := toGenaiHistory([]gateway.Turn{
		{Role: gateway.RoleUser, Content: "hola"},
		{Role: gateway.RoleModel, Content: "buenos días"},
	})

	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	require.Len(t, contents[0].Parts, 1)
	assert.Equal(t, genai.Text("hola"), contents[0].Parts[0])
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.Text("parte uno. "), genai.Text("parte dos.")},
			},
		}},
	}

	text, err := extractText(resp)
	require.NoError(t, err)
	assert.Equal(t, "parte uno. parte dos.", text)
}

func TestExtractTextSafetyBlock(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			FinishReason: genai.FinishReasonSafety,
		}},
	}

	_, err := extractText(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "safety")
}

func TestExtractTextNoCandidates(t *testing.T) {
	_, err := extractText(&genai.GenerateContentResponse{})
	require.Error(t, err)

	_, err = extractText(nil)
	require.Error(t, err)
}
