package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcart/backend/internal/domain"
)

func TestNewClient_WithoutKey(t *testing.T) {
	client, err := NewClient(context.Background(), "", "", 0, zerolog.Nop())
	require.NoError(t, err)

	assert.False(t, client.Configured())
	assert.Equal(t, DefaultModel, client.modelName)
	assert.NotNil(t, client.rateLimiter)
	assert.NoError(t, client.Close())
}

func TestSetDebug(t *testing.T) {
	client, err := NewClient(context.Background(), "", "gemini-test", 10, zerolog.Nop())
	require.NoError(t, err)

	assert.False(t, client.debug)
	client.SetDebug(true)
	assert.True(t, client.debug)
	assert.Equal(t, "gemini-test", client.modelName)
}

func TestExtract_MissingCredential(t *testing.T) {
	client, err := NewClient(context.Background(), "", "", 0, zerolog.Nop())
	require.NoError(t, err)

	file := domain.Upload{FileName: "label.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}}

	_, err = client.ExtractProduct(context.Background(), file)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
	assert.ErrorIs(t, err, domain.ErrAnalysisFailed)

	_, err = client.ExtractList(context.Background(), file)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
	assert.ErrorIs(t, err, domain.ErrListReadFailed)
}

func TestResponseText(t *testing.T) {
	assert.Equal(t, "", responseText(nil))
	assert.Equal(t, "", responseText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"name":`), genai.Text(`"x"}`)}}},
		},
	}
	assert.Equal(t, `{"name":"x"}`, responseText(resp))
}

func TestSchemas(t *testing.T) {
	assert.ElementsMatch(t, []string{"name", "price", "category"}, productSchema.Required)
	assert.Equal(t, genai.TypeArray, listSchema.Type)
}
