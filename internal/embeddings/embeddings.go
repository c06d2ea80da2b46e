package embeddings

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Embedder turns text into dense vectors. Implementations must return the same
// vector for the same text and model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

type OpenAI struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAI(client *openai.Client, model string) *OpenAI {
	if model == "" {
		model = string(openai.AdaEmbeddingV2)
	}
	return &OpenAI{client: client, model: openai.EmbeddingModel(model)}
}

func (e *OpenAI) Model() string { return string(e.model) }

// Embed converts text to an embedding vector using the OpenAI embeddings API.
func (e *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: e.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embedding creation failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("OpenAI returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("OpenAI embedding index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	for i, v := range out {
		if v == nil {
			return nil, fmt.Errorf("OpenAI returned no embedding for input %d", i)
		}
	}
	return out, nil
}
