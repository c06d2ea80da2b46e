package embeddings

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eslbridge/sign-translator/internal/llm"
)

func TestEncodeDecodeVector(t *testing.T) {
	tests := []struct {
		name string
		vec  []float32
	}{
		{name: "simple", vec: []float32{0.1, -0.25, 3}},
		{name: "extremes", vec: []float32{math.MaxFloat32, math.SmallestNonzeroFloat32, -0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeVector(encodeVector(tt.vec))
			if err != nil {
				t.Fatalf("decodeVector() error = %v", err)
			}
			for i := range tt.vec {
				if math.Float32bits(got[i]) != math.Float32bits(tt.vec[i]) {
					t.Errorf("element %d = %v, want %v", i, got[i], tt.vec[i])
				}
			}
		})
	}
}

func TestDecodeVectorRejectsBadLength(t *testing.T) {
	for _, raw := range [][]byte{nil, {1, 2, 3}} {
		if _, err := decodeVector(raw); err == nil {
			t.Errorf("decodeVector(%v) error = nil, want error", raw)
		}
	}
}

func TestOpenAIEmbedBatchOrdersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "text-embedding-ada-002",
			"data": []map[string]any{
				{"object": "embedding", "index": 1, "embedding": []float32{0, 1}},
				{"object": "embedding", "index": 0, "embedding": []float32{1, 0}},
			},
		})
	}))
	defer srv.Close()

	client := llm.NewClient(llm.ClientConfig{APIKey: "test", BaseURL: srv.URL})
	e := NewOpenAI(client, "")

	got, err := e.EmbedBatch(context.Background(), []string{"hello", "world"})
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if got[0][0] != 1 || got[1][1] != 1 {
		t.Errorf("EmbedBatch() = %v, want inputs in request order", got)
	}
	if e.Model() != "text-embedding-ada-002" {
		t.Errorf("Model() = %q", e.Model())
	}
}

func TestOpenAIEmbedReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	e := NewOpenAI(llm.NewClient(llm.ClientConfig{APIKey: "test", BaseURL: srv.URL}), "")
	if _, err := e.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("Embed() error = nil, want error")
	}
}
