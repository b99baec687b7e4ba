package ollama

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Response decoders, one per supported dialect. Each is independently
// testable against a fixed sample payload.

// decodeEmbedResponse handles the /api/embed shape, where the
// "embeddings" field is either a list of vectors or a single vector.
func decodeEmbedResponse(body []byte) ([]float32, error) {
	var nested struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(body, &nested); err == nil && len(nested.Embeddings) > 0 {
		return vectorOrError(nested.Embeddings[0])
	}

	var flat struct {
		Embeddings []float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(body, &flat); err == nil {
		return vectorOrError(flat.Embeddings)
	}

	return nil, fmt.Errorf("no usable embeddings field in %s", truncate(body))
}

// decodeEmbeddingsResponse handles the /api/embeddings shape with a
// single vector under "embedding".
func decodeEmbeddingsResponse(body []byte) ([]float32, error) {
	var out struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("no usable embedding field in %s", truncate(body))
	}
	return vectorOrError(out.Embedding)
}

// decodeOpenAIResponse handles the /v1/embeddings shape with a list of
// objects each holding a vector.
func decodeOpenAIResponse(body []byte) ([]float32, error) {
	var out struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil || len(out.Data) == 0 {
		return nil, fmt.Errorf("no usable data field in %s", truncate(body))
	}
	return vectorOrError(out.Data[0].Embedding)
}

func vectorOrError(vec []float32) ([]float32, error) {
	if len(vec) == 0 {
		return nil, errors.New("empty embedding vector")
	}
	return vec, nil
}

// truncate keeps diagnostics short when a backend returns something
// unexpected and large.
func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
