package embedding

import "context"

// Provider generates text embeddings for retrieval queries.
// taskType hints the model at the usage ("RETRIEVAL_QUERY" vs
// "RETRIEVAL_DOCUMENT"); providers that don't support it ignore it.
type Provider interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}

const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)
