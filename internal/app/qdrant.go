package app

import (
	"context"
	"log/slog"

	qdrantcli "github.com/ironquill/assesspoint/internal/adapter/vector/qdrant"
	"github.com/ironquill/assesspoint/internal/usecase"
)

// answerEmbeddingDims is the vector size for OpenAI's text-embedding-3-small,
// the default embedding model (config.LLMEmbeddingModel).
const answerEmbeddingDims = 1536

// EnsureDefaultCollections creates the Qdrant collections this module
// depends on if they do not already exist. Idempotent; safe to call on
// every process start. A nil client (Qdrant not configured) is a no-op.
func EnsureDefaultCollections(ctx context.Context, qcli *qdrantcli.Client) {
	if qcli == nil {
		return
	}
	if err := qcli.EnsureCollection(ctx, usecase.AnswersCollection, answerEmbeddingDims, "Cosine"); err != nil {
		slog.Warn("qdrant collection ensure failed", slog.String("collection", usecase.AnswersCollection), slog.Any("error", err))
	}
}
