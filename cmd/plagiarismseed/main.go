// Command plagiarismseed bootstraps the Qdrant collection the plagiarism
// checker (C10) searches and indexes into, so a fresh environment doesn't
// hit a missing-collection error on a candidate's first free-text answer.
package main

import (
	"context"
	"log/slog"
	"os"

	qdrantcli "github.com/ironquill/assesspoint/internal/adapter/vector/qdrant"
	"github.com/ironquill/assesspoint/internal/app"
	"github.com/ironquill/assesspoint/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	q := qdrantcli.New(cfg.QdrantURL, cfg.QdrantAPIKey)
	app.EnsureDefaultCollections(context.Background(), q)
	slog.Info("plagiarism collection seeded")
}
