// Command retriva ingests documents into a Qdrant vector store and
// answers natural-language questions with the most relevant chunks.
package main

import (
	"fmt"
	"os"

	"github.com/retriva-labs/retriva/internal/adapters/driven/ai"
	rerankllm "github.com/retriva-labs/retriva/internal/adapters/driven/rerank/llm"
	"github.com/retriva-labs/retriva/internal/adapters/driven/shell"
	"github.com/retriva-labs/retriva/internal/adapters/driven/state/sqlite"
	"github.com/retriva-labs/retriva/internal/adapters/driven/vector/qdrant"
	"github.com/retriva-labs/retriva/internal/adapters/driving/cli"
	"github.com/retriva-labs/retriva/internal/chunker"
	"github.com/retriva-labs/retriva/internal/config"
	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
	"github.com/retriva-labs/retriva/internal/core/services"
	"github.com/retriva-labs/retriva/internal/loaders"
	"github.com/retriva-labs/retriva/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("RETRIVA_CONFIG"))
	if err != nil {
		return err
	}

	store, err := qdrant.New(qdrant.Config{
		Host:   cfg.Qdrant.Host,
		Port:   cfg.Qdrant.Port,
		APIKey: cfg.Qdrant.APIKey,
		UseTLS: cfg.Qdrant.UseTLS,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	embedder, err := ai.CreateEmbedder(cfg.EmbeddingSettings())
	if err != nil {
		return err
	}
	defer embedder.Close()

	// The LLM is optional: without it retrieval skips split, HyDE,
	// LLM filter extraction and reranking.
	var completer driven.ChatCompleter
	llmSettings := cfg.LLMSettings()
	if llmSettings.IsConfigured() {
		completer, err = ai.CreateCompleter(llmSettings)
		if err != nil {
			return err
		}
		defer completer.Close()
	}

	ledger, err := sqlite.New(cfg.DataDir)
	if err != nil {
		logger.Warn("Ingestion ledger unavailable: %v", err)
		ledger = nil
	} else {
		defer ledger.Close()
	}

	chunks, err := chunker.New(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	if err != nil {
		return err
	}

	registry := loaders.Defaults(shell.New())

	var filters services.FilterExtractor = services.NewHeuristicFilter()
	var reranker driven.Reranker
	if completer != nil {
		filters = services.NewLLMFilter(completer)
		reranker = rerankllm.New(completer)
	}

	planner := services.NewPlanner(completer, embedder)
	retriever := services.NewRetrievalService(store, embedder, planner, filters, reranker)
	ingestor := services.NewIngestService(registry, chunks, embedder, store, ledgerOrNil(ledger))
	documents := services.NewDocumentService(store)

	cli.SetServices(cli.Services{
		Retriever:   retriever,
		Ingestor:    ingestor,
		Documents:   documents,
		Ledger:      ledgerOrNil(ledger),
		Store:       store,
		Embedder:    embedder,
		Completer:   completer,
		Filter:      registry,
		Collection:  cfg.Collection,
		DefaultUser: cfg.Ingest.DefaultUser,
		Retrieval: domain.RetrievalOptions{
			TopK:           cfg.Retrieval.TopK,
			Split:          cfg.Retrieval.Split,
			UseHyde:        cfg.Retrieval.Hyde,
			Rerank:         cfg.Retrieval.Rerank,
			FilterFallback: cfg.Retrieval.FilterFallback,
		},
	})

	return cli.Execute()
}

// ledgerOrNil avoids a typed-nil interface when the ledger failed to
// open.
func ledgerOrNil(ledger *sqlite.Ledger) driven.IngestLedger {
	if ledger == nil {
		return nil
	}
	return ledger
}
