// Package llm provides a reranker that scores candidates with a chat
// model instead of a dedicated cross-encoder.
package llm

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
	"github.com/retriva-labs/retriva/internal/logger"
)

// Ensure Reranker implements the interface.
var _ driven.Reranker = (*Reranker)(nil)

// snippetLimit caps how much of each chunk goes into the prompt.
const snippetLimit = 400

// Reranker scores each candidate against the question with a single
// completion call and reorders by the returned scores.
type Reranker struct {
	llm driven.ChatCompleter
}

// New creates an LLM-backed reranker.
func New(llm driven.ChatCompleter) *Reranker {
	return &Reranker{llm: llm}
}

const rerankPrompt = `Score how relevant each passage is to the question on a
scale from 0 to 10. Reply with one line per passage in the exact form
index=score, nothing else.

Question: %s

%s`

// Rerank returns the candidates reordered by descending model score.
// Passages the model does not score keep a score of zero.
func (r *Reranker) Rerank(ctx context.Context, question string, candidates []domain.ScoredChunk) ([]domain.ScoredChunk, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	var passages strings.Builder
	for i, candidate := range candidates {
		fmt.Fprintf(&passages, "[%d] %s\n", i, snippet(candidate.Chunk.Text))
	}

	reply, err := r.llm.Complete(ctx, fmt.Sprintf(rerankPrompt, question, passages.String()), driven.CompleteOptions{
		MaxTokens:   10 * len(candidates),
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("rerank: %w", err)
	}

	scores := parseScores(reply, len(candidates))

	reranked := make([]domain.ScoredChunk, len(candidates))
	for i, candidate := range candidates {
		reranked[i] = domain.ScoredChunk{
			Chunk: candidate.Chunk,
			Score: scores[i],
		}
	}
	return reranked, nil
}

// parseScores reads index=score lines. Unreadable lines are skipped,
// out-of-range indexes ignored.
func parseScores(reply string, count int) []float64 {
	scores := make([]float64, count)
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		idxStr, scoreStr, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimSpace(idxStr))
		if err != nil || idx < 0 || idx >= count {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(scoreStr), 64)
		if err != nil {
			logger.Debug("Unreadable rerank score %q", line)
			continue
		}
		scores[idx] = score
	}
	return scores
}

// snippet truncates chunk text at a rune boundary for the prompt.
func snippet(text string) string {
	runes := []rune(strings.ReplaceAll(text, "\n", " "))
	if len(runes) <= snippetLimit {
		return string(runes)
	}
	return string(runes[:snippetLimit]) + "..."
}
