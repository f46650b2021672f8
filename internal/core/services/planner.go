package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
	"github.com/retriva-labs/retriva/internal/logger"
)

// maxSubQuestions bounds decomposition so one compound question
// cannot fan out into an unbounded number of searches.
const maxSubQuestions = 5

// Planner turns a question into the queries actually searched for.
// Every failure path degrades to the original question; planning
// never produces an error.
type Planner struct {
	llm      driven.ChatCompleter
	embedder driven.Embedder
}

// NewPlanner creates a query planner.
// The llm parameter is optional (can be nil); without it the plan is
// always the original question alone.
func NewPlanner(llm driven.ChatCompleter, embedder driven.Embedder) *Planner {
	return &Planner{
		llm:      llm,
		embedder: embedder,
	}
}

const splitPrompt = `Decompose the question below into independent sub-questions,
one per line. Each sub-question must be answerable on its own.
If the question is already atomic, reply with the question unchanged.
Do not number the lines. Do not explain.

Question: %s`

const hydePrompt = `Write a short passage of at most three sentences that would
plausibly appear in a document answering the question below.
Write the passage only, no preamble.

Question: %s`

// Plan builds the search plan for a question.
func (p *Planner) Plan(ctx context.Context, question string, opts domain.RetrievalOptions) domain.PlannedQuery {
	plan := domain.PlannedQuery{SubQuestions: []string{question}}

	if opts.Split && p.llm != nil {
		if subs := p.split(ctx, question); len(subs) > 0 {
			plan.SubQuestions = subs
		}
	}

	if opts.UseHyde && p.llm != nil {
		plan.HydeVector = p.hyde(ctx, question)
	}

	return plan
}

// split asks the model to decompose the question. Returns nil when
// decomposition fails or produces nothing usable.
func (p *Planner) split(ctx context.Context, question string) []string {
	reply, err := p.llm.Complete(ctx, fmt.Sprintf(splitPrompt, question), driven.CompleteOptions{
		MaxTokens:   300,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("Question decomposition failed, searching literally: %v", err)
		return nil
	}

	var subs []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		subs = append(subs, line)
		if len(subs) == maxSubQuestions {
			break
		}
	}
	if len(subs) == 0 {
		return nil
	}

	logger.Debug("Decomposed into %d sub-questions", len(subs))
	return subs
}

// hyde embeds a model-generated hypothetical answer. Returns nil when
// generation or embedding fails.
func (p *Planner) hyde(ctx context.Context, question string) []float32 {
	passage, err := p.llm.Complete(ctx, fmt.Sprintf(hydePrompt, question), driven.CompleteOptions{
		MaxTokens:   200,
		Temperature: 0.3,
	})
	if err != nil {
		logger.Warn("HyDE generation failed, continuing without it: %v", err)
		return nil
	}
	passage = strings.TrimSpace(passage)
	if passage == "" {
		return nil
	}

	vector, err := p.embedder.Embed(ctx, passage)
	if err != nil {
		logger.Warn("HyDE embedding failed, continuing without it: %v", err)
		return nil
	}
	return vector
}
