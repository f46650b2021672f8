package domain

// DefaultTopK is the result cap used when the caller does not set one.
const DefaultTopK = 10

// RetrievalOptions configures one retrieval call.
type RetrievalOptions struct {
	// TopK is the maximum number of chunks returned.
	// Zero or negative means DefaultTopK.
	TopK int

	// Split enables decomposition of compound questions into
	// independent sub-questions.
	Split bool

	// UseHyde enables hypothetical-answer embedding alongside the
	// literal question embedding.
	UseHyde bool

	// Rerank enables a secondary relevance-scoring pass over the
	// merged candidates.
	Rerank bool

	// FilterFallback re-runs a query without its metadata filter
	// when the filtered search returns nothing.
	FilterFallback bool
}

// PlannedQuery is the query planner's output: the sub-questions to
// search for and an optional hypothetical-answer embedding.
//
// Planner failure is not an error. A degraded plan has exactly the
// original question as its only sub-question and no HyDE vector.
type PlannedQuery struct {
	// SubQuestions is the non-empty list of questions to search for.
	SubQuestions []string

	// HydeVector is the embedding of a model-generated hypothetical
	// answer, used alongside the literal question embedding.
	// Nil when HyDE is disabled or degraded.
	HydeVector []float32
}
