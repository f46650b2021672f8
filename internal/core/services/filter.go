package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
	"github.com/retriva-labs/retriva/internal/logger"
)

// FilterExtractor derives a metadata filter from a question.
// A nil result means the whole collection is searched.
type FilterExtractor interface {
	Extract(ctx context.Context, question string) *domain.Filter
}

// HeuristicFilter extracts filters with pattern matching alone.
// It recognises document-type vocabulary, possessives and "by <name>"
// for ownership, and "from <year>" for the year.
type HeuristicFilter struct{}

// NewHeuristicFilter creates a heuristic filter extractor.
func NewHeuristicFilter() *HeuristicFilter {
	return &HeuristicFilter{}
}

// typeVocabulary maps question words to document types.
var typeVocabulary = map[string]domain.DocumentType{
	"email":        domain.DocumentTypeEmail,
	"emails":       domain.DocumentTypeEmail,
	"mail":         domain.DocumentTypeEmail,
	"mails":        domain.DocumentTypeEmail,
	"pdf":          domain.DocumentTypePDF,
	"pdfs":         domain.DocumentTypePDF,
	"spreadsheet":  domain.DocumentTypeXLSX,
	"spreadsheets": domain.DocumentTypeXLSX,
	"csv":          domain.DocumentTypeCSV,
	"csvs":         domain.DocumentTypeCSV,
}

var (
	possessiveRe = regexp.MustCompile(`\b([a-zA-Z][a-zA-Z0-9._-]*)'s\b`)
	byUserRe     = regexp.MustCompile(`\bby\s+([a-zA-Z][a-zA-Z0-9._-]*)\b`)
	yearRe       = regexp.MustCompile(`\bfrom\s+((?:19|20)\d{2})\b`)
	wordRe       = regexp.MustCompile(`[a-zA-Z]+`)
)

// Extract derives a filter from surface patterns in the question.
func (h *HeuristicFilter) Extract(_ context.Context, question string) *domain.Filter {
	lower := strings.ToLower(question)

	var filter *domain.Filter

	for _, word := range wordRe.FindAllString(lower, -1) {
		if docType, ok := typeVocabulary[word]; ok {
			filter = filter.And(domain.FieldDocumentType, docType.String())
			break
		}
	}

	if m := possessiveRe.FindStringSubmatch(lower); m != nil {
		filter = filter.And(domain.FieldUser, m[1])
	} else if m := byUserRe.FindStringSubmatch(lower); m != nil {
		filter = filter.And(domain.FieldUser, m[1])
	}

	if m := yearRe.FindStringSubmatch(lower); m != nil {
		filter = filter.And(domain.FieldYear, m[1])
	}

	if filter.IsEmpty() {
		return nil
	}
	return filter
}

// LLMFilter delegates filter extraction to a chat model, falling back
// to heuristics when the model is unreachable. A reply the parser
// cannot read means no filter, never an error.
type LLMFilter struct {
	llm       driven.ChatCompleter
	heuristic *HeuristicFilter
}

// NewLLMFilter creates an LLM-backed filter extractor.
func NewLLMFilter(llm driven.ChatCompleter) *LLMFilter {
	return &LLMFilter{
		llm:       llm,
		heuristic: NewHeuristicFilter(),
	}
}

const filterPrompt = `Extract metadata filters from the question below.
Reply with one filter per line in the exact form field=value.
Allowed fields: document_type, user, year, sender, subject.
Allowed document_type values: pdf, docx, txt, md, csv, xlsx, email.
Reply with the single word NONE when no filter applies.
Do not explain.

Question: %s`

// allowedFilterFields restricts what the model may emit.
var allowedFilterFields = map[string]struct{}{
	domain.FieldDocumentType: {},
	domain.FieldUser:         {},
	domain.FieldYear:         {},
	domain.FieldSender:       {},
	domain.FieldSubject:      {},
}

// Extract asks the model for filters and parses its reply.
func (l *LLMFilter) Extract(ctx context.Context, question string) *domain.Filter {
	reply, err := l.llm.Complete(ctx, fmt.Sprintf(filterPrompt, question), driven.CompleteOptions{
		MaxTokens:   100,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("Filter extraction LLM call failed, using heuristics: %v", err)
		return l.heuristic.Extract(ctx, question)
	}

	return parseFilterReply(reply)
}

// parseFilterReply turns the model's field=value lines into a filter.
// Any line it cannot read voids the whole reply.
func parseFilterReply(reply string) *domain.Filter {
	reply = strings.TrimSpace(reply)
	if reply == "" || strings.EqualFold(reply, "NONE") {
		return nil
	}

	var filter *domain.Filter
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field, value, ok := strings.Cut(line, "=")
		if !ok {
			logger.Debug("Unparseable filter line %q, dropping filter", line)
			return nil
		}
		field = strings.TrimSpace(strings.ToLower(field))
		value = strings.TrimSpace(value)

		if _, allowed := allowedFilterFields[field]; !allowed || value == "" {
			logger.Debug("Rejected filter field %q, dropping filter", field)
			return nil
		}
		if field == domain.FieldYear {
			if _, err := strconv.Atoi(value); err != nil {
				logger.Debug("Non-numeric year %q, dropping filter", value)
				return nil
			}
		}
		if field == domain.FieldDocumentType && !domain.DocumentType(value).IsValid() {
			logger.Debug("Unknown document type %q, dropping filter", value)
			return nil
		}

		filter = filter.And(field, value)
	}

	return filter
}
