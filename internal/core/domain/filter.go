package domain

// Filterable payload fields. Filters may only reference these names;
// the vector store adapters map them onto the canonical payload shape.
const (
	// FieldDocID is the owning document identity.
	FieldDocID = "doc_id"

	// FieldSourcePath is the original document location.
	FieldSourcePath = "source_path"

	// FieldDocumentType is the document format classification.
	FieldDocumentType = "document_type"

	// FieldUser is the owning user identifier.
	FieldUser = "user"

	// FieldYear is the derived document year.
	FieldYear = "year"

	// FieldSender is the email From header.
	FieldSender = "sender"

	// FieldSubject is the email Subject header.
	FieldSubject = "subject"
)

// MatchKind is the comparison operator of a predicate.
type MatchKind string

// Supported match kinds.
const (
	// MatchEqual matches payload values exactly.
	MatchEqual MatchKind = "eq"
)

// Predicate restricts one payload field to a value.
type Predicate struct {
	// Field is one of the Field* constants.
	Field string

	// Kind is the comparison operator.
	Kind MatchKind

	// Value is the matched value, as a string. Numeric fields
	// (year) are formatted in base 10.
	Value string
}

// Filter is a conjunction of predicates restricting candidate points
// before vector similarity ranking.
//
// A nil *Filter means "search the whole collection". Code downstream
// of the extractor must never distinguish nil from "explicitly
// unrestricted" - both are the absence of restriction.
type Filter struct {
	// Must contains predicates that all have to hold.
	Must []Predicate
}

// MatchEq builds a single-predicate equality filter.
func MatchEq(field, value string) *Filter {
	return &Filter{Must: []Predicate{{Field: field, Kind: MatchEqual, Value: value}}}
}

// And appends an equality predicate and returns the filter.
// A nil receiver starts a new filter.
func (f *Filter) And(field, value string) *Filter {
	if f == nil {
		return MatchEq(field, value)
	}
	f.Must = append(f.Must, Predicate{Field: field, Kind: MatchEqual, Value: value})
	return f
}

// IsEmpty returns true when the filter restricts nothing.
func (f *Filter) IsEmpty() bool {
	return f == nil || len(f.Must) == 0
}
