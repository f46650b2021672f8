package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// DocumentType classifies a source document by format.
type DocumentType string

// Known document types.
const (
	// DocumentTypePDF is a PDF file.
	DocumentTypePDF DocumentType = "pdf"

	// DocumentTypeDocx is a Word document.
	DocumentTypeDocx DocumentType = "docx"

	// DocumentTypeText is a plain text file.
	DocumentTypeText DocumentType = "txt"

	// DocumentTypeMarkdown is a Markdown file.
	DocumentTypeMarkdown DocumentType = "md"

	// DocumentTypeCSV is a comma-separated values file.
	DocumentTypeCSV DocumentType = "csv"

	// DocumentTypeXLSX is an Excel workbook.
	DocumentTypeXLSX DocumentType = "xlsx"

	// DocumentTypeEmail is an RFC 822 email message (.eml),
	// including bodies extracted from mail stores.
	DocumentTypeEmail DocumentType = "email"
)

// IsValid returns true if the document type is recognised.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypePDF, DocumentTypeDocx, DocumentTypeText,
		DocumentTypeMarkdown, DocumentTypeCSV, DocumentTypeXLSX,
		DocumentTypeEmail:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t DocumentType) String() string {
	return string(t)
}

// DocumentTypeForPath derives a document type from a file extension.
// Returns an empty type for unrecognised extensions.
func DocumentTypeForPath(path string) DocumentType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return DocumentTypePDF
	case ".docx":
		return DocumentTypeDocx
	case ".txt", ".text", ".log":
		return DocumentTypeText
	case ".md", ".markdown":
		return DocumentTypeMarkdown
	case ".csv":
		return DocumentTypeCSV
	case ".xlsx":
		return DocumentTypeXLSX
	case ".eml":
		return DocumentTypeEmail
	default:
		return ""
	}
}

// EmailMeta carries email-specific metadata extracted from a message.
// All fields are optional; empty strings mean the header was absent.
type EmailMeta struct {
	// Sender is the decoded From header.
	Sender string

	// Receiver is the decoded To header.
	Receiver string

	// Subject is the decoded Subject header.
	Subject string

	// Date is the parsed Date header. Zero when absent or unparseable.
	Date time.Time

	// MessageID is the Message-ID header, angle brackets stripped.
	MessageID string
}

// Document represents a logical source unit after text extraction.
type Document struct {
	// DocID is the stable content-derived identity, used as the
	// corpus-level dedup key. Two ingestions of byte-identical
	// content always yield the same DocID.
	DocID string

	// SourcePath is the original location of the document.
	SourcePath string

	// Type classifies the document format.
	Type DocumentType

	// User is the owning user identifier.
	User string

	// Text is the full extracted text before chunking.
	Text string

	// Year is the document year, derived from the email Date header
	// or the file modification time. Zero when unknown.
	Year int

	// Email holds email-specific fields. Nil for non-email documents.
	Email *EmailMeta
}

// Chunk represents a contiguous span of a document's extracted text.
// All document metadata is denormalised onto the chunk so the vector
// store can filter candidates without a join.
type Chunk struct {
	// UniqueID is the globally unique point key in the vector store.
	UniqueID string

	// DocID is the owning document's identity.
	DocID string

	// Index is the dense zero-based position within the document.
	Index int

	// Text is the chunk content.
	Text string

	// StartOffset is the starting rune offset in the source text.
	StartOffset int

	// SourcePath is copied from the owning document.
	SourcePath string

	// Type is copied from the owning document.
	Type DocumentType

	// User is copied from the owning document.
	User string

	// Year is copied from the owning document.
	Year int

	// Email is copied from the owning document. Nil for non-email chunks.
	Email *EmailMeta
}

// EmbeddingPoint is the persisted unit in the vector store:
// a vector plus the chunk it embeds. The point key is Payload.UniqueID.
type EmbeddingPoint struct {
	// Vector is the embedding of Payload.Text.
	Vector []float32

	// Payload carries the chunk and its denormalised metadata.
	Payload Chunk
}

// ScoredChunk is a retrieval result entry: a chunk with its
// similarity (or rerank) score.
type ScoredChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the relevance score. Higher is better.
	Score float64
}
