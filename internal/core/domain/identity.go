package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ContentID computes the stable identity of a document from its raw
// bytes. It is a pure function of content: byte-identical documents
// always produce the same id, regardless of path or timestamps, so a
// renamed file is still recognised as already ingested.
func ContentID(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// StatID computes a fallback identity from path, size and modification
// time, for sources whose content cannot be re-read cheaply. Content
// hashing is always preferred when bytes are available.
func StatID(path string, size int64, mtime time.Time) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%d", path, size, mtime.UnixNano()))
	return hex.EncodeToString(sum[:])
}
