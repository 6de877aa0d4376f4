package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Passage is one chunk of an ingested document, the unit returned by retrieval.
type Passage struct {
	Id         ID
	Source     string    // Path or URI of the originating document
	Page       int       // 1-based page number when known, 0 otherwise
	Chunk      int       // Position of the chunk within its source
	Text       string    // Passage text handed to the answer prompt
	Vector     []float32 // Embedding vector (populated during ingestion)
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// PassageID derives the content-based ID for a chunk of a source document.
func PassageID(source string, chunk int, text string) ID {
	return IDFromContent(source + "#" + strconv.Itoa(chunk) + "\x00" + text)
}

// ScoredPassage pairs a passage with its similarity to a query.
type ScoredPassage struct {
	Passage *Passage
	Score   float32
}

// Checkpoint records the last ingested digest of a source document.
type Checkpoint struct {
	Source    string
	Digest    ID
	Passages  int
	UpdatedAt time.Time
}
