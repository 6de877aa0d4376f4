package badger

import (
	"encoding/binary"

	"github.com/poiesic/intellicourse/core"
)

// Key prefixes for different data types
const (
	passagePrefix       = "pasrec:"
	passageSourcePrefix = "pasrcs:"
	checkpointPrefix    = "chkpt:"
)

// makePassageKey generates a key for a passage by ID.
// Format: prefix + BigEndian(id), so iteration order matches ID order.
func makePassageKey(id core.ID) []byte {
	buf := make([]byte, len(passagePrefix)+8)
	offset := copy(buf, passagePrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// passageIDFromKey extracts the ID from a passage key.
func passageIDFromKey(key []byte) core.ID {
	return core.ID(binary.BigEndian.Uint64(key[len(passagePrefix):]))
}

// makePartialSourceKey generates the prefix shared by every index entry of a source.
// Format: prefix:source\x00
func makePartialSourceKey(source string) []byte {
	buf := make([]byte, 0, len(passageSourcePrefix)+len(source)+1)
	buf = append(buf, passageSourcePrefix...)
	buf = append(buf, source...)
	return append(buf, 0)
}

// makeSourceKey generates a composite key for the source index.
// Format: prefix:source\x00BigEndian(id)
func makeSourceKey(source string, id core.ID) []byte {
	partial := makePartialSourceKey(source)
	buf := make([]byte, len(partial)+8)
	offset := copy(buf, partial)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// sourceKeyID extracts the passage ID from a source index key.
func sourceKeyID(key []byte) core.ID {
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:]))
}

// makeCheckpointKey generates a key for a source's ingestion checkpoint.
func makeCheckpointKey(source string) []byte {
	return []byte(checkpointPrefix + source)
}
