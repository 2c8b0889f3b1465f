package storage

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// IDs are ULID-shaped: 48 bits of millisecond timestamp followed by 80 bits
// of randomness, Crockford base32 encoded into 26 characters. The first two
// random bytes carry a per-millisecond sequence so IDs minted in the same
// millisecond stay unique and ordered.

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const idLen = 26

var (
	idMu    sync.Mutex
	lastMS  uint64
	lastSeq uint16
)

// NewID returns a new conversion ID.
func NewID() string {
	idMu.Lock()
	ms := uint64(time.Now().UnixMilli())
	if ms == lastMS {
		lastSeq++
	} else {
		lastMS = ms
		lastSeq = 0
	}
	seq := lastSeq
	idMu.Unlock()

	var b [16]byte
	b[0] = byte(ms >> 40)
	b[1] = byte(ms >> 32)
	b[2] = byte(ms >> 24)
	b[3] = byte(ms >> 16)
	b[4] = byte(ms >> 8)
	b[5] = byte(ms)
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], seq)
	return encodeID(b)
}

// encodeID writes the 128-bit value as 26 base32 digits, most significant
// first. The leading digit carries only the top 3 bits.
func encodeID(b [16]byte) string {
	hi := binary.BigEndian.Uint64(b[:8])
	lo := binary.BigEndian.Uint64(b[8:])

	var out [idLen]byte
	for i := idLen - 1; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}

// ValidID reports whether id looks like a value returned by NewID.
func ValidID(id string) bool {
	if len(id) != idLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if !isCrockford(id[i]) {
			return false
		}
	}
	return true
}

func isCrockford(c byte) bool {
	for i := 0; i < len(crockford); i++ {
		if crockford[i] == c {
			return true
		}
	}
	return false
}
