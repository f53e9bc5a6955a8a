package document

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// ULID-style identifiers: 26 Crockford Base32 characters with a
// timestamp prefix, so ids sort by creation time.

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	idMu   sync.Mutex
	idLast uint64
	idSeq  uint16
)

// NewID returns a fresh sortable identifier for models, sections and
// syntax errors.
func NewID() string {
	idMu.Lock()
	ts := uint64(time.Now().UnixMilli())
	if ts == idLast {
		idSeq++
	} else {
		idLast = ts
		idSeq = 0
	}
	seq := idSeq
	idMu.Unlock()

	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], ts<<16) // 48-bit timestamp in b[0:6]
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], seq) // monotonic within the same ms

	return encodeBase32(b)
}

// encodeBase32 packs 128 bits into 26 Crockford characters. The leading
// character only carries the top 3 bits, matching the ULID layout.
func encodeBase32(b [16]byte) string {
	var out [26]byte
	// Walk a 130-bit window (2 zero bits of padding in front) in 5-bit steps.
	bitAt := func(i int) byte {
		i -= 2
		if i < 0 {
			return 0
		}
		return (b[i/8] >> (7 - i%8)) & 1
	}
	for c := 0; c < 26; c++ {
		var v byte
		for j := 0; j < 5; j++ {
			v = v<<1 | bitAt(c*5+j)
		}
		out[c] = crockford[v]
	}
	return string(out[:])
}
