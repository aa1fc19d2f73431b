// Package matchid generates sortable match identifiers: a UUIDv7 rendered
// as 26 lowercase Crockford base32 characters.
package matchid

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/coder/quartz"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of every generated ID
const Length = 26

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// Source supplies random bits. *math/rand/v2.Rand satisfies it.
type Source interface {
	Uint64() uint64
}

// Generator mints IDs. It is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	src   Source
	clock quartz.Clock
}

// NewGenerator returns a generator drawing from src, or crypto/rand when src
// is nil. A nil clock uses the wall clock.
func NewGenerator(src Source, clock quartz.Clock) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{src: src, clock: clock}
}

// Next returns a new ID
func (g *Generator) Next() string {
	var id [16]byte

	ms := uint64(g.clock.Now().UnixMilli())
	binary.BigEndian.PutUint16(id[0:2], uint16(ms>>32))
	binary.BigEndian.PutUint32(id[2:6], uint32(ms))

	g.mu.Lock()
	if g.src != nil {
		binary.BigEndian.PutUint16(id[6:8], uint16(g.src.Uint64()))
		binary.BigEndian.PutUint64(id[8:16], g.src.Uint64())
	} else if _, err := rand.Read(id[6:]); err != nil {
		g.mu.Unlock()
		panic("matchid: reading random bytes: " + err.Error())
	}
	g.mu.Unlock()

	id[6] = id[6]&0x0f | 0x70 // version 7
	id[8] = id[8]&0x3f | 0x80 // RFC 4122 variant

	return encoding.EncodeToString(id[:])
}

// Validate reports whether id could have come from a Generator
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("match ID must be %d characters, got %d", Length, len(id))
	}
	raw, err := encoding.DecodeString(id)
	if err != nil {
		return fmt.Errorf("match ID is not base32: %w", err)
	}
	if raw[6]>>4 != 7 {
		return fmt.Errorf("match ID has version %d, want 7", raw[6]>>4)
	}
	return nil
}
