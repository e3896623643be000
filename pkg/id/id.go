// Package id generates ULIDs: 26-character, lexicographically sortable
// identifiers built from a 48-bit millisecond timestamp and 80 bits of
// randomness. Request IDs and other correlation tokens use them.
package id

import (
	"crypto/rand"
	"time"
)

// Crockford Base32 alphabet; I, L, O and U are excluded.
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// New generates a ULID for the current time. IDs generated later always
// sort after IDs generated in an earlier millisecond.
func New() string {
	return NewAt(time.Now())
}

// NewAt generates a ULID with the timestamp component taken from t.
func NewAt(t time.Time) string {
	var raw [16]byte

	ms := uint64(t.UnixMilli())
	raw[0] = byte(ms >> 40)
	raw[1] = byte(ms >> 32)
	raw[2] = byte(ms >> 24)
	raw[3] = byte(ms >> 16)
	raw[4] = byte(ms >> 8)
	raw[5] = byte(ms)

	if _, err := rand.Read(raw[6:]); err != nil {
		// crypto/rand failing is effectively fatal on supported
		// platforms; degrade to nanosecond entropy rather than panic.
		ns := uint64(time.Now().UnixNano())
		for i := 6; i < len(raw); i++ {
			raw[i] = byte(ns >> ((i - 6) * 8))
		}
	}

	return encodeBase32(raw)
}

// encodeBase32 renders 128 bits as 26 Crockford Base32 characters. The
// accumulator starts with a two-bit zero pad so 130 bits divide evenly
// into 5-bit groups, matching the canonical ULID text form.
func encodeBase32(raw [16]byte) string {
	var out [26]byte
	var acc uint32
	accBits := 2
	n := 0
	for _, b := range raw {
		acc = acc<<8 | uint32(b)
		accBits += 8
		for accBits >= 5 {
			accBits -= 5
			out[n] = alphabet[(acc>>accBits)&0x1F]
			n++
		}
	}
	return string(out[:])
}
