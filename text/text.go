// Package text converts between UTF-8 and the single-byte character table
// the game uses for names and dialogue.
package text

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const (
	Terminator byte = 0xFF

	firstRune = 0x20
	lastRune  = 0x7E
	unknown   = '?' - firstRune
)

var ErrInvalidUTF8 = errors.New("text: invalid UTF-8")

// Codec is the game's character table. Codes 0x00-0x5E map onto printable
// ASCII, 0xFF ends a string and everything else decodes as U+FFFD.
var Codec encoding.Encoding = codec{}

type codec struct{}

func (codec) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: new(decoder)}
}

func (codec) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: encoder{}}
}

type decoder struct {
	done bool
}

func (d *decoder) Reset() {
	d.done = false
}

func (d *decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if d.done {
			nSrc = len(src)
			break
		}
		c := src[nSrc]
		if c == Terminator {
			d.done = true
			continue
		}
		r := utf8.RuneError
		if c <= lastRune-firstRune {
			r = rune(c) + firstRune
		}
		if nDst+utf8.RuneLen(r) > len(dst) {
			err = transform.ErrShortDst
			break
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc++
	}
	return
}

type encoder struct {
	transform.NopResetter
}

func (encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			err = transform.ErrShortSrc
			break
		}
		if nDst >= len(dst) {
			err = transform.ErrShortDst
			break
		}
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size == 1 {
			err = ErrInvalidUTF8
			break
		}
		if r >= firstRune && r <= lastRune {
			dst[nDst] = byte(r - firstRune)
		} else {
			dst[nDst] = unknown
		}
		nDst++
		nSrc += size
	}
	return
}

// Decode reads b up to the first terminator.
func Decode(b []byte) string {
	if i := bytes.IndexByte(b, Terminator); i >= 0 {
		b = b[:i]
	}
	s, _, err := transform.Bytes(Codec.NewDecoder(), b)
	if err != nil {
		return ""
	}
	return string(s)
}

// Encode converts s into a field of exactly n bytes. Longer strings are cut
// and shorter ones are padded with terminators. Malformed input yields an
// empty field.
func Encode(s string, n int) []byte {
	b, _, err := transform.Bytes(Codec.NewEncoder(), []byte(s))
	if err != nil {
		b = nil
	}
	out := bytes.Repeat([]byte{Terminator}, n)
	copy(out, b)
	return out
}
