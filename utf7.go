// Package utf7 implements the modified UTF-7 encoding defined in RFC 3501
// section 5.1.3, used for international mailbox names in IMAP.
//
// Modified UTF-7 represents printable ASCII directly and encodes everything
// else as Base64-encoded UTF-16BE wrapped in "&...-" shift sequences. The
// Base64 alphabet uses "," instead of "/", transmitted payloads carry no
// padding, and a literal "&" is written as "&-".
package utf7

import (
	"encoding/base64"
	"errors"

	"golang.org/x/text/encoding"
)

const (
	min = 0x20 // Minimum self-representing UTF-7 value
	max = 0x7E // Maximum self-representing UTF-7 value

	repl = '\uFFFD' // Unicode replacement code point
)

var enc = base64.NewEncoding("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+,").WithPadding(base64.NoPadding)

var (
	// ErrMalformedPayload is returned when a shift-sequence payload is not
	// valid modified Base64.
	ErrMalformedPayload = errors.New("utf7: malformed base64 payload")

	// ErrOddLength is returned when a decoded payload cannot be split into
	// UTF-16BE code units.
	ErrOddLength = errors.New("utf7: odd-length UTF-16 data")

	// ErrUnpairedSurrogate is returned when a payload contains a high
	// surrogate without its low surrogate, or an isolated low surrogate.
	ErrUnpairedSurrogate = errors.New("utf7: unpaired surrogate")

	// ErrUnterminatedShift is returned when a "&" has no closing "-" before
	// the end of input.
	ErrUnterminatedShift = errors.New("utf7: unterminated shift sequence")
)

// Encoding is the modified UTF-7 encoding.
//
// Both directions are streaming-safe: the encoder never splits a run of
// non-ASCII text across two shift sequences, and the decoder waits for a
// sequence's terminating "-" before decoding it.
var Encoding encoding.Encoding = utf7Encoding{}

type utf7Encoding struct{}

func (utf7Encoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: &decoder{}}
}

func (utf7Encoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: &encoder{}}
}

func (utf7Encoding) String() string {
	return "IMAP UTF-7"
}
