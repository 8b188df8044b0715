package utf7

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// Decode converts modified UTF-7 text back to plain text. Characters outside
// shift sequences are copied verbatim and "&-" becomes a literal "&".
//
// Decoding fails on the leftmost malformed shift sequence: the returned error
// matches ErrMalformedPayload, ErrOddLength, ErrUnpairedSurrogate or
// ErrUnterminatedShift via errors.Is, and no partial output is returned.
func Decode(s string) (string, error) {
	dst := make([]byte, 0, len(s))
	src := []byte(s)
	for len(src) > 0 {
		c := src[0]
		if c != '&' {
			dst = append(dst, c)
			src = src[1:]
			continue
		}
		end := bytes.IndexByte(src[1:], '-')
		if end < 0 {
			return "", ErrUnterminatedShift
		}
		if end == 0 {
			dst = append(dst, '&')
		} else {
			b, err := decodeShift(src[1 : 1+end])
			if err != nil {
				return "", err
			}
			dst = append(dst, b...)
		}
		src = src[2+end:]
	}
	return string(dst), nil
}

// decodeShift converts one shift-sequence payload (the text between "&" and
// "-") to UTF-8. Transmitted payloads carry no Base64 padding, but padded
// forms are tolerated: "," is mapped back to "/" and "=" is appended until
// the length is a multiple of four before decoding.
func decodeShift(payload []byte) ([]byte, error) {
	b64 := make([]byte, 0, len(payload)+3)
	for _, c := range payload {
		if c == ',' {
			c = '/'
		}
		// encoding/base64 skips CR and LF instead of rejecting them, so the
		// alphabet has to be checked up front.
		if !isBase64(c) {
			return nil, fmt.Errorf("%w: %q", ErrMalformedPayload, payload)
		}
		b64 = append(b64, c)
	}
	for len(b64)%4 != 0 {
		b64 = append(b64, '=')
	}

	b := make([]byte, base64.StdEncoding.DecodedLen(len(b64)))
	n, err := base64.StdEncoding.Decode(b, b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedPayload, payload)
	}
	b = b[:n]
	if len(b)%2 != 0 {
		return nil, fmt.Errorf("%w: %q", ErrOddLength, payload)
	}

	dst := make([]byte, 0, len(b)*3/2)
	for i := 0; i < len(b); i += 2 {
		r := rune(b[i])<<8 | rune(b[i+1])
		if utf16.IsSurrogate(r) {
			if i += 2; i == len(b) {
				return nil, fmt.Errorf("%w: %q", ErrUnpairedSurrogate, payload)
			}
			r2 := rune(b[i])<<8 | rune(b[i+1])
			if r = utf16.DecodeRune(r, r2); r == repl {
				return nil, fmt.Errorf("%w: %q", ErrUnpairedSurrogate, payload)
			}
		}
		dst = utf8.AppendRune(dst, r)
	}
	return dst, nil
}

func isBase64(c byte) bool {
	return 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z' ||
		'0' <= c && c <= '9' || c == '+' || c == '/' || c == '='
}

type decoder struct {
	transform.NopResetter
}

func (*decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if c := src[nSrc]; c != '&' {
			if nDst == len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}
		end := bytes.IndexByte(src[nSrc+1:], '-')
		if end < 0 {
			if !atEOF {
				return nDst, nSrc, transform.ErrShortSrc
			}
			return nDst, nSrc, ErrUnterminatedShift
		}
		var b []byte
		if end == 0 {
			b = []byte{'&'}
		} else {
			b, err = decodeShift(src[nSrc+1 : nSrc+1+end])
			if err != nil {
				return nDst, nSrc, err
			}
		}
		if nDst+len(b) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], b)
		nSrc += end + 2
	}
	return nDst, nSrc, nil
}
