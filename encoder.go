package utf7

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// Encode converts a string to modified UTF-7. It never fails: every code
// point, including control characters and code points outside the Basic
// Multilingual Plane, has an encoded form. Invalid UTF-8 byte sequences are
// encoded as the Unicode replacement code point (U+FFFD).
func Encode(s string) string {
	return string(encode(nil, []byte(s)))
}

// encode appends the modified UTF-7 form of src to dst. Printable ASCII is
// copied as-is ("&" becomes "&-"), maximal runs of everything else become
// shift sequences.
func encode(dst, src []byte) []byte {
	for i := 0; i < len(src); {
		if c := src[i]; min <= c && c <= max {
			dst = append(dst, c)
			if c == '&' {
				dst = append(dst, '-')
			}
			i++
			continue
		}
		start := i
		for i++; i < len(src) && (src[i] < min || src[i] > max); i++ {
			// Find the next printable ASCII code point
		}
		dst = appendShift(dst, src[start:i])
	}
	return dst
}

// appendShift encodes one run of non-ASCII text as a single shift sequence:
// UTF-16BE code units, modified Base64 without padding, framed by "&" and
// "-".
func appendShift(dst, run []byte) []byte {
	b := make([]byte, 0, len(run)*2)
	for len(run) > 0 {
		r, size := utf8.DecodeRune(run)
		run = run[size:]
		if r1, r2 := utf16.EncodeRune(r); r1 != repl {
			b = append(b, byte(r1>>8), byte(r1))
			r = r2
		}
		b = append(b, byte(r>>8), byte(r))
	}

	dst = append(dst, '&')
	n := len(dst)
	dst = append(dst, make([]byte, enc.EncodedLen(len(b)))...)
	enc.Encode(dst[n:], b)
	return append(dst, '-')
}

type encoder struct {
	transform.NopResetter
}

func (*encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		i := nSrc
		var b []byte
		if c := src[i]; min <= c && c <= max {
			i++
			if c == '&' {
				b = []byte{'&', '-'}
			} else {
				b = src[nSrc:i]
			}
		} else {
			for i++; i < len(src) && (src[i] < min || src[i] > max); i++ {
			}
			if i == len(src) && !atEOF {
				// The run may continue in the next chunk. Encoding it now
				// would split it across two shift sequences.
				err = transform.ErrShortSrc
				break
			}
			b = appendShift(nil, src[nSrc:i])
		}
		if nDst+len(b) > len(dst) {
			err = transform.ErrShortDst
			break
		}
		nDst += copy(dst[nDst:], b)
		nSrc = i
	}
	return nDst, nSrc, err
}
