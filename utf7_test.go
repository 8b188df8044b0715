package utf7_test

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	utf7 "github.com/zephyrmail/go-utf7"
)

// randString draws code points from the full scalar-value space, so astral
// (surrogate-pair) characters show up regularly.
func randString(rng *rand.Rand) string {
	var sb strings.Builder
	for n := rng.Intn(64); n > 0; n-- {
		for {
			r := rune(rng.Intn(unicode.MaxRune + 1))
			if utf8.ValidRune(r) {
				sb.WriteRune(r)
				break
			}
		}
	}
	return sb.String()
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		s := randString(rng)
		encoded := utf7.Encode(s)
		decoded, err := utf7.Decode(encoded)
		require.NoError(t, err, "Decode(%q)", encoded)
		require.Equal(t, s, decoded, "round trip of %q", s)
	}
}

func TestRoundTripTransform(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	e := utf7.Encoding.NewEncoder()
	d := utf7.Encoding.NewDecoder()
	for i := 0; i < 500; i++ {
		s := randString(rng)

		encoded, err := e.String(s)
		require.NoError(t, err)
		assert.Equal(t, utf7.Encode(s), encoded)

		decoded, err := d.String(encoded)
		require.NoError(t, err)
		assert.Equal(t, s, decoded)
	}
}

func TestEncodeOutputIsPrintableASCII(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		s := randString(rng)
		for _, c := range []byte(utf7.Encode(s)) {
			if c < 0x20 || c > 0x7E {
				t.Fatalf("Encode(%q) produced non-printable byte %#x", s, c)
			}
		}
	}
}

func TestEncodingName(t *testing.T) {
	assert.Equal(t, "IMAP UTF-7", fmt.Sprint(utf7.Encoding))
}

func FuzzRoundTrip(f *testing.F) {
	f.Add("Отправленные")
	f.Add("a&b")
	f.Add("théâtre")
	f.Add("Šiukšliadėžė")
	f.Add("\U0001F60A")
	f.Add("&-")
	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			// Invalid sequences encode as U+FFFD, which cannot round-trip.
			t.Skip()
		}
		encoded := utf7.Encode(s)
		decoded, err := utf7.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode(%q) returned error: %v", encoded, err)
		}
		if decoded != s {
			t.Fatalf("Decode(Encode(%q)) = %q", s, decoded)
		}
	})
}

func FuzzDecode(f *testing.F) {
	f.Add("&BB4EQgQ,BEAEMAQyBDsENQQ9BD0ESwQ1-")
	f.Add("&AWA-iuk&AWE-liad&ARcBfgEX-")
	f.Add("&@-")
	f.Add("&AAAAHw==-")
	f.Add("&")
	f.Fuzz(func(t *testing.T, s string) {
		decoded, err := utf7.Decode(s)
		if err != nil {
			return
		}
		if !utf8.ValidString(decoded) {
			// Bytes outside shift sequences pass through verbatim, so
			// arbitrary input can decode to invalid UTF-8.
			t.Skip()
		}
		again, err := utf7.Decode(utf7.Encode(decoded))
		if err != nil {
			t.Fatalf("re-decoding %q returned error: %v", decoded, err)
		}
		if again != decoded {
			t.Fatalf("re-decoding %q produced %q", decoded, again)
		}
	})
}
