package deeplink

import (
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	codes := []string{"ep01", "ep01g", "Drama-Cina_12", "a", "kode dengan spasi", "集01", "x:y/z?=&"}
	for _, code := range codes {
		for _, part := range []Part{P1, P2} {
			token, err := Encode(code, part)
			require.NoError(t, err, code)
			assert.Regexp(t, `^[1-9A-HJ-NP-Za-km-z]+$`, token)

			gotCode, gotPart, err := Decode(token)
			require.NoError(t, err, code)
			assert.Equal(t, code, gotCode)
			assert.Equal(t, part, gotPart)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	a, err := Encode("ep01", P2)
	require.NoError(t, err)
	b, err := Encode("ep01", P2)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Encode("ep01", P1)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestEncodeRejects(t *testing.T) {
	_, err := Encode("", P1)
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, err = Encode("ep|01", P1)
	assert.ErrorIs(t, err, ErrInvalidCode)
	_, err = Encode("ep01", Part("P3"))
	assert.Error(t, err)
	_, err = Encode("a-very-long-content-code-that-does-not-fit-in-a-start-parameter", P1)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"bad alphabet": "0OIl",
		"url escaped":  "ep01%7CP1",
		"plain code":   "ep01",
		"no separator": base58.Encode([]byte("ep01")),
		"unknown part": base58.Encode([]byte("ep01|P3")),
		"empty code":   base58.Encode([]byte("|P1")),
		"two fields+":  base58.Encode([]byte("ep|01|P1")),
		"not utf8":     base58.Encode([]byte{0xff, 0xfe, '|', 'P', '1'}),
		"too long":     strings.Repeat("2", maxTokenLen+1),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Decode(token)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestLink(t *testing.T) {
	assert.Equal(t, "https://t.me/VIPDramaCinaBot?start=abc", Link("VIPDramaCinaBot", "abc"))
}
