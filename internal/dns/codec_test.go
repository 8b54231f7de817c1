package dns

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeName(t *testing.T) {
	b, err := EncodeName("google.com")
	require.NoError(t, err)
	exp := []byte{6, 'g', 'o', 'o', 'g', 'l', 'e', 3, 'c', 'o', 'm', 0}
	assert.Equal(t, exp, b)
}

func TestEncodeName_TrailingDot(t *testing.T) {
	a, err := EncodeName("alice.")
	require.NoError(t, err)
	b, err := EncodeName("alice")
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestEncodeName_Root(t *testing.T) {
	b, err := EncodeName(".")
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, b)
}

func TestEncodeName_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		domain string
	}{
		{"empty", ""},
		{"empty label", "a..b"},
		{"leading dot", ".alice"},
		{"label of 64 bytes", strings.Repeat("a", 64) + ".com"},
		{"non ascii", "bücher.de"},
		{"name over 255 bytes", strings.TrimSuffix(strings.Repeat(strings.Repeat("a", 63)+".", 4), ".")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeName(tt.domain)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidName)
			assert.ErrorIs(t, err, ErrDNSError)
		})
	}
}

func TestEncodeName_MaxLabel(t *testing.T) {
	label := strings.Repeat("a", 63)
	b, err := EncodeName(label)
	require.NoError(t, err)
	assert.Len(t, b, 65)
	assert.Equal(t, byte(63), b[0])
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "alice.example", NormalizeName("Alice.Example."))
	assert.Equal(t, "", NormalizeName("."))
}

func TestSkipName(t *testing.T) {
	tests := []struct {
		name    string
		msg     []byte
		wantOff int
	}{
		{"uncompressed", []byte{3, 'w', 'w', 'w', 3, 'c', 'o', 'm', 0, 0xFF}, 9},
		{"pointer only", []byte{0xC0, 0x0C, 0xFF}, 2},
		{"label then pointer", []byte{3, 'w', 'w', 'w', 0xC0, 0x0C, 0xFF}, 6},
		{"root", []byte{0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off := 0
			require.NoError(t, skipName(tt.msg, &off))
			assert.Equal(t, tt.wantOff, off)
		})
	}
}

func TestSkipName_Truncated(t *testing.T) {
	tests := [][]byte{
		{},
		{3, 'w', 'w'},
		{3, 'w', 'w', 'w'},
		{0xC0},
	}
	for _, msg := range tests {
		off := 0
		err := skipName(msg, &off)
		assert.ErrorIs(t, err, ErrMalformedMessage)
	}
}
