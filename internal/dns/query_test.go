package dns

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTXTResponse builds a NOERROR response for domain carrying one TXT
// answer per value.
func buildTXTResponse(t *testing.T, id uint16, domain string, values ...string) []byte {
	t.Helper()
	answers := make([]Record, 0, len(values))
	for _, v := range values {
		answers = append(answers, NewTXTRecord(NewRRHeader(domain, ClassIN, 300), v))
	}
	p := Packet{
		Header:    Header{ID: id, Flags: QRFlag | RDFlag | RAFlag},
		Questions: []Question{{Name: domain, Type: TypeTXT, Class: ClassIN}},
		Answers:   answers,
	}
	b, err := p.Marshal()
	require.NoError(t, err)
	return b
}

func TestEncodeQuery(t *testing.T) {
	b, err := EncodeQuery("alice", 0xBEEF, TypeTXT)
	require.NoError(t, err)

	exp := []byte{
		0xBE, 0xEF, // ID
		0x01, 0x00, // RD
		0x00, 0x01, // QDCOUNT
		0x00, 0x00, // ANCOUNT
		0x00, 0x00, // NSCOUNT
		0x00, 0x00, // ARCOUNT
		5, 'a', 'l', 'i', 'c', 'e', 0,
		0x00, 0x10, // TXT
		0x00, 0x01, // IN
	}
	assert.Equal(t, exp, b)
}

func TestEncodeQuery_RejectsLongLabel(t *testing.T) {
	_, err := EncodeQuery(strings.Repeat("x", 64), 1, TypeTXT)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestDecodeTXTResponse_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		values []string
	}{
		{"single", "alice", []string{"ipfs=bafy123"}},
		{"multiple", "shop.alice", []string{"v=spf1 -all", "ipfs=bafy123", "ip6=QmHash"}},
		{"long value split on the wire", "bob", []string{strings.Repeat("z", 600)}},
		{"no answers", "carol", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := buildTXTResponse(t, 7, tt.domain, tt.values...)
			got, err := DecodeTXTResponse(msg)
			require.NoError(t, err)
			if len(tt.values) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.values, got)
		})
	}
}

func TestDecodeTXTResponse_NonZeroRCode(t *testing.T) {
	for _, rcode := range []RCode{RCodeFormErr, RCodeServFail, RCodeNXDomain, RCodeRefused} {
		msg := buildTXTResponse(t, 1, "alice", "ipfs=bafy123")
		msg[3] = (msg[3] &^ byte(RCodeMask)) | byte(rcode)

		got, err := DecodeTXTResponse(msg)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestDecodeTXTResponse_CompressedNames(t *testing.T) {
	msg := []byte{
		0x00, 0x01, 0x81, 0x80, // ID, flags
		0x00, 0x01, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00,
		5, 'a', 'l', 'i', 'c', 'e', 0, 0x00, 0x10, 0x00, 0x01,
		// answer 1: A record with pointer name, skipped
		0xC0, 0x0C, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x01, 0x2C, 0x00, 0x04, 192, 0, 2, 1,
		// answer 2: TXT with two character-strings
		0xC0, 0x0C, 0x00, 0x10, 0x00, 0x01, 0x00, 0x00, 0x01, 0x2C, 0x00, 0x0B,
		5, 'i', 'p', 'f', 's', '=', 4, 'b', 'a', 'f', 'y',
	}
	got, err := DecodeTXTResponse(msg)
	require.NoError(t, err)
	assert.Equal(t, []string{"ipfs=bafy"}, got)
}

func TestDecodeTXTResponse_Malformed(t *testing.T) {
	valid := buildTXTResponse(t, 1, "alice", "ipfs=bafy123")

	tests := []struct {
		name string
		msg  []byte
	}{
		{"empty", nil},
		{"short header", valid[:6]},
		{"truncated question", valid[:HeaderSize+3]},
		{"truncated answer header", valid[:len(valid)-20]},
		{"truncated rdata", valid[:len(valid)-2]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTXTResponse(tt.msg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedMessage)
		})
	}
}

func TestDecodeTXTResponse_RejectsBadFlags(t *testing.T) {
	tests := []struct {
		name  string
		flags uint16
	}{
		{"query echoed back", RDFlag},
		{"truncated", QRFlag | TCFlag | RDFlag | RAFlag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := buildTXTResponse(t, 1, "alice", "ipfs=bafy123")
			msg[2], msg[3] = byte(tt.flags>>8), byte(tt.flags)

			_, err := DecodeTXTResponse(msg)
			assert.ErrorIs(t, err, ErrMalformedMessage)
		})
	}
}

func TestHeader_Flags(t *testing.T) {
	h := Header{Flags: QRFlag | TCFlag}
	assert.True(t, h.IsResponse())
	assert.True(t, h.Truncated())

	h = Header{Flags: RDFlag}
	assert.False(t, h.IsResponse())
	assert.False(t, h.Truncated())
}

func TestDecodeTXTResponse_CharacterStringPastRData(t *testing.T) {
	msg := []byte{
		0x00, 0x01, 0x81, 0x80,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
		0xC0, 0x0C, 0x00, 0x10, 0x00, 0x01, 0x00, 0x00, 0x00, 0x3C, 0x00, 0x03,
		9, 'a', 'b', // claims 9 bytes, rdata holds 2
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	}
	_, err := DecodeTXTResponse(msg)
	assert.ErrorIs(t, err, ErrMalformedMessage)
}
