package dns

import "fmt"

// maxCharacterString is the longest character-string a single length byte can describe.
const maxCharacterString = 255

// TXTRecord is a TXT resource record (RFC 1035 Section 3.3.14).
//
// Strings holds the logical TXT values. Values longer than 255 bytes are
// split into several character-strings on the wire, and ParseTXTRData joins
// them back together.
type TXTRecord struct {
	H       RRHeader
	Strings []string
}

// NewTXTRecord creates a TXT record with a single logical value.
func NewTXTRecord(h RRHeader, value string) *TXTRecord {
	return &TXTRecord{H: h, Strings: []string{value}}
}

// Type returns TypeTXT.
func (r *TXTRecord) Type() RecordType { return TypeTXT }

// Header returns the record header.
func (r *TXTRecord) Header() RRHeader { return r.H }

// MarshalRData encodes each value as one or more length-prefixed character-strings.
func (r *TXTRecord) MarshalRData() ([]byte, error) {
	var out []byte
	for _, s := range r.Strings {
		if s == "" {
			out = append(out, 0)
			continue
		}
		for len(s) > 0 {
			n := min(len(s), maxCharacterString)
			out = append(out, byte(n))
			out = append(out, s[:n]...)
			s = s[n:]
		}
	}
	return out, nil
}

// ParseTXTRData decodes TXT RDATA of length rdlen starting at *off and returns
// the concatenation of its character-strings. It advances *off past the RDATA.
func ParseTXTRData(msg []byte, off *int, rdlen int) (string, error) {
	end := *off + rdlen
	if end > len(msg) {
		return "", fmt.Errorf("%w: TXT rdata runs past end of message", ErrMalformedMessage)
	}
	buf := make([]byte, 0, rdlen)
	for *off < end {
		n := int(msg[*off])
		*off++
		if *off+n > end {
			return "", fmt.Errorf("%w: TXT character-string runs past rdata", ErrMalformedMessage)
		}
		buf = append(buf, msg[*off:*off+n]...)
		*off += n
	}
	return string(buf), nil
}
