package dns

import (
	"encoding/binary"
	"fmt"
)

// MaxMessageSize is the largest DNS message a 16-bit length field can describe.
const MaxMessageSize = 65535

// EncodeQuery builds a standard recursive query for a single question.
//
// The header carries the given ID, the RD flag and QDCOUNT=1; the question
// uses class IN. Names that cannot be encoded fail with ErrInvalidName.
func EncodeQuery(domain string, id uint16, qtype RecordType) ([]byte, error) {
	p := Packet{
		Header:    Header{ID: id, Flags: RDFlag},
		Questions: []Question{{Name: domain, Type: qtype, Class: ClassIN}},
	}
	b, err := p.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encode %s query for %q: %w", qtype, domain, err)
	}
	return b, nil
}

// DecodeTXTResponse extracts TXT values from the answer section of a response.
//
// Messages without the QR flag, or with the TC flag set, fail with
// ErrMalformedMessage. A non-zero RCODE yields an empty slice and a nil error: the caller treats
// it as "no data". Question and answer names are skipped without following
// compression pointers. Each TXT answer contributes one value, the
// concatenation of its character-strings; answers of any other type are
// skipped. Truncated input fails with ErrMalformedMessage.
func DecodeTXTResponse(msg []byte) ([]string, error) {
	off := 0
	h, err := ParseHeader(msg, &off)
	if err != nil {
		return nil, err
	}
	if !h.IsResponse() {
		return nil, fmt.Errorf("%w: message is not a response", ErrMalformedMessage)
	}
	if h.Truncated() {
		return nil, fmt.Errorf("%w: truncated response", ErrMalformedMessage)
	}
	if h.RCode() != RCodeNoError {
		return []string{}, nil
	}

	for range h.QDCount {
		if err := skipName(msg, &off); err != nil {
			return nil, err
		}
		// QTYPE + QCLASS
		off += 4
		if off > len(msg) {
			return nil, fmt.Errorf("%w: unexpected EOF while reading question", ErrMalformedMessage)
		}
	}

	records := make([]string, 0, min(int(h.ANCount), 16))
	for range h.ANCount {
		if err := skipName(msg, &off); err != nil {
			return nil, err
		}
		if off+10 > len(msg) {
			return nil, fmt.Errorf("%w: unexpected EOF while reading answer", ErrMalformedMessage)
		}
		rrType := RecordType(binary.BigEndian.Uint16(msg[off : off+2]))
		// CLASS(2) + TTL(4)
		off += 8
		rdlen := int(binary.BigEndian.Uint16(msg[off : off+2]))
		off += 2

		if rrType != TypeTXT {
			if off+rdlen > len(msg) {
				return nil, fmt.Errorf("%w: rdata runs past end of message", ErrMalformedMessage)
			}
			off += rdlen
			continue
		}
		txt, err := ParseTXTRData(msg, &off, rdlen)
		if err != nil {
			return nil, err
		}
		records = append(records, txt)
	}
	return records, nil
}
