package dns

import "github.com/jroosing/fireportal/internal/helpers"

// Packet represents a complete DNS message (RFC 1035 Section 4.1) for encoding.
//
// Section counts in Header are ignored by Marshal and recomputed from the
// slices, so a Packet can be built without keeping them in sync by hand.
type Packet struct {
	Header      Header
	Questions   []Question
	Answers     []Record
	Authorities []Record
	Additionals []Record
}

// Marshal serializes the packet to DNS wire format (big-endian).
func (p Packet) Marshal() ([]byte, error) {
	h := Header{
		ID:      p.Header.ID,
		Flags:   p.Header.Flags,
		QDCount: helpers.ClampIntToUint16(len(p.Questions)),
		ANCount: helpers.ClampIntToUint16(len(p.Answers)),
		NSCount: helpers.ClampIntToUint16(len(p.Authorities)),
		ARCount: helpers.ClampIntToUint16(len(p.Additionals)),
	}

	// Estimate capacity: header(12) + question(~50) + records(~100 each)
	estimatedSize := HeaderSize + len(p.Questions)*50 + (len(p.Answers)+len(p.Authorities)+len(p.Additionals))*100
	out := make([]byte, 0, estimatedSize)
	out = append(out, h.Marshal()...)

	for _, q := range p.Questions {
		qb, err := q.Marshal()
		if err != nil {
			return nil, err
		}
		out = append(out, qb...)
	}

	for _, section := range [][]Record{p.Answers, p.Authorities, p.Additionals} {
		if err := appendRecords(&out, section); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// appendRecords marshals and appends records to the output buffer.
func appendRecords(out *[]byte, records []Record) error {
	for _, r := range records {
		b, err := MarshalRecord(r)
		if err != nil {
			return err
		}
		*out = append(*out, b...)
	}
	return nil
}
