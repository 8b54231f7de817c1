package dns

import "encoding/binary"

// Question represents a DNS question section entry (RFC 1035 Section 4.1.2).
type Question struct {
	Name  string
	Type  RecordType
	Class RecordClass
}

// Marshal serializes the question to DNS wire format.
func (q Question) Marshal() ([]byte, error) {
	name, err := EncodeName(q.Name)
	if err != nil {
		return nil, err
	}
	b := make([]byte, len(name)+4)
	copy(b, name)
	binary.BigEndian.PutUint16(b[len(name):], uint16(q.Type))
	binary.BigEndian.PutUint16(b[len(name)+2:], uint16(q.Class))
	return b, nil
}
