package dns

import (
	"encoding/binary"
	"fmt"

	"github.com/jroosing/fireportal/internal/helpers"
)

// RRHeader contains common metadata for DNS resource records.
// This is distinct from Header which is the DNS message header.
type RRHeader struct {
	Name  string
	Class RecordClass
	TTL   uint32
}

// NewRRHeader creates a new resource record header.
func NewRRHeader(name string, class RecordClass, ttl uint32) RRHeader {
	return RRHeader{Name: name, Class: class, TTL: ttl}
}

// Record is the interface for DNS resource records that can be written to
// the wire.
type Record interface {
	// Type returns the DNS record type.
	Type() RecordType

	// Header returns the record's metadata.
	Header() RRHeader

	// MarshalRData marshals the record-specific data (RDATA) to wire format.
	MarshalRData() ([]byte, error)
}

// MarshalRecord converts a Record to wire-format bytes.
//
//	name | type(2) | class(2) | ttl(4) | rdlength(2) | rdata
func MarshalRecord(r Record) ([]byte, error) {
	rdata, err := r.MarshalRData()
	if err != nil {
		return nil, err
	}
	if len(rdata) > 65535 {
		return nil, fmt.Errorf("%w: rdata too large: %d bytes", ErrDNSError, len(rdata))
	}
	h := r.Header()
	name, err := EncodeName(h.Name)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(name)+10, len(name)+10+len(rdata))
	copy(out, name)
	fixed := out[len(name):]
	binary.BigEndian.PutUint16(fixed[0:2], uint16(r.Type()))
	binary.BigEndian.PutUint16(fixed[2:4], uint16(h.Class))
	binary.BigEndian.PutUint32(fixed[4:8], h.TTL)
	binary.BigEndian.PutUint16(fixed[8:10], helpers.ClampIntToUint16(len(rdata)))
	return append(out, rdata...), nil
}
