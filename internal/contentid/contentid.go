// Package contentid models the identifiers a Handshake TXT record can point
// at: immutable IPFS content hashes and mutable IPNS names.
package contentid

import (
	"strings"

	"github.com/ipfs/go-cid"
)

// Namespace selects the gateway path prefix an identifier is served under.
type Namespace uint8

const (
	NamespaceIPFS Namespace = iota // content-addressed, /ipfs/
	NamespaceIPNS                  // mutable pointer, /ipns/
)

// String returns the URL path segment for the namespace.
func (n Namespace) String() string {
	if n == NamespaceIPNS {
		return "ipns"
	}
	return "ipfs"
}

// ID is a content identifier tagged with its namespace.
// The zero value is not a valid identifier.
type ID struct {
	ns    Namespace
	value string
}

// Immutable returns an identifier for a content hash.
func Immutable(hash string) ID { return ID{ns: NamespaceIPFS, value: hash} }

// Mutable returns an identifier for an IPNS name.
func Mutable(name string) ID { return ID{ns: NamespaceIPNS, value: name} }

// Namespace returns the identifier's namespace.
func (id ID) Namespace() Namespace { return id.ns }

// Value returns the bare hash or name.
func (id ID) Value() string { return id.value }

// IsZero reports whether id carries no value.
func (id ID) IsZero() bool { return id.value == "" }

// IsMutable reports whether id lives in the IPNS namespace.
func (id ID) IsMutable() bool { return id.ns == NamespaceIPNS }

// String returns the path form, e.g. /ipfs/bafy....
func (id ID) String() string {
	return "/" + id.ns.String() + "/" + id.value
}

// Record prefixes recognized in TXT values. Matching scans records in order,
// so the first record carrying any of these wins regardless of prefix.
var recordPrefixes = []string{"ipfs=", "ipfs:", "ip6="}

// Extract returns the identifier carried by the first TXT record with a
// recognized prefix. Records whose value is empty after the prefix are
// skipped.
func Extract(records []string) (ID, bool) {
	for _, rec := range records {
		rec = strings.TrimSpace(rec)
		for _, p := range recordPrefixes {
			if !strings.HasPrefix(rec, p) {
				continue
			}
			if id, ok := Parse(rec[len(p):]); ok {
				return id, true
			}
		}
	}
	return ID{}, false
}

// Parse tags a raw record value.
//
// "/ipns/<name>" and CIDs with the libp2p-key codec are mutable; "/ipfs/<cid>"
// is stripped to the CID. Everything else is taken as an immutable hash.
func Parse(v string) (ID, bool) {
	v = strings.TrimLeft(strings.TrimSpace(v), "/")
	mutable := false
	if rest, ok := cutNamespace(v, "ipns"); ok {
		v, mutable = rest, true
	} else if rest, ok := cutNamespace(v, "ipfs"); ok {
		v = rest
	}
	v = strings.TrimRight(v, "/")
	if v == "" {
		return ID{}, false
	}
	if mutable {
		return Mutable(v), true
	}
	if c, err := cid.Decode(v); err == nil && c.Type() == cid.Libp2pKey {
		return Mutable(v), true
	}
	return Immutable(v), true
}

// cutNamespace strips a leading "<ns>/" or a bare "<ns>" from v.
func cutNamespace(v, ns string) (string, bool) {
	if v == ns {
		return "", true
	}
	return strings.CutPrefix(v, ns+"/")
}
