package contentid_test

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/jroosing/fireportal/internal/contentid"
	mh "github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCID(t *testing.T, codec uint64, data string) string {
	t.Helper()
	sum, err := mh.Sum([]byte(data), mh.SHA2_256, -1)
	require.NoError(t, err)
	return cid.NewCidV1(codec, sum).String()
}

func TestExtract_FirstMatchInRecordOrder(t *testing.T) {
	records := []string{
		"v=spf1 -all",
		"ip6=QmFirst",
		"ipfs=bafySecond",
		"ipfs:bafyThird",
	}
	id, ok := contentid.Extract(records)
	require.True(t, ok)
	assert.Equal(t, "QmFirst", id.Value())
	assert.Equal(t, contentid.NamespaceIPFS, id.Namespace())
}

func TestExtract_Prefixes(t *testing.T) {
	tests := []struct {
		name   string
		record string
		want   string
	}{
		{"equals", "ipfs=bafy123", "bafy123"},
		{"colon", "ipfs:bafy123", "bafy123"},
		{"ip6", "ip6=bafy123", "bafy123"},
		{"path form stripped", "ipfs=/ipfs/bafy123", "bafy123"},
		{"surrounding space", "  ipfs=bafy123 ", "bafy123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := contentid.Extract([]string{tt.record})
			require.True(t, ok)
			assert.Equal(t, tt.want, id.Value())
			assert.False(t, id.IsMutable())
		})
	}
}

func TestExtract_NoMatch(t *testing.T) {
	for _, records := range [][]string{
		nil,
		{},
		{"v=spf1 -all", "google-site-verification=abc"},
		{"IPFS=bafy123"},
		{"ipfs="},
	} {
		id, ok := contentid.Extract(records)
		assert.False(t, ok)
		assert.True(t, id.IsZero())
	}
}

func TestExtract_SkipsEmptyValue(t *testing.T) {
	id, ok := contentid.Extract([]string{"ipfs=", "ipfs=/ipfs/", "ip6=bafyLater"})
	require.True(t, ok)
	assert.Equal(t, "bafyLater", id.Value())
}

func TestExtract_SkipsBareNamespacePaths(t *testing.T) {
	tests := []struct {
		name    string
		records []string
	}{
		{"ipns slash", []string{"ipfs=/ipns/", "ip6=bafyGood"}},
		{"ipfs slash", []string{"ipfs=/ipfs/", "ip6=bafyGood"}},
		{"ipns no leading slash", []string{"ipfs=ipns/", "ip6=bafyGood"}},
		{"bare ipns", []string{"ipfs=ipns", "ip6=bafyGood"}},
		{"bare ipfs", []string{"ipfs:/ipfs", "ip6=bafyGood"}},
		{"only slashes", []string{"ipfs=//", "ip6=bafyGood"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := contentid.Extract(tt.records)
			require.True(t, ok)
			assert.Equal(t, "/ipfs/bafyGood", id.String())
		})
	}
}

func TestParse_TrailingSlashes(t *testing.T) {
	id, ok := contentid.Parse("/ipns/docs.example/")
	require.True(t, ok)
	assert.Equal(t, "/ipns/docs.example", id.String())

	id, ok = contentid.Parse("/ipfs/bafy123//")
	require.True(t, ok)
	assert.Equal(t, "/ipfs/bafy123", id.String())

	_, ok = contentid.Parse("/ipns//")
	assert.False(t, ok)
}

func TestExtract_MutableValues(t *testing.T) {
	key := newCID(t, cid.Libp2pKey, "peer")

	id, ok := contentid.Extract([]string{"ipfs=/ipns/docs.example"})
	require.True(t, ok)
	assert.True(t, id.IsMutable())
	assert.Equal(t, "docs.example", id.Value())

	id, ok = contentid.Extract([]string{"ipfs=" + key})
	require.True(t, ok)
	assert.True(t, id.IsMutable())
	assert.Equal(t, key, id.Value())
	assert.Equal(t, "/ipns/"+key, id.String())
}

func TestExtract_RawCIDIsImmutable(t *testing.T) {
	raw := newCID(t, cid.Raw, "hello")
	id, ok := contentid.Extract([]string{"ipfs=" + raw})
	require.True(t, ok)
	assert.False(t, id.IsMutable())
	assert.Equal(t, "/ipfs/"+raw, id.String())
}

func TestID_Namespaces(t *testing.T) {
	im := contentid.Immutable("bafy")
	mu := contentid.Mutable("bafy")

	assert.Equal(t, "ipfs", im.Namespace().String())
	assert.Equal(t, "ipns", mu.Namespace().String())
	assert.NotEqual(t, im, mu)
	assert.True(t, contentid.ID{}.IsZero())
}
