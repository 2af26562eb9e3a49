package peers

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mosaicnetworks/cascade/pki"
)

func testAccountKey(t *testing.T) string {
	kp, err := pki.Generate()
	require.NoError(t, err)
	return kp.AccountKey().ToHexString(32)
}

func TestJSONRosterRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "cascade-peers")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	jr := NewJSONRoster(dir)

	empty, err := jr.Load()
	require.NoError(t, err)
	require.Equal(t, 0, empty.Len())

	r := NewRoster()
	r.Add(Entry{AccountKey: testAccountKey(t), Address: "127.0.0.1:1337"})
	r.Add(Entry{AccountKey: testAccountKey(t), Address: "127.0.0.1:1338"})

	require.NoError(t, jr.Save(r))

	loaded, err := jr.Load()
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	require.ElementsMatch(t, r.Entries(), loaded.Entries())
}

func TestRosterLookupAndRemove(t *testing.T) {
	kp, err := pki.Generate()
	require.NoError(t, err)
	key := kp.AccountKey()

	r := NewRoster()
	r.Add(Entry{AccountKey: key.ToHexString(32), Address: "10.0.0.1:1337"})

	addr, ok := r.Lookup(key)
	require.True(t, ok)
	require.Equal(t, "10.0.0.1:1337", addr)

	r.Remove(key)
	_, ok = r.Lookup(key)
	require.False(t, ok)
}

func TestRosterAccountKeysSkipsUnparseable(t *testing.T) {
	r := NewRoster()
	r.Add(Entry{AccountKey: "not-hex", Address: "x"})
	require.Empty(t, r.AccountKeys())

	kp, err := pki.Generate()
	require.NoError(t, err)
	r.Add(Entry{AccountKey: kp.AccountKey().ToHexString(32), Address: "y"})
	keys := r.AccountKeys()
	require.Len(t, keys, 1)
	require.Equal(t, kp.AccountKey(), keys[0])
}
