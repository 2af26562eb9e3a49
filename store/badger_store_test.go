package store

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mosaicnetworks/cascade/data"
)

func TestDiskStorePutGetHas(t *testing.T) {
	dir, err := ioutil.TempDir("", "cascade-store")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	s, err := OpenDiskStore(dir)
	require.NoError(t, err)
	defer s.Close()

	cell := data.Long(123)
	h := data.Hash(cell)
	encoded := data.Encode(cell)

	has, err := s.Has(h)
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, s.Put(h, encoded))

	got, found, err := s.Get(h)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, encoded, got)
}

func TestDiskStorePersistsAcrossReopen(t *testing.T) {
	dir, err := ioutil.TempDir("", "cascade-store")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	cell := data.CString("durable")
	h := data.Hash(cell)

	s1, err := OpenDiskStore(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Put(h, data.Encode(cell)))
	require.NoError(t, s1.Close())

	s2, err := OpenDiskStore(dir)
	require.NoError(t, err)
	defer s2.Close()

	got, found, err := s2.Get(h)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, data.Encode(cell), got)
}
