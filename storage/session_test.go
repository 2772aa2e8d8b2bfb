package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *BoltStorage {
	t.Helper()
	s, err := NewBoltStorage(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGet(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Set("sid", []byte("payload"), time.Hour))

	val, err := s.Get("sid")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), val)
}

func TestGetMissing(t *testing.T) {
	s := newTestStorage(t)

	val, err := s.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestExpiry(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Set("short", []byte("payload"), time.Nanosecond))
	require.NoError(t, s.Set("forever", []byte("payload"), 0))
	time.Sleep(5 * time.Millisecond)

	val, err := s.Get("short")
	require.NoError(t, err)
	assert.Nil(t, val, "expired record reads as absent")

	val, err = s.Get("forever")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), val, "zero TTL never expires")
}

func TestDelete(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Set("sid", []byte("payload"), time.Hour))
	require.NoError(t, s.Delete("sid"))

	val, err := s.Get("sid")
	require.NoError(t, err)
	assert.Nil(t, val)

	assert.NoError(t, s.Delete("sid"), "deleting twice is fine")
}

func TestReset(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Set("a", []byte("1"), time.Hour))
	require.NoError(t, s.Set("b", []byte("2"), time.Hour))
	require.NoError(t, s.Reset())

	for _, key := range []string{"a", "b"} {
		val, err := s.Get(key)
		require.NoError(t, err)
		assert.Nil(t, val)
	}

	// The bucket is usable again after a reset.
	require.NoError(t, s.Set("c", []byte("3"), time.Hour))
	val, err := s.Get("c")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), val)
}

func TestGC(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Set("old", []byte("x"), time.Nanosecond))
	require.NoError(t, s.Set("live", []byte("y"), time.Hour))
	time.Sleep(5 * time.Millisecond)

	s.gc()

	val, err := s.Get("live")
	require.NoError(t, err)
	assert.Equal(t, []byte("y"), val)

	// The expired record is physically gone, not just masked.
	raw, err := s.Get("old")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestOverwrite(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Set("sid", []byte("first"), time.Hour))
	require.NoError(t, s.Set("sid", []byte("second"), time.Hour))

	val, err := s.Get("sid")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), val)
}
