package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHash(t *testing.T) {
	data := []byte("faktur agustus")
	want := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(want[:]), FileHash(data))
}

func TestMatcher(t *testing.T) {
	data := []byte("content")

	ok, err := NewMatcher(FileHash(data)).Match(data)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = NewMatcher(FileHash(data)).Match([]byte("tampered"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = NewMatcher("").Match(data)
	assert.Error(t, err)
}
