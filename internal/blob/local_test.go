package blob

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := NewKey("brief.pdf")
	require.NoError(t, s.Put(ctx, key, strings.NewReader("hello"), 5, "application/pdf"))

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(body))

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an already-missing key is fine.
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root)
	require.NoError(t, err)

	p := s.filePath("../../etc/passwd")
	assert.True(t, strings.HasPrefix(p, root), "key must stay under root: %s", p)
}

func TestNewKey(t *testing.T) {
	k := NewKey("Scan 01.PDF")
	assert.True(t, strings.HasPrefix(k, "documents/"))
	assert.True(t, strings.HasSuffix(k, ".PDF"))
	assert.NotEqual(t, k, NewKey("Scan 01.PDF"))

	assert.False(t, strings.Contains(NewKey(""), "."))
}
