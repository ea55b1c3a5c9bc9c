package commit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootIsDeterministic(t *testing.T) {
	a, err := Root().Encode()
	require.NoError(t, err)
	b, err := Root().Encode()
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.JSONEq(t, `{"message":"initial commit","timestamp":"1970-01-01T00:00:00Z","files":{}}`, string(a))
}

func TestEncodeDecode(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("X", 3600))
	files := map[string]string{"b.txt": "bb", "a.txt": "aa"}
	c := New("second", ts, "p1", "p2", files)

	files["c.txt"] = "cc"
	assert.False(t, c.Tracks("c.txt"), "New must copy the mapping")

	data, err := c.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"files":{"a.txt":"aa","b.txt":"bb"}`)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "second", decoded.Message)
	assert.True(t, ts.Equal(decoded.Timestamp))
	assert.Equal(t, []string{"p1", "p2"}, decoded.Parents())
	assert.True(t, decoded.IsMerge())

	again, err := decoded.Encode()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestBlobAndShape(t *testing.T) {
	c := New("m", time.Now(), "", "", map[string]string{"a": "1"})

	blob, ok := c.Blob("a")
	require.True(t, ok)
	assert.Equal(t, "1", blob)
	_, ok = c.Blob("b")
	assert.False(t, ok)
	assert.True(t, c.IsRoot())
	assert.False(t, c.IsMerge())
}
