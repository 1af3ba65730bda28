package iojson

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLine(&buf, record{ID: 1, Title: "a"}))
	require.NoError(t, WriteLine(&buf, record{ID: 2, Title: "b"}))

	assert.Equal(t, "{\"id\":1,\"title\":\"a\"}\n{\"id\":2,\"title\":\"b\"}\n", buf.String())
}

func TestWriteIndent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIndent(&buf, record{ID: 1}))
	assert.Equal(t, "{\n  \"id\": 1,\n  \"title\": \"\"\n}\n", buf.String())
}

func TestWrite_Unmarshalable(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteLine(&buf, make(chan int)))
	assert.Empty(t, buf.String())
}

func TestFileReader(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "in.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"id":7,"title":"x"}`), 0o644))

		fr := &FileReader[record]{path: path}
		assert.True(t, fr.Set())
		got, err := fr.Read()
		require.NoError(t, err)
		assert.Equal(t, record{ID: 7, Title: "x"}, got)
	})

	t.Run("stdin", func(t *testing.T) {
		fr := &FileReader[record]{path: "-", stdin: strings.NewReader(`{"id":3}`)}
		got, err := fr.Read()
		require.NoError(t, err)
		assert.Equal(t, 3, got.ID)
	})

	t.Run("unknown field", func(t *testing.T) {
		fr := &FileReader[record]{path: "-", stdin: strings.NewReader(`{"nope":1}`)}
		_, err := fr.Read()
		assert.ErrorContains(t, err, "decode JSON")
	})

	t.Run("missing file", func(t *testing.T) {
		fr := &FileReader[record]{path: filepath.Join(t.TempDir(), "missing.json")}
		_, err := fr.Read()
		assert.ErrorContains(t, err, "open input")
	})

	t.Run("flag", func(t *testing.T) {
		fr := &FileReader[record]{}
		assert.False(t, fr.Set())
		assert.Equal(t, "input", fr.Flag().Name)
	})
}
