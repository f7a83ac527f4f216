package svgsource

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const icon = `<svg width="4" height="4"><rect width="4" height="4"/></svg>`

func readAll(t *testing.T, o Origin) string {
	t.Helper()
	rc, err := Resolve(o)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestOriginsAreEquivalent(t *testing.T) {
	assets := fstest.MapFS{"icons/square.svg": {Data: []byte(icon)}}
	dir := t.TempDir()
	file := filepath.Join(dir, "square.svg")
	require.NoError(t, os.WriteFile(file, []byte(icon), 0o644))
	table := ResourceTable{FS: assets, Names: map[int]string{7: "icons/square.svg"}}

	for _, o := range []Origin{
		FromReader(strings.NewReader(icon)),
		FromString(icon),
		FromBytes([]byte(icon)),
		FromResource(table, 7),
		FromAsset(assets, "icons/square.svg"),
		FromFile(file),
	} {
		assert.Equal(t, icon, readAll(t, o), o.String())
	}
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestReaderCloserIsKept(t *testing.T) {
	src := &closeRecorder{Reader: strings.NewReader(icon)}
	rc, err := Resolve(FromReader(src))
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.True(t, src.closed)
}

func TestResolveDoesNotRead(t *testing.T) {
	r := strings.NewReader(icon)
	_, err := Resolve(FromReader(r))
	require.NoError(t, err)
	assert.Equal(t, len(icon), r.Len())
}

func TestIOErrors(t *testing.T) {
	assets := fstest.MapFS{}
	table := ResourceTable{FS: assets, Names: map[int]string{}}

	for _, o := range []Origin{
		FromAsset(assets, "missing.svg"),
		FromResource(table, 42),
		FromFile(filepath.Join(t.TempDir(), "missing.svg")),
	} {
		_, err := Resolve(o)
		var ioErr *IOError
		require.True(t, errors.As(err, &ioErr), o.String())
		assert.Equal(t, o.String(), ioErr.Origin)
		assert.True(t, errors.Is(err, fs.ErrNotExist), o.String())
	}

	_, err := Resolve(FromReader(nil))
	var ioErr *IOError
	assert.True(t, errors.As(err, &ioErr))

	_, err = Resolve(FromAsset(nil, "a.svg"))
	assert.True(t, errors.As(err, &ioErr))
}

func TestOriginString(t *testing.T) {
	assert.Equal(t, "resource #3", FromResource(nil, 3).String())
	assert.Equal(t, "asset a/b.svg", FromAsset(nil, "a/b.svg").String())
	assert.Equal(t, "string", FromString("").String())
}
