// Unifies the places an SVG document may come from
// (a raw stream, in memory text, a resource table or an asset container)
// into a single byte stream.
package svgsource

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

type originKind uint8

const (
	fromReader originKind = iota
	fromString
	fromBytes
	fromResource
	fromAsset
	fromFile
)

// Resources is a host resource table, addressing raw
// resources by integer id.
type Resources interface {
	OpenRawResource(id int) (io.ReadCloser, error)
}

// Origin describes where an SVG byte stream comes from.
// Build one with the FromXXX functions and open it with Resolve.
type Origin struct {
	kind originKind

	reader    io.Reader
	text      string
	data      []byte
	resources Resources
	id        int
	assets    fs.FS
	path      string
}

// FromReader uses an already opened stream. If `r` implements io.Closer,
// it will be closed by the consumer of the resolved stream.
func FromReader(r io.Reader) Origin { return Origin{kind: fromReader, reader: r} }

// FromString uses the bytes of `s`. No parsing is done here.
func FromString(s string) Origin { return Origin{kind: fromString, text: s} }

// FromBytes uses `b`, which must not be modified until the stream is consumed.
func FromBytes(b []byte) Origin { return Origin{kind: fromBytes, data: b} }

// FromResource opens the raw resource `id` of the table `res`.
func FromResource(res Resources, id int) Origin {
	return Origin{kind: fromResource, resources: res, id: id}
}

// FromAsset opens `path` inside the asset container `assets`.
func FromAsset(assets fs.FS, path string) Origin {
	return Origin{kind: fromAsset, assets: assets, path: path}
}

// FromFile opens the named file on disk.
func FromFile(name string) Origin { return Origin{kind: fromFile, path: name} }

// String returns a short description, used in logs and errors.
func (o Origin) String() string {
	switch o.kind {
	case fromReader:
		return "stream"
	case fromString:
		return "string"
	case fromBytes:
		return "bytes"
	case fromResource:
		return fmt.Sprintf("resource #%d", o.id)
	case fromAsset:
		return "asset " + o.path
	case fromFile:
		return "file " + o.path
	default:
		return "<unknown origin>"
	}
}

// Resolve opens the stream described by `o`. The stream is not read.
// Failures are reported as *IOError.
func Resolve(o Origin) (io.ReadCloser, error) {
	switch o.kind {
	case fromReader:
		if o.reader == nil {
			return nil, &IOError{Origin: o.String(), Err: errNilReader}
		}
		if rc, ok := o.reader.(io.ReadCloser); ok {
			return rc, nil
		}
		return io.NopCloser(o.reader), nil
	case fromString:
		return io.NopCloser(strings.NewReader(o.text)), nil
	case fromBytes:
		return io.NopCloser(bytes.NewReader(o.data)), nil
	case fromResource:
		if o.resources == nil {
			return nil, &IOError{Origin: o.String(), Err: errNoContainer}
		}
		rc, err := o.resources.OpenRawResource(o.id)
		if err != nil {
			return nil, &IOError{Origin: o.String(), Err: err}
		}
		return rc, nil
	case fromAsset:
		if o.assets == nil {
			return nil, &IOError{Origin: o.String(), Err: errNoContainer}
		}
		f, err := o.assets.Open(o.path)
		if err != nil {
			return nil, &IOError{Origin: o.String(), Err: err}
		}
		return f, nil
	case fromFile:
		f, err := os.Open(o.path)
		if err != nil {
			return nil, &IOError{Origin: o.String(), Err: err}
		}
		return f, nil
	default:
		return nil, &IOError{Origin: o.String(), Err: fmt.Errorf("invalid origin kind %d", o.kind)}
	}
}

// ResourceTable implements Resources on top of a file system,
// mapping ids to file names.
type ResourceTable struct {
	FS    fs.FS
	Names map[int]string
}

// OpenRawResource implements Resources.
func (rt ResourceTable) OpenRawResource(id int) (io.ReadCloser, error) {
	name, ok := rt.Names[id]
	if !ok || rt.FS == nil {
		return nil, fmt.Errorf("resource id %d: %w", id, fs.ErrNotExist)
	}
	return rt.FS.Open(name)
}
