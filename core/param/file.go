package param

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// FilePart is an uploaded file, still in the request spool.
type FilePart struct {
	Name        string
	FileName    string
	ContentType string
	Size        int64

	content *io.SectionReader
}

// Open returns a reader over the file content. Each call starts from the beginning.
func (f *FilePart) Open() io.Reader {
	return io.NewSectionReader(f.content, 0, f.Size)
}

// SaveTo copies the file content to a new file at path.
func (f *FilePart) SaveTo(path string) error {
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if _, err = io.Copy(dst, f.Open()); err != nil {
		_ = dst.Close()
		return errors.Wrapf(err, "saving upload %q", f.FileName)
	}
	return dst.Close()
}

// File returns the first file uploaded as name. The part is only valid until
// the context is closed.
func (rc *RequestContext) File(name string) (*FilePart, error) {
	if rc.closed {
		return nil, ErrClosed
	}
	for i, rec := range rc.records {
		if !rec.isFile || rc.names[i] != name {
			continue
		}
		fn, err := rc.read(rec.fileName)
		if err != nil {
			return nil, err
		}
		ct, err := rc.read(rec.contentType)
		if err != nil {
			return nil, err
		}
		return &FilePart{
			Name:        name,
			FileName:    string(fn),
			ContentType: string(ct),
			Size:        rec.value.size(),
			content:     io.NewSectionReader(rc.store, rec.value.from, rec.value.size()),
		}, nil
	}
	return nil, errors.Wrap(ErrNoFile, name)
}
