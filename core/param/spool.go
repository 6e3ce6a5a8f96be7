package param

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// store is the request-owned byte store the records point into.
type store interface {
	io.ReaderAt
	Size() int64
}

// spool is a temporary file holding a multipart body.
type spool struct {
	*os.File
	size int64
}

var _ store = (*spool)(nil)

// newSpool copies exactly n bytes of r into a fresh file under dir.
func newSpool(dir string, r io.Reader, n int64) (*spool, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "swad-"+uuid.New().String())
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, errors.Wrap(err, "creating spool file")
	}
	sp := &spool{File: f}

	copied, err := io.CopyN(f, r, n)
	sp.size = copied
	if err != nil {
		_ = sp.remove()
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, newError(KindShortRead, "body ended after %d of %d bytes", copied, n)
		}
		return nil, errors.Wrap(err, "spooling request body")
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		_ = sp.remove()
		return nil, errors.Wrap(err, "rewinding spool file")
	}
	return sp, nil
}

func (sp *spool) Size() int64 { return sp.size }

func (sp *spool) remove() error {
	name := sp.Name()
	cErr := sp.Close()
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing spool file")
	}
	return cErr
}
