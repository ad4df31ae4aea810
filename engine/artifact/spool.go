package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	"github.com/rockbears/log"
	"github.com/spf13/afero"

	"github.com/ovh/layersync/sdk"
	cdslog "github.com/ovh/layersync/sdk/log"
)

// Spooled is a downloaded archive kept in a temporary file.
type Spooled struct {
	fs     afero.Fs
	File   afero.File
	Size   int64
	SHA256 string
}

// Spool copies r to a temporary file created in dir. The checksum and the size of the content are
// computed while copying.
func Spool(ctx context.Context, fs afero.Fs, dir string, r io.Reader) (*Spooled, error) {
	if dir != "" {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return nil, sdk.WrapError(err, "unable to create directory %s", dir)
		}
	}
	f, err := afero.TempFile(fs, dir, "layersync-*.zip")
	if err != nil {
		return nil, sdk.WrapError(err, "unable to create temporary file")
	}

	t0 := time.Now()
	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(f, h), r)
	if err != nil {
		_ = f.Close()
		_ = fs.Remove(f.Name())
		return nil, sdk.WrapError(err, "unable to download artifact")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		_ = fs.Remove(f.Name())
		return nil, sdk.WithStack(err)
	}

	s := &Spooled{
		fs:     fs,
		File:   f,
		Size:   n,
		SHA256: hex.EncodeToString(h.Sum(nil)),
	}
	ctx = context.WithValue(ctx, cdslog.Size, n)
	ctx = context.WithValue(ctx, cdslog.Duration, time.Since(t0).Milliseconds())
	log.Info(ctx, "artifact.Spool> archive downloaded to %s (%d bytes, sha256:%s)", f.Name(), n, s.SHA256)
	return s, nil
}

// Close closes and removes the temporary file.
func (s *Spooled) Close() error {
	if s == nil || s.File == nil {
		return nil
	}
	name := s.File.Name()
	if err := s.File.Close(); err != nil {
		return sdk.WithStack(err)
	}
	return sdk.WithStack(s.fs.Remove(name))
}
