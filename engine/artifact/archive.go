package artifact

import (
	"context"
	"io"

	"github.com/klauspost/compress/zip"
	"github.com/mholt/archiver/v3"
	"github.com/rockbears/log"

	"github.com/ovh/layersync/sdk"
)

// Entry is the single file of an artifact archive, opened for reading.
type Entry struct {
	Name string
	Size int64
	rc   io.ReadCloser
	z    *archiver.Zip
}

// Read streams the uncompressed content of the entry.
func (e *Entry) Read(p []byte) (int, error) {
	return e.rc.Read(p)
}

// Close closes the entry and the archive.
func (e *Entry) Close() error {
	err := e.rc.Close()
	if errZ := e.z.Close(); err == nil {
		err = errZ
	}
	return sdk.WithStack(err)
}

// OpenSingleEntry opens the spooled zip archive and returns its only file. Directory entries are
// ignored. An archive without any file, or with more than one, is rejected.
func OpenSingleEntry(ctx context.Context, s *Spooled) (*Entry, error) {
	if _, err := s.File.Seek(0, io.SeekStart); err != nil {
		return nil, sdk.WithStack(err)
	}

	z := archiver.NewZip()
	if err := z.Open(s.File, s.Size); err != nil {
		return nil, sdk.NewError(sdk.ErrInvalidArchive, err)
	}

	var entry *Entry
	var names []string
	for {
		f, err := z.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			closeEntry(entry)
			_ = z.Close()
			return nil, sdk.NewError(sdk.ErrInvalidArchive, err)
		}
		if f.IsDir() || !f.Mode().IsRegular() {
			_ = f.Close()
			continue
		}
		names = append(names, archivedName(f))
		if entry != nil {
			_ = f.Close()
			continue
		}
		entry = &Entry{Name: archivedName(f), Size: f.Size(), rc: f.ReadCloser, z: z}
	}

	switch len(names) {
	case 0:
		_ = z.Close()
		return nil, sdk.NewErrorFrom(sdk.ErrArchiveEmpty, "%d bytes archive", s.Size)
	case 1:
		log.Info(ctx, "artifact.OpenSingleEntry> archive entry %s (%d bytes)", entry.Name, entry.Size)
		return entry, nil
	default:
		closeEntry(entry)
		_ = z.Close()
		return nil, sdk.NewErrorFrom(sdk.ErrArchiveMultipleEntries, "%v", names)
	}
}

func closeEntry(e *Entry) {
	if e != nil && e.rc != nil {
		_ = e.rc.Close()
	}
}

// archivedName returns the full path of the file in the archive.
func archivedName(f archiver.File) string {
	if h, ok := f.Header.(zip.FileHeader); ok {
		return h.Name
	}
	return f.Name()
}
