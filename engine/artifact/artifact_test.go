package artifact

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"testing"

	"github.com/rockbears/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovh/layersync/sdk"
)

type zipEntry struct {
	name    string
	content string
}

func buildZip(t *testing.T, entries ...zipEntry) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for _, e := range entries {
		f, err := w.Create(e.name)
		require.NoError(t, err)
		if e.content != "" {
			_, err = f.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func spool(t *testing.T, fs afero.Fs, btes []byte) *Spooled {
	s, err := Spool(context.TODO(), fs, "/tmp/layersync", bytes.NewReader(btes))
	require.NoError(t, err)
	return s
}

func TestSpool(t *testing.T) {
	log.Factory = log.NewTestingWrapper(t)
	fs := afero.NewMemMapFs()
	btes := []byte("this is not a zip file")

	s := spool(t, fs, btes)
	sum := sha256.Sum256(btes)
	assert.Equal(t, hex.EncodeToString(sum[:]), s.SHA256)
	assert.Equal(t, int64(len(btes)), s.Size)

	content, err := io.ReadAll(s.File)
	require.NoError(t, err)
	assert.Equal(t, btes, content)

	name := s.File.Name()
	require.NoError(t, s.Close())
	exists, err := afero.Exists(fs, name)
	require.NoError(t, err)
	assert.False(t, exists, "temporary file should be removed")
}

func TestOpenSingleEntry(t *testing.T) {
	log.Factory = log.NewTestingWrapper(t)
	fs := afero.NewMemMapFs()
	s := spool(t, fs, buildZip(t, zipEntry{name: "dist/"}, zipEntry{name: "dist/layer.zip", content: "layer content"}))
	defer s.Close() // nolint

	e, err := OpenSingleEntry(context.TODO(), s)
	require.NoError(t, err)
	assert.Equal(t, "dist/layer.zip", e.Name)
	assert.Equal(t, int64(len("layer content")), e.Size)

	content, err := io.ReadAll(e)
	require.NoError(t, err)
	assert.Equal(t, "layer content", string(content))
	require.NoError(t, e.Close())
}

func TestOpenSingleEntryErrors(t *testing.T) {
	log.Factory = log.NewTestingWrapper(t)
	tests := []struct {
		name    string
		archive []byte
		want    sdk.Error
	}{
		{
			name:    "empty archive",
			archive: buildZip(t),
			want:    sdk.ErrArchiveEmpty,
		},
		{
			name:    "only directories",
			archive: buildZip(t, zipEntry{name: "dist/"}),
			want:    sdk.ErrArchiveEmpty,
		},
		{
			name:    "many files",
			archive: buildZip(t, zipEntry{name: "a.zip", content: "a"}, zipEntry{name: "b.zip", content: "b"}),
			want:    sdk.ErrArchiveMultipleEntries,
		},
		{
			name:    "not a zip",
			archive: []byte("definitely not a zip archive"),
			want:    sdk.ErrInvalidArchive,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			s := spool(t, fs, tt.archive)
			defer s.Close() // nolint

			_, err := OpenSingleEntry(context.TODO(), s)
			require.Error(t, err)
			assert.True(t, sdk.ErrorIs(err, tt.want), "got %v", err)
		})
	}
}
