package textsource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "تم طرح المناقصة الأولى.\nThe tender was published.\n"

func TestEncodingOf(t *testing.T) {
	assert.Equal(t, Gzip, EncodingOf("corpus.txt.gz"))
	assert.Equal(t, Zstd, EncodingOf("corpus.ZST"))
	assert.Equal(t, Zstd, EncodingOf("corpus.zstd"))
	assert.Equal(t, Plain, EncodingOf("corpus.txt"))
}

func TestWriteAndReadText(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"plain.txt", "packed.txt.gz", "packed.txt.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteText(path, sample))

			text, err := ReadText(path)
			require.NoError(t, err)
			assert.Equal(t, sample, text)
		})
	}
}

func TestCompressedFilesAreNotPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packed.txt.zst")
	require.NoError(t, WriteText(path, sample))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, sample, string(raw))
}

func TestReadTextStripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.txt")
	require.NoError(t, os.WriteFile(path, append([]byte("\xef\xbb\xbf"), sample...), 0o644))

	text, err := ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, sample, text)
}

func TestReadTextErrors(t *testing.T) {
	dir := t.TempDir()

	binary := filepath.Join(dir, "binary.txt")
	require.NoError(t, os.WriteFile(binary, []byte{0xff, 0xfe, 0x00}, 0o644))

	_, err := ReadText(binary)
	assert.ErrorIs(t, err, ErrNotUTF8)

	fake := filepath.Join(dir, "fake.gz")
	require.NoError(t, os.WriteFile(fake, []byte("not gzip"), 0o644))

	_, err = ReadText(fake)
	assert.Error(t, err)

	_, err = ReadText(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
