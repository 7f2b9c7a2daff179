package gob_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossyrian/gobparse/internal/gob"
)

func TestArchive_Add(t *testing.T) {
	archive := gob.New()

	data := []byte("foobar")
	require.NoError(t, archive.Add(`dir\foo.bar`, data))
	data[0] = 'x'

	got, ok := archive.Get("dir/foo.bar")
	require.True(t, ok)
	assert.Equal(t, []byte("foobar"), got, "archive must own its copy")

	got, ok = archive.Get(`dir\foo.bar`)
	require.True(t, ok)
	assert.Equal(t, []byte("foobar"), got)

	require.NoError(t, archive.Add("dir/foo.bar", []byte("replaced")))
	assert.Equal(t, 1, archive.Len())

	assert.ErrorIs(t, archive.Add(strings.Repeat("a", 128), nil), gob.ErrPathTooLong)
	assert.ErrorIs(t, archive.Add("", nil), gob.ErrInvalidPath)
	assert.Equal(t, 1, archive.Len())
}

func TestArchive_ZeroValue(t *testing.T) {
	var archive gob.Archive
	require.NoError(t, archive.Add("a", []byte("b")))
	assert.Equal(t, 1, archive.Len())
}

func TestArchive_Paths(t *testing.T) {
	archive := gob.New()
	for _, p := range []string{"b", "a/z", "A", "a", "a/b"} {
		require.NoError(t, archive.Add(p, []byte(p)))
	}

	assert.Equal(t, []string{"A", "a", "a/b", "a/z", "b"}, archive.Paths())
	assert.Equal(t, uint64(9), archive.Size())
}

func TestFileEntry_End(t *testing.T) {
	e := gob.FileEntry{Offset: 0xFFFFFFFF, Size: 0xFFFFFFFF}
	assert.Equal(t, uint64(0x1FFFFFFFE), e.End())
}

func TestImportError(t *testing.T) {
	err := error(&gob.ImportError{Op: "read", Path: "a/x.txt", Err: os.ErrPermission})

	assert.Equal(t, "read a/x.txt: permission denied", err.Error())
	assert.ErrorIs(t, err, os.ErrPermission)

	var importErr *gob.ImportError
	require.True(t, errors.As(err, &importErr))
	assert.Equal(t, "a/x.txt", importErr.Path)
}

func TestKindOf(t *testing.T) {
	tests := map[string]gob.AssetKind{
		"jkl/01narshadda.jkl": gob.KindLevel,
		"SECBASE.LEV":         gob.KindLevel,
		`3do\kyle.3do`:        gob.KindModel,
		"mat/dflt.mat":        gob.KindMaterial,
		"sound/hit.WAV":       gob.KindSound,
		"cog/door.cog":        gob.KindScript,
		"misc/01.pal":         gob.KindPalette,
		"ui/bm/font.bm":       gob.KindBitmap,
		"3do/key/kyle.key":    gob.KindAnimation,
		"readme":              gob.KindOther,
		"data.bin":            gob.KindOther,
	}

	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, want, gob.KindOf(path))
		})
	}

	text, err := gob.KindSound.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Sound", string(text))
}
