package gob_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossyrian/gobparse/internal/gob"
)

func field(s string) [gob.PathFieldSize]byte {
	var f [gob.PathFieldSize]byte
	copy(f[:], s)
	return f
}

func TestDecodePath(t *testing.T) {
	garbage := field("a.txt")
	for i := 6; i < gob.PathFieldSize; i++ {
		garbage[i] = 0xFF
	}

	var full [gob.PathFieldSize]byte
	for i := range full {
		full[i] = 'x'
	}

	invalidAfterNul := field("ok.cog\x00")
	invalidAfterNul[10] = 0xC3

	tests := []struct {
		name    string
		input   [gob.PathFieldSize]byte
		want    string
		wantErr error
	}{
		{name: "plain", input: field("foo.bar"), want: "foo.bar"},
		{name: "garbage after terminator", input: garbage, want: "a.txt"},
		{name: "invalid UTF-8 after terminator", input: invalidAfterNul, want: "ok.cog"},
		{name: "backslash separators", input: field(`mat\dflt.mat`), want: "mat/dflt.mat"},
		{name: "no terminator", input: full, want: strings.Repeat("x", gob.PathFieldSize)},
		{name: "empty", input: field(""), want: ""},
		{name: "multibyte", input: field("résumé.txt"), want: "résumé.txt"},
		{name: "invalid UTF-8", input: field("a\xffb"), wantErr: gob.ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gob.DecodePath(tt.input)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodePath(t *testing.T) {
	got, err := gob.EncodePath("3do/mat/dflt.mat", '/')
	require.NoError(t, err)
	assert.Equal(t, field("3do/mat/dflt.mat"), got)

	got, err = gob.EncodePath("3do/mat/dflt.mat", '\\')
	require.NoError(t, err)
	assert.Equal(t, field(`3do\mat\dflt.mat`), got)

	got, err = gob.EncodePath(strings.Repeat("p", gob.MaxPathLen), '/')
	require.NoError(t, err)
	assert.Zero(t, got[gob.MaxPathLen], "terminator must be kept")

	_, err = gob.EncodePath(strings.Repeat("p", gob.PathFieldSize), '/')
	assert.ErrorIs(t, err, gob.ErrPathTooLong)
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "simple", path: "a.txt"},
		{name: "nested", path: "sound/hit.wav"},
		{name: "127 bytes", path: strings.Repeat("a", 127)},
		{name: "128 bytes", path: strings.Repeat("a", 128), wantErr: gob.ErrPathTooLong},
		{name: "multibyte over limit", path: strings.Repeat("ü", 64), wantErr: gob.ErrPathTooLong},
		{name: "empty", path: "", wantErr: gob.ErrInvalidPath},
		{name: "NUL", path: "a\x00", wantErr: gob.ErrInvalidPath},
		{name: "invalid UTF-8", path: "\xc3\x28", wantErr: gob.ErrInvalidPath},
		{name: "backslash", path: `mat\dflt.mat`, wantErr: gob.ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gob.ValidatePath(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
