package gob

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// NormalizePath converts any backslash separators to forward slashes.
// Archives written by the original engines use backslashes.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// ValidatePath reports whether path can be written to a path field. Paths
// must already be normalized: a backslash is rejected, since parsing would
// turn it into a separator and merge it with the slash form.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if !utf8.ValidString(path) {
		return fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidPath, path)
	}
	if strings.IndexByte(path, 0) >= 0 {
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidPath, path)
	}
	if strings.IndexByte(path, '\\') >= 0 {
		return fmt.Errorf("%w: %q contains a backslash, use '/'", ErrInvalidPath, path)
	}
	if len(path) > MaxPathLen {
		return fmt.Errorf("%w: %q is %d bytes, max is %d", ErrPathTooLong, path, len(path), MaxPathLen)
	}
	return nil
}

// DecodePath decodes a path field. Only the bytes before the first NUL are
// used; anything after it is garbage left by the original encoder and is
// ignored. A field with no NUL uses all PathFieldSize bytes.
func DecodePath(field [PathFieldSize]byte) (string, error) {
	visible := field[:]
	if i := bytes.IndexByte(visible, 0); i >= 0 {
		visible = visible[:i]
	}

	if !utf8.Valid(visible) {
		return "", fmt.Errorf("%w: % x is not valid UTF-8", ErrInvalidPath, visible)
	}
	return NormalizePath(string(visible)), nil
}

// EncodePath validates path and returns it as a zero-padded path field.
// If sep is not '/', forward slashes are replaced with it.
func EncodePath(path string, sep byte) ([PathFieldSize]byte, error) {
	var field [PathFieldSize]byte
	if err := ValidatePath(path); err != nil {
		return field, err
	}

	if sep != '/' {
		path = strings.ReplaceAll(path, "/", string(sep))
	}
	copy(field[:], path)
	return field, nil
}
