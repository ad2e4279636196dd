// Package sniff identifies allowed raster image formats from their leading bytes.
// Client-supplied file names and content types are never consulted.
package sniff

import (
	"bytes"
	"errors"
	"io"
)

// Type is a sniffed media type.
type Type uint8

const (
	Unknown Type = iota
	GIF
	JPEG
	PNG
)

// HeaderLen is the number of leading bytes needed to recognise every Type.
const HeaderLen = 8

type signature struct {
	typ   Type
	magic []byte
}

var signatures = []signature{
	{typ: GIF, magic: []byte("GIF87a")},
	{typ: GIF, magic: []byte("GIF89a")},
	{typ: JPEG, magic: []byte{0xFF, 0xD8, 0xFF}},
	{typ: PNG, magic: []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}},
}

// Bytes sniffs the type from the start of a file.
func Bytes(head []byte) Type {
	for _, sig := range signatures {
		if bytes.HasPrefix(head, sig.magic) {
			return sig.typ
		}
	}
	return Unknown
}

// Reader reads up to HeaderLen bytes from r and sniffs them. A stream shorter
// than HeaderLen is sniffed as-is.
func Reader(r io.Reader) (Type, error) {
	head := make([]byte, HeaderLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Unknown, err
	}
	return Bytes(head[:n]), nil
}

// Ext returns the file extension for t, including the dot.
func (t Type) Ext() string {
	switch t {
	case GIF:
		return ".gif"
	case JPEG:
		return ".jpg"
	case PNG:
		return ".png"
	default:
		return ""
	}
}

// MIME returns the media type for t.
func (t Type) MIME() string {
	switch t {
	case GIF:
		return "image/gif"
	case JPEG:
		return "image/jpeg"
	case PNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

func (t Type) String() string {
	switch t {
	case GIF:
		return "gif"
	case JPEG:
		return "jpeg"
	case PNG:
		return "png"
	default:
		return "unknown"
	}
}
