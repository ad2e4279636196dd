package sniff

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0, 0, 0, 0x0D}
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
)

func TestBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Type
	}{
		{name: "gif87a", data: []byte("GIF87a\x01\x00"), want: GIF},
		{name: "gif89a", data: []byte("GIF89a\x01\x00"), want: GIF},
		{name: "jpeg", data: jpegHeader, want: JPEG},
		{name: "png", data: pngHeader, want: PNG},
		{name: "truncated png", data: pngHeader[:4], want: Unknown},
		{name: "gif without version", data: []byte("GIF8"), want: Unknown},
		{name: "php script", data: []byte("<?php echo 1; ?>"), want: Unknown},
		{name: "html", data: []byte("<html><body>"), want: Unknown},
		{name: "empty", data: nil, want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bytes(tt.data))
		})
	}
}

func TestReader(t *testing.T) {
	got, err := Reader(bytes.NewReader(append(pngHeader, make([]byte, 1024)...)))
	require.NoError(t, err)
	assert.Equal(t, PNG, got)

	got, err = Reader(bytes.NewReader([]byte{0xFF, 0xD8, 0xFF}))
	require.NoError(t, err)
	assert.Equal(t, JPEG, got)

	got, err = Reader(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, Unknown, got)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestReader_Error(t *testing.T) {
	got, err := Reader(failingReader{})
	assert.Error(t, err)
	assert.Equal(t, Unknown, got)
}

func TestType_Attributes(t *testing.T) {
	assert.Equal(t, ".png", PNG.Ext())
	assert.Equal(t, ".jpg", JPEG.Ext())
	assert.Equal(t, ".gif", GIF.Ext())
	assert.Empty(t, Unknown.Ext())
	assert.Equal(t, "image/jpeg", JPEG.MIME())
	assert.Equal(t, "png", PNG.String())
}
