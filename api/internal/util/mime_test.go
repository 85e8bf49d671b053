package util

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
)

func TestSniffImageMIME(t *testing.T) {
	assert.Equal(t, "image/jpeg", SniffImageMIME(jpegMagic))
	assert.Equal(t, "image/png", SniffImageMIME(pngMagic))
	assert.Equal(t, "application/octet-stream", SniffImageMIME(nil))
}

func TestDecodeBase64MaybeDataURL(t *testing.T) {
	payload := []byte("hello")
	b64 := base64.StdEncoding.EncodeToString(payload)

	got, mime, err := DecodeBase64MaybeDataURL(b64)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Empty(t, mime)

	got, mime, err = DecodeBase64MaybeDataURL("data:image/png;base64," + b64)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, "image/png", mime)

	_, _, err = DecodeBase64MaybeDataURL("%%% not base64 %%%")
	assert.Error(t, err)
}

func TestPickMIME(t *testing.T) {
	assert.Equal(t, "image/webp", PickMIME("image/webp", "image/png", jpegMagic))
	assert.Equal(t, "image/png", PickMIME("", "image/png", jpegMagic))
	assert.Equal(t, "image/jpeg", PickMIME("", "", jpegMagic))
	assert.Equal(t, "image/jpeg", PickMIME("", "", nil))
}
