package upload

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestValidator_Read(t *testing.T) {
	v := NewValidator(64)

	f, err := v.Read("house.PNG", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)
	assert.Equal(t, pngHeader, f.Data)

	testCases := []struct {
		name string
		file string
		body []byte
	}{
		{name: "bad extension", file: "house.gif", body: pngHeader},
		{name: "not an image", file: "house.png", body: []byte("plain text pretending")},
		{name: "empty", file: "house.jpg", body: nil},
		{name: "too large", file: "house.png", body: append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Read(tc.file, bytes.NewReader(tc.body))
			assert.ErrorIs(t, err, apperror.ErrBadRequest)
			assert.True(t, strings.HasPrefix(err.Error(), tc.file))
		})
	}
}
