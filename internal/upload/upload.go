// Package upload validates image files before they are sent to storage.
package upload

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/gabriel-vasile/mimetype"
)

var (
	allowedExt  = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}
	allowedMIME = map[string]bool{"image/png": true, "image/jpeg": true, "image/jpg": true}
)

// File is an image ready for upload; ContentType is the detected type.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Validator struct {
	maxBytes int64
}

func NewValidator(maxBytes int64) *Validator {
	return &Validator{maxBytes: maxBytes}
}

// Read loads r and checks the extension of name, the size and the sniffed
// content type. The declared content type of the request is not trusted.
func (v *Validator) Read(name string, r io.Reader) (*File, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExt[ext] {
		return nil, apperror.BadRequest("%s: only .png, .jpg and .jpeg files are allowed", name)
	}

	data, err := io.ReadAll(io.LimitReader(r, v.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > v.maxBytes {
		return nil, apperror.BadRequest("%s: file exceeds %d bytes", name, v.maxBytes)
	}
	if len(data) == 0 {
		return nil, apperror.BadRequest("%s: file is empty", name)
	}

	mt, err := mimetype.DetectReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if !allowedMIME[mt.String()] {
		return nil, apperror.BadRequest("%s: unsupported content type %s", name, mt.String())
	}
	return &File{Name: name, ContentType: mt.String(), Data: data}, nil
}
