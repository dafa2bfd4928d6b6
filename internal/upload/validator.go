// Package upload validates receipt files before they are accepted for
// storage. Validation is defensive: the declared file name and content type
// are cross-checked against the file's magic bytes so a renamed executable
// cannot pass as a PDF.
package upload

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/claimdesk/claimdesk/pkg/apperror"
)

// MaxReceiptBytes caps receipt uploads at 5 MiB.
const MaxReceiptBytes = 5 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var contentTypeByExt = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

var (
	pdfSignature  = []byte("%PDF")
	jpegSignature = []byte{0xFF, 0xD8}
	pngSignature  = []byte{0x89, 0x50, 0x4E, 0x47}
)

// ValidatedFile is a receipt that passed all intake checks. Ext is the
// normalized (lowercased) extension; ContentType is derived from it, not from
// the client's declaration.
type ValidatedFile struct {
	Bytes       []byte
	Ext         string
	ContentType string
}

// Validate applies the intake rules in order, first failure wins:
// size, extension, declared content type, magic-byte signature.
func Validate(data []byte, fileName, declaredContentType string) (*ValidatedFile, error) {
	if len(data) == 0 {
		return nil, apperror.NewValidation("receipt", "uploaded file is empty")
	}
	if len(data) > MaxReceiptBytes {
		return nil, apperror.NewValidation("receipt", "file too large, the maximum is 5 MB")
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedExtensions[ext] {
		return nil, apperror.NewValidation("receipt", "invalid file type, allowed: .pdf, .jpg, .jpeg, .png")
	}

	if declaredContentType != "application/pdf" && !strings.HasPrefix(declaredContentType, "image/") {
		return nil, apperror.NewValidation("receipt", "invalid content type")
	}

	switch ext {
	case ".pdf":
		if len(data) < len(pdfSignature) || !bytes.HasPrefix(data, pdfSignature) {
			return nil, apperror.NewValidation("receipt", "file is not a valid PDF")
		}
	case ".jpg", ".jpeg":
		if len(data) < len(jpegSignature) || !bytes.HasPrefix(data, jpegSignature) {
			return nil, apperror.NewValidation("receipt", "file is not a valid JPEG")
		}
	case ".png":
		if len(data) < len(pngSignature) || !bytes.HasPrefix(data, pngSignature) {
			return nil, apperror.NewValidation("receipt", "file is not a valid PNG")
		}
	}

	return &ValidatedFile{
		Bytes:       data,
		Ext:         ext,
		ContentType: contentTypeByExt[ext],
	}, nil
}

// ExtForPath returns the lowercased extension of a stored receipt path.
func ExtForPath(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// ContentTypeForPath maps a stored receipt path to the content type used when
// serving it back.
func ContentTypeForPath(path string) string {
	if ct, ok := contentTypeByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return "application/octet-stream"
}
