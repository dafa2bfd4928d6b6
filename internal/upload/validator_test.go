package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimdesk/claimdesk/pkg/apperror"
)

func pdfBytes() []byte {
	return append([]byte("%PDF-1.7"), make([]byte, 64)...)
}

func pngBytes() []byte {
	return append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)
}

func TestValidateAcceptsGenuinePDF(t *testing.T) {
	f, err := Validate(pdfBytes(), "receipt.PDF", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, ".pdf", f.Ext)
	assert.Equal(t, "application/pdf", f.ContentType)
}

func TestValidateAcceptsGenuinePNG(t *testing.T) {
	f, err := Validate(pngBytes(), "receipt.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, ".png", f.Ext)
	assert.Equal(t, "image/png", f.ContentType)
}

func TestValidateRejectsSpoofedPDF(t *testing.T) {
	// An executable renamed to .pdf with a matching content type must still fail
	// on the magic-byte check.
	data := append([]byte{0x4D, 0x5A, 0x90, 0x00}, make([]byte, 64)...)
	_, err := Validate(data, "receipt.pdf", "application/pdf")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Contains(t, err.Error(), "PDF")
}

func TestValidateRejectsSpoofedJPEG(t *testing.T) {
	_, err := Validate([]byte{0x00, 0x01, 0x02, 0x03}, "photo.jpg", "image/jpeg")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestValidateRejectsEmptyFile(t *testing.T) {
	_, err := Validate(nil, "receipt.pdf", "application/pdf")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestValidateRejectsOversizedFile(t *testing.T) {
	data := make([]byte, MaxReceiptBytes+1)
	copy(data, "%PDF")
	_, err := Validate(data, "receipt.pdf", "application/pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestValidateAcceptsExactlyMaxSize(t *testing.T) {
	data := make([]byte, MaxReceiptBytes)
	copy(data, "%PDF")
	_, err := Validate(data, "receipt.pdf", "application/pdf")
	assert.NoError(t, err)
}

func TestValidateRejectsMissingExtension(t *testing.T) {
	_, err := Validate(pdfBytes(), "receipt", "application/pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file type")
}

func TestValidateRejectsDisallowedExtension(t *testing.T) {
	_, err := Validate(pdfBytes(), "receipt.exe", "application/pdf")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestValidateRejectsBadContentType(t *testing.T) {
	_, err := Validate(pdfBytes(), "receipt.pdf", "application/octet-stream")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content type")
}

func TestContentTypeForPath(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeForPath("emp-1/abc.pdf"))
	assert.Equal(t, "image/jpeg", ContentTypeForPath("emp-1/abc.JPG"))
	assert.Equal(t, "image/png", ContentTypeForPath("emp-1/abc.png"))
	assert.Equal(t, "application/octet-stream", ContentTypeForPath("emp-1/abc.bin"))
}
