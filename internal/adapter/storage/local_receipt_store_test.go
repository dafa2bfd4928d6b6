package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimdesk/claimdesk/internal/upload"
)

func testStore(t *testing.T) *LocalReceiptStore {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewLocalReceiptStore(t.TempDir(), log)
}

func validPDF() *upload.ValidatedFile {
	return &upload.ValidatedFile{
		Bytes:       []byte("%PDF-1.7 test"),
		Ext:         ".pdf",
		ContentType: "application/pdf",
	}
}

func TestSaveAndOpen(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	relPath, err := s.Save(ctx, "emp-1", validPDF())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(relPath, "emp-1/"))
	assert.True(t, strings.HasSuffix(relPath, ".pdf"))

	rc, err := s.Open(ctx, relPath)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 test"), data)
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p1, err := s.Save(ctx, "emp-1", validPDF())
	require.NoError(t, err)
	p2, err := s.Save(ctx, "emp-1", validPDF())
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	relPath, err := s.Save(ctx, "emp-1", validPDF())
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, relPath))
	require.NoError(t, s.Remove(ctx, relPath), "removing a missing file is not an error")

	_, err = s.Open(ctx, relPath)
	assert.Error(t, err)
}

func TestPathTraversalRejected(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Open(ctx, "../outside.pdf")
	assert.Error(t, err)

	_, err = s.Open(ctx, "/etc/passwd")
	assert.Error(t, err)

	err = s.Remove(ctx, "emp-1/../../outside.pdf")
	assert.Error(t, err)
}
