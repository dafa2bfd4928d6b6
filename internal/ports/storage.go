package ports

import (
	"context"
	"io"

	"github.com/claimdesk/claimdesk/internal/upload"
)

// ReceiptStore persists validated receipt files. Implementations must keep
// files outside any statically served directory; the relative path returned
// by Save is what gets stored on the claim.
type ReceiptStore interface {
	// Save writes the file under the owner's directory with a random name and
	// returns the relative path "ownerID/name.ext".
	Save(ctx context.Context, ownerID string, file *upload.ValidatedFile) (string, error)
	Open(ctx context.Context, relPath string) (io.ReadCloser, error)
	// Remove deletes a stored receipt. Removing a missing file is not an error.
	Remove(ctx context.Context, relPath string) error
}
