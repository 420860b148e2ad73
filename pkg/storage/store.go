// Package storage persists rendered result images.
//
// A [Store] maps flat artifact names (see [ArtifactName]) to bytes.
// [FileStore] keeps them in a directory, [MongoStore] in a GridFS bucket
// so that several server replicas can share results.
package storage

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/mydungeon/pkg/errors"
)

// Store saves and serves artifacts by name.
type Store interface {
	// Save stores data under name and returns where it was written.
	Save(ctx context.Context, name string, data []byte) (string, error)

	// Open returns the artifact. Missing names yield a NOT_FOUND error.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	Close(ctx context.Context) error
}

// Artifact name prefixes.
const (
	PrefixSingle = "result"
	PrefixCompat = "compatibility"
)

// ArtifactName returns "{prefix}_{YYYYMMDD_HHMMSS}_{8 hex}.png". The random
// suffix keeps names unique when requests finish within the same second.
func ArtifactName(prefix string, now time.Time) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s_%x.png", prefix, now.Format("20060102_150405"), id[:4])
}

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateName rejects names that could escape the store, such as paths
// or dot segments.
func ValidateName(name string) error {
	if len(name) > 255 || !validName.MatchString(name) || name == "." || name == ".." {
		return errors.New(errors.ErrCodeInvalidInput, "invalid artifact name %q", name)
	}
	return nil
}
