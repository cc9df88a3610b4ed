package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PostUUID derives the canonical identity for a post slug. Re-importing the
// same essay always maps to the same record.
func PostUUID(slug string) uuid.UUID {
	return UUID("go-essays:post:" + strings.ToLower(strings.TrimSpace(slug)))
}

// CategoryUUID derives the identity for a category slug.
func CategoryUUID(slug string) uuid.UUID {
	return UUID("go-essays:category:" + strings.ToLower(strings.TrimSpace(slug)))
}
