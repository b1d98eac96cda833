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

// SessionUUID derives the stable identifier for a named session slot.
func SessionUUID(slot string) uuid.UUID {
	return UUID("go-admin:session:" + strings.ToLower(strings.TrimSpace(slot)))
}

// ImportUUID derives a dedupe key for a markdown import source file.
func ImportUUID(resource, path string) uuid.UUID {
	return UUID("go-admin:import:" + strings.TrimSpace(resource) + ":" + strings.TrimSpace(path))
}
