package handlers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/apperr"
)

// requireOwner enforces the ownership guard: the caller may only mutate
// resources whose stored owner matches their identity. Callers must confirm
// the resource exists before invoking this, so a missing resource is always
// reported as not-found rather than as an authorization failure.
func requireOwner(ownerID, callerID, resource string) error {
	if ownerID != callerID {
		return apperr.Authorization(fmt.Sprintf("you can only modify your own %s", resource))
	}
	return nil
}

// mediaKey builds a collision-free object key for an upload, preserving the
// original file extension.
func mediaKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)
}
