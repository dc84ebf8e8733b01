package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/nelttjen/chat-platform-api/internal/constants"
)

// GenerateLinkToken derives a short, URL-safe invite link token from the
// creator, the chat and the creation instant. The one-way digest keeps the
// token unguessable; truncation keeps it shareable.
func GenerateLinkToken(creatorID, chatID uint64, createdAt time.Time) string {
	seed := fmt.Sprintf("%d:%d:%d", creatorID, chatID, createdAt.UnixNano())
	digest := sha256.Sum256([]byte(seed))
	encoded := base64.RawURLEncoding.EncodeToString(digest[:])
	return encoded[:constants.LinkTokenLength]
}
