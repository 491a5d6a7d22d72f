package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// GenerateRandomString generates a cryptographically secure random string
// using the provided charset and length
func GenerateRandomString(length int, charset string) string {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			panic(fmt.Sprintf("failed to generate random string: %v", err))
		}
		b[i] = charset[n.Int64()]
	}
	return string(b)
}

// GenerateInviteCode generates an opaque invite code. Charset excludes
// ambiguous characters: 0, O, I, 1.
func GenerateInviteCode(length int) string {
	const charset = "abcdefghjkmnpqrstuvwxyz23456789"
	return GenerateRandomString(length, charset)
}

// NewStorageKey builds an object-storage key for an uploaded image:
// {kind}/{id}/{uuid}. The extension is left to the storage provider.
func NewStorageKey(kind string, id int64) string {
	return fmt.Sprintf("%s/%d/%s", kind, id, uuid.New().String())
}
