package utils

import "github.com/google/uuid"

// GenerateID returns a random UUIDv4 string used as an entity identifier
func GenerateID() string {
	return uuid.NewString()
}
