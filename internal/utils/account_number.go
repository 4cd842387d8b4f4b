package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateAccountNumber generates a human-facing account number made of the
// first three groups of a random UUID, e.g. "3f2b8c1e-9a4d-4e21".
func GenerateAccountNumber() string {
	parts := strings.Split(uuid.NewString(), "-")
	return strings.Join(parts[:3], "-")
}
