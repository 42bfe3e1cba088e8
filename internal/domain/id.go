package domain

import "github.com/google/uuid"

// NewID генерирует UUIDv7 для новых сущностей
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
