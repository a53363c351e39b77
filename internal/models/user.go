package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row. The password hash never leaves the handlers layer.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
