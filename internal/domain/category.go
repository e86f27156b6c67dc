package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is a named spending label owned by a user. Budget and transaction
// category fields are free text; categories act as the user's vocabulary.
type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryRepository defines the interface for category persistence operations
type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(userID uuid.UUID, id uuid.UUID) (*Category, error)
	GetByName(userID uuid.UUID, name string) (*Category, error)
	GetAllByUser(userID uuid.UUID) ([]*Category, error)
}
