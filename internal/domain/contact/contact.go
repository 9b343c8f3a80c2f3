package contact

import (
	"errors"
	"time"

	"github.com/geocoder89/dumbcrm/internal/domain/customer"
)

type Contact struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customerId"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Phone      *string            `json:"phone,omitempty"`
	Position   *string            `json:"position,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
	Customer   *customer.Customer `json:"customer,omitempty"`
}

var ErrNotFound = errors.New("contact not found")

type CreateContactRequest struct {
	CustomerID string  `json:"customerId" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Phone      *string `json:"phone" binding:"omitempty,max=40"`
	Position   *string `json:"position" binding:"omitempty,max=120"`
}

// the owning customer is fixed at creation, an update cannot move a
// contact between customers.
type UpdateContactRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=40"`
	Position *string `json:"position" binding:"omitempty,max=120"`
}
