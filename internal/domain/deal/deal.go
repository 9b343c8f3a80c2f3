package deal

import (
	"errors"
	"time"

	"github.com/geocoder89/dumbcrm/internal/domain/customer"
)

const (
	StatusOpen = "open"
	StatusWon  = "won"
	StatusLost = "lost"
)

type Deal struct {
	ID          string             `json:"id"`
	CustomerID  string             `json:"customerId"`
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	Value       float64            `json:"value"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	Customer    *customer.Customer `json:"customer,omitempty"`
}

var ErrNotFound = errors.New("deal not found")

func IsValidStatus(s string) bool {
	return s == StatusOpen || s == StatusWon || s == StatusLost
}

type CreateDealRequest struct {
	CustomerID  string   `json:"customerId" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	Value       *float64 `json:"value" binding:"required,gte=0"`
	Status      string   `json:"status" binding:"omitempty,oneof=open won lost"`
}

type UpdateDealRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	Value       *float64 `json:"value" binding:"required,gte=0"`
	Status      string   `json:"status" binding:"omitempty,oneof=open won lost"`
}

type Stats struct {
	TotalDeals int     `json:"totalDeals"`
	OpenDeals  int     `json:"openDeals"`
	WonDeals   int     `json:"wonDeals"`
	LostDeals  int     `json:"lostDeals"`
	TotalValue float64 `json:"totalValue"`
	WonValue   float64 `json:"wonValue"`
}
