package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/dumbcrm/internal/config"
	"github.com/geocoder89/dumbcrm/internal/domain/customer"
	"github.com/geocoder89/dumbcrm/internal/repo/postgres"
	"github.com/gin-gonic/gin"
)

type CustomersStore interface {
	List(ctx context.Context) ([]customer.Customer, error)
	GetByID(ctx context.Context, id string) (customer.Customer, error)
	Create(ctx context.Context, req customer.CreateCustomerRequest) (customer.Customer, error)
	Update(ctx context.Context, id string, req customer.UpdateCustomerRequest) (customer.Customer, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]customer.Customer, error)
}

type CustomersHandler struct {
	repo CustomersStore
}

func NewCustomersHandler(repo CustomersStore) *CustomersHandler {
	return &CustomersHandler{repo: repo}
}

func (h *CustomersHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	customers, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Failed to fetch customers")
		return
	}

	RespondOK(ctx, customers)
}

func (h *CustomersHandler) Get(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	c, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			RespondNotFound(ctx, "Customer not found")
			return
		}

		RespondInternal(ctx, "Failed to fetch customer")
		return
	}

	RespondOK(ctx, c)
}

func (h *CustomersHandler) Create(ctx *gin.Context) {
	var req customer.CreateCustomerRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	c, err := h.repo.Create(cctx, req)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailTaken) {
			RespondConflict(ctx, "Email already exists")
			return
		}

		RespondInternal(ctx, "Failed to create customer")
		return
	}

	RespondCreated(ctx, c)
}

func (h *CustomersHandler) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	var req customer.UpdateCustomerRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	c, err := h.repo.Update(cctx, id, req)

	if err != nil {
		switch {
		case errors.Is(err, customer.ErrNotFound):
			RespondNotFound(ctx, "Customer not found")
		case errors.Is(err, postgres.ErrEmailTaken):
			RespondConflict(ctx, "Email already exists")
		default:
			RespondInternal(ctx, "Failed to update customer")
		}
		return
	}

	RespondOK(ctx, c)
}

func (h *CustomersHandler) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			RespondNotFound(ctx, "Customer not found")
			return
		}

		RespondInternal(ctx, "Failed to delete customer")
		return
	}

	RespondMessage(ctx, "Customer deleted successfully")
}

func (h *CustomersHandler) Search(ctx *gin.Context) {
	q := ctx.Query("q")

	if q == "" {
		RespondBadRequest(ctx, "Search query is required")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	customers, err := h.repo.Search(cctx, q)

	if err != nil {
		RespondInternal(ctx, "Failed to search customers")
		return
	}

	RespondOK(ctx, customers)
}
