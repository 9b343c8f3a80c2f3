package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/dumbcrm/internal/config"
	"github.com/geocoder89/dumbcrm/internal/domain/contact"
	"github.com/geocoder89/dumbcrm/internal/repo/postgres"
	"github.com/gin-gonic/gin"
)

type ContactsStore interface {
	List(ctx context.Context) ([]contact.Contact, error)
	GetByID(ctx context.Context, id string) (contact.Contact, error)
	ListByCustomer(ctx context.Context, customerID string) ([]contact.Contact, error)
	Create(ctx context.Context, req contact.CreateContactRequest) (contact.Contact, error)
	Update(ctx context.Context, id string, req contact.UpdateContactRequest) (contact.Contact, error)
	Delete(ctx context.Context, id string) error
}

type ContactsHandler struct {
	repo ContactsStore
}

func NewContactsHandler(repo ContactsStore) *ContactsHandler {
	return &ContactsHandler{repo: repo}
}

func (h *ContactsHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	contacts, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Failed to fetch contacts")
		return
	}

	RespondOK(ctx, contacts)
}

func (h *ContactsHandler) Get(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	c, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			RespondNotFound(ctx, "Contact not found")
			return
		}

		RespondInternal(ctx, "Failed to fetch contact")
		return
	}

	RespondOK(ctx, c)
}

func (h *ContactsHandler) ListByCustomer(ctx *gin.Context) {
	customerID := ctx.Param("customerId")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	contacts, err := h.repo.ListByCustomer(cctx, customerID)

	if err != nil {
		RespondInternal(ctx, "Failed to fetch contacts")
		return
	}

	RespondOK(ctx, contacts)
}

func (h *ContactsHandler) Create(ctx *gin.Context) {
	var req contact.CreateContactRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	c, err := h.repo.Create(cctx, req)

	if err != nil {
		if errors.Is(err, postgres.ErrInvalidCustomerRef) {
			RespondBadRequest(ctx, "Invalid customer ID")
			return
		}

		RespondInternal(ctx, "Failed to create contact")
		return
	}

	RespondCreated(ctx, c)
}

func (h *ContactsHandler) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	var req contact.UpdateContactRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	c, err := h.repo.Update(cctx, id, req)

	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			RespondNotFound(ctx, "Contact not found")
			return
		}

		RespondInternal(ctx, "Failed to update contact")
		return
	}

	RespondOK(ctx, c)
}

func (h *ContactsHandler) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			RespondNotFound(ctx, "Contact not found")
			return
		}

		RespondInternal(ctx, "Failed to delete contact")
		return
	}

	RespondMessage(ctx, "Contact deleted successfully")
}
