package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/dumbcrm/internal/config"
	"github.com/geocoder89/dumbcrm/internal/domain/deal"
	"github.com/geocoder89/dumbcrm/internal/repo/postgres"
	"github.com/gin-gonic/gin"
)

type DealsStore interface {
	List(ctx context.Context) ([]deal.Deal, error)
	GetByID(ctx context.Context, id string) (deal.Deal, error)
	ListByCustomer(ctx context.Context, customerID string) ([]deal.Deal, error)
	ListByStatus(ctx context.Context, status string) ([]deal.Deal, error)
	Create(ctx context.Context, req deal.CreateDealRequest) (deal.Deal, error)
	Update(ctx context.Context, id string, req deal.UpdateDealRequest) (deal.Deal, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (deal.Stats, error)
}

type DealsHandler struct {
	repo DealsStore
}

func NewDealsHandler(repo DealsStore) *DealsHandler {
	return &DealsHandler{repo: repo}
}

func (h *DealsHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	deals, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Failed to fetch deals")
		return
	}

	RespondOK(ctx, deals)
}

func (h *DealsHandler) Get(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	d, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, deal.ErrNotFound) {
			RespondNotFound(ctx, "Deal not found")
			return
		}

		RespondInternal(ctx, "Failed to fetch deal")
		return
	}

	RespondOK(ctx, d)
}

func (h *DealsHandler) ListByCustomer(ctx *gin.Context) {
	customerID := ctx.Param("customerId")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	deals, err := h.repo.ListByCustomer(cctx, customerID)

	if err != nil {
		RespondInternal(ctx, "Failed to fetch deals")
		return
	}

	RespondOK(ctx, deals)
}

func (h *DealsHandler) ListByStatus(ctx *gin.Context) {
	status := ctx.Param("status")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	deals, err := h.repo.ListByStatus(cctx, status)

	if err != nil {
		RespondInternal(ctx, "Failed to fetch deals")
		return
	}

	RespondOK(ctx, deals)
}

func (h *DealsHandler) Stats(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	stats, err := h.repo.Stats(cctx)

	if err != nil {
		RespondInternal(ctx, "Failed to fetch deal statistics")
		return
	}

	RespondOK(ctx, stats)
}

func (h *DealsHandler) Create(ctx *gin.Context) {
	var req deal.CreateDealRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	d, err := h.repo.Create(cctx, req)

	if err != nil {
		if errors.Is(err, postgres.ErrInvalidCustomerRef) {
			RespondBadRequest(ctx, "Invalid customer ID")
			return
		}

		RespondInternal(ctx, "Failed to create deal")
		return
	}

	RespondCreated(ctx, d)
}

func (h *DealsHandler) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	var req deal.UpdateDealRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	d, err := h.repo.Update(cctx, id, req)

	if err != nil {
		if errors.Is(err, deal.ErrNotFound) {
			RespondNotFound(ctx, "Deal not found")
			return
		}

		RespondInternal(ctx, "Failed to update deal")
		return
	}

	RespondOK(ctx, d)
}

func (h *DealsHandler) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, deal.ErrNotFound) {
			RespondNotFound(ctx, "Deal not found")
			return
		}

		RespondInternal(ctx, "Failed to delete deal")
		return
	}

	RespondMessage(ctx, "Deal deleted successfully")
}
