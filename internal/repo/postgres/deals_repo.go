package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/dumbcrm/internal/domain/customer"
	"github.com/geocoder89/dumbcrm/internal/domain/deal"
	"github.com/geocoder89/dumbcrm/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DealsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewDealsRepo(pool *pgxpool.Pool, prom *observability.Prom) *DealsRepo {
	return &DealsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *DealsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const dealSelect = `
	SELECT d.id, d.customer_id, d.title, d.description, d.value, d.status,
	       d.created_at, d.updated_at,
	       cu.id, cu.name, cu.email, cu.phone, cu.company, cu.created_at, cu.updated_at
	  FROM deals d
	  JOIN customers cu ON cu.id = d.customer_id`

func scanDeal(row pgx.Row) (deal.Deal, error) {
	var d deal.Deal
	var cu customer.Customer

	err := row.Scan(
		&d.ID,
		&d.CustomerID,
		&d.Title,
		&d.Description,
		&d.Value,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
		&cu.ID,
		&cu.Name,
		&cu.Email,
		&cu.Phone,
		&cu.Company,
		&cu.CreatedAt,
		&cu.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return deal.Deal{}, deal.ErrNotFound
		}

		return deal.Deal{}, err
	}

	d.Customer = &cu
	return d, nil
}

func (r *DealsRepo) collect(rows pgx.Rows) ([]deal.Deal, error) {
	defer rows.Close()

	out := make([]deal.Deal, 0)

	for rows.Next() {
		d, err := scanDeal(rows)

		if err != nil {
			return nil, err
		}

		out = append(out, d)
	}

	return out, rows.Err()
}

func (r *DealsRepo) list(ctx context.Context, op, query string, args ...interface{}) ([]deal.Deal, error) {
	var out []deal.Deal

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		out, err = r.collect(rows)
		return err
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *DealsRepo) List(ctx context.Context) ([]deal.Deal, error) {
	return r.list(ctx, "deals.list", dealSelect+` ORDER BY d.created_at DESC`)
}

func (r *DealsRepo) GetByID(ctx context.Context, id string) (deal.Deal, error) {
	var d deal.Deal

	err := r.observe("deals.get_by_id", func() error {
		var err error
		d, err = scanDeal(r.pool.QueryRow(ctx, dealSelect+` WHERE d.id = $1`, id))
		return err
	})

	if err != nil {
		return deal.Deal{}, err
	}

	return d, nil
}

func (r *DealsRepo) ListByCustomer(ctx context.Context, customerID string) ([]deal.Deal, error) {
	return r.list(ctx, "deals.list_by_customer",
		dealSelect+` WHERE d.customer_id = $1 ORDER BY d.created_at DESC`, customerID)
}

func (r *DealsRepo) ListByStatus(ctx context.Context, status string) ([]deal.Deal, error) {
	return r.list(ctx, "deals.list_by_status",
		dealSelect+` WHERE d.status = $1 ORDER BY d.created_at DESC`, status)
}

func (r *DealsRepo) Create(ctx context.Context, req deal.CreateDealRequest) (deal.Deal, error) {
	now := time.Now().UTC()
	id := uuid.NewString()

	status := req.Status

	if status == "" {
		status = deal.StatusOpen
	}

	err := r.observe("deals.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO deals (id, customer_id, title, description, value, status, created_at, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			id, req.CustomerID, req.Title, req.Description, *req.Value, status, now, now,
		)
		return err
	})

	if err != nil {
		if IsForeignKeyViolation(err) {
			return deal.Deal{}, ErrInvalidCustomerRef
		}

		return deal.Deal{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *DealsRepo) Update(ctx context.Context, id string, req deal.UpdateDealRequest) (deal.Deal, error) {
	status := req.Status

	if status == "" {
		status = deal.StatusOpen
	}

	var tag pgconn.CommandTag

	err := r.observe("deals.update", func() error {
		t, err := r.pool.Exec(ctx,
			`UPDATE deals
			    SET title = $2,
			        description = $3,
			        value = $4,
			        status = $5,
			        updated_at = NOW()
			  WHERE id = $1`,
			id, req.Title, req.Description, *req.Value, status,
		)
		tag = t
		return err
	})

	if err != nil {
		return deal.Deal{}, err
	}

	if tag.RowsAffected() == 0 {
		return deal.Deal{}, deal.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *DealsRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("deals.delete", func() error {
		t, err := r.pool.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
		tag = t
		return err
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return deal.ErrNotFound
	}

	return nil
}

// Stats aggregates the pipeline in one query; totals always satisfy
// totalDeals = openDeals + wonDeals + lostDeals.
func (r *DealsRepo) Stats(ctx context.Context) (deal.Stats, error) {
	var s deal.Stats

	err := r.observe("deals.stats", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT COUNT(*),
			        COUNT(*) FILTER (WHERE status = 'open'),
			        COUNT(*) FILTER (WHERE status = 'won'),
			        COUNT(*) FILTER (WHERE status = 'lost'),
			        COALESCE(SUM(value), 0),
			        COALESCE(SUM(value) FILTER (WHERE status = 'won'), 0)
			 FROM deals`,
		).Scan(&s.TotalDeals, &s.OpenDeals, &s.WonDeals, &s.LostDeals, &s.TotalValue, &s.WonValue)
	})

	if err != nil {
		return deal.Stats{}, err
	}

	return s, nil
}
