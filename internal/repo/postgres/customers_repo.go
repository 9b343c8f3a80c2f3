package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/dumbcrm/internal/domain/customer"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomersRepo struct {
	pool *pgxpool.Pool
}

func NewCustomersRepo(pool *pgxpool.Pool) *CustomersRepo {
	return &CustomersRepo{pool: pool}
}

const customerColumns = `id, name, email, phone, company, created_at, updated_at`

func scanCustomer(row pgx.Row) (customer.Customer, error) {
	var c customer.Customer

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Company,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return customer.Customer{}, customer.ErrNotFound
		}

		return customer.Customer{}, err
	}
	return c, nil
}

func (r *CustomersRepo) collect(rows pgx.Rows) ([]customer.Customer, error) {
	defer rows.Close()

	out := make([]customer.Customer, 0)

	for rows.Next() {
		c, err := scanCustomer(rows)

		if err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *CustomersRepo) List(ctx context.Context) ([]customer.Customer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC`)

	if err != nil {
		return nil, err
	}

	return r.collect(rows)
}

func (r *CustomersRepo) GetByID(ctx context.Context, id string) (customer.Customer, error) {
	return scanCustomer(r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
}

func (r *CustomersRepo) Create(ctx context.Context, req customer.CreateCustomerRequest) (customer.Customer, error) {
	now := time.Now().UTC()

	c := customer.Customer{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO customers (id, name, email, phone, company, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.Name, c.Email, c.Phone, c.Company, c.CreatedAt, c.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return customer.Customer{}, ErrEmailTaken
		}

		return customer.Customer{}, err
	}

	return c, nil
}

func (r *CustomersRepo) Update(ctx context.Context, id string, req customer.UpdateCustomerRequest) (customer.Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx,
		`UPDATE customers
		    SET name = $2,
		        email = $3,
		        phone = $4,
		        company = $5,
		        updated_at = NOW()
		  WHERE id = $1
		  RETURNING `+customerColumns,
		id, req.Name, req.Email, req.Phone, req.Company,
	))

	if err != nil {
		if IsUniqueViolation(err) {
			return customer.Customer{}, ErrEmailTaken
		}

		return customer.Customer{}, err
	}

	return c, nil
}

func (r *CustomersRepo) Delete(ctx context.Context, id string) error {
	// contacts and deals go with the customer via ON DELETE CASCADE
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}

	return nil
}

// Search does a case-insensitive substring match over name, email and
// company, newest first.
func (r *CustomersRepo) Search(ctx context.Context, query string) ([]customer.Customer, error) {
	pattern := "%" + query + "%"

	rows, err := r.pool.Query(ctx,
		`SELECT `+customerColumns+`
		   FROM customers
		  WHERE name ILIKE $1 OR email ILIKE $1 OR company ILIKE $1
		  ORDER BY created_at DESC`,
		pattern,
	)

	if err != nil {
		return nil, err
	}

	return r.collect(rows)
}
