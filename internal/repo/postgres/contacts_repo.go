package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/dumbcrm/internal/domain/contact"
	"github.com/geocoder89/dumbcrm/internal/domain/customer"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContactsRepo struct {
	pool *pgxpool.Pool
}

func NewContactsRepo(pool *pgxpool.Pool) *ContactsRepo {
	return &ContactsRepo{pool: pool}
}

// every read joins the owning customer so the API can render contact lists
// without a second round trip.
const contactSelect = `
	SELECT ct.id, ct.customer_id, ct.name, ct.email, ct.phone, ct.position,
	       ct.created_at, ct.updated_at,
	       cu.id, cu.name, cu.email, cu.phone, cu.company, cu.created_at, cu.updated_at
	  FROM contacts ct
	  JOIN customers cu ON cu.id = ct.customer_id`

func scanContact(row pgx.Row) (contact.Contact, error) {
	var c contact.Contact
	var cu customer.Customer

	err := row.Scan(
		&c.ID,
		&c.CustomerID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Position,
		&c.CreatedAt,
		&c.UpdatedAt,
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
			return contact.Contact{}, contact.ErrNotFound
		}

		return contact.Contact{}, err
	}

	c.Customer = &cu
	return c, nil
}

func (r *ContactsRepo) collect(rows pgx.Rows) ([]contact.Contact, error) {
	defer rows.Close()

	out := make([]contact.Contact, 0)

	for rows.Next() {
		c, err := scanContact(rows)

		if err != nil {
			return nil, err
		}

		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *ContactsRepo) List(ctx context.Context) ([]contact.Contact, error) {
	rows, err := r.pool.Query(ctx, contactSelect+` ORDER BY ct.created_at DESC`)

	if err != nil {
		return nil, err
	}

	return r.collect(rows)
}

func (r *ContactsRepo) GetByID(ctx context.Context, id string) (contact.Contact, error) {
	return scanContact(r.pool.QueryRow(ctx, contactSelect+` WHERE ct.id = $1`, id))
}

func (r *ContactsRepo) ListByCustomer(ctx context.Context, customerID string) ([]contact.Contact, error) {
	rows, err := r.pool.Query(ctx,
		contactSelect+` WHERE ct.customer_id = $1 ORDER BY ct.created_at DESC`,
		customerID,
	)

	if err != nil {
		return nil, err
	}

	return r.collect(rows)
}

func (r *ContactsRepo) Create(ctx context.Context, req contact.CreateContactRequest) (contact.Contact, error) {
	now := time.Now().UTC()
	id := uuid.NewString()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO contacts (id, customer_id, name, email, phone, position, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		id, req.CustomerID, req.Name, req.Email, req.Phone, req.Position, now, now,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return contact.Contact{}, ErrInvalidCustomerRef
		}

		return contact.Contact{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *ContactsRepo) Update(ctx context.Context, id string, req contact.UpdateContactRequest) (contact.Contact, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE contacts
		    SET name = $2,
		        email = $3,
		        phone = $4,
		        position = $5,
		        updated_at = NOW()
		  WHERE id = $1`,
		id, req.Name, req.Email, req.Phone, req.Position,
	)

	if err != nil {
		return contact.Contact{}, err
	}

	if tag.RowsAffected() == 0 {
		return contact.Contact{}, contact.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *ContactsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return contact.ErrNotFound
	}

	return nil
}
