package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/geocoder89/dumbcrm/internal/domain/contact"
	"github.com/geocoder89/dumbcrm/internal/http/handlers"
	"github.com/geocoder89/dumbcrm/internal/repo/postgres"
	"github.com/gin-gonic/gin"
)

type fakeContactsStore struct {
	listFn       func(ctx context.Context) ([]contact.Contact, error)
	getFn        func(ctx context.Context, id string) (contact.Contact, error)
	byCustomerFn func(ctx context.Context, customerID string) ([]contact.Contact, error)
	createFn     func(ctx context.Context, req contact.CreateContactRequest) (contact.Contact, error)
	updateFn     func(ctx context.Context, id string, req contact.UpdateContactRequest) (contact.Contact, error)
	deleteFn     func(ctx context.Context, id string) error
}

func (f *fakeContactsStore) List(ctx context.Context) ([]contact.Contact, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeContactsStore) GetByID(ctx context.Context, id string) (contact.Contact, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return contact.Contact{}, contact.ErrNotFound
}

func (f *fakeContactsStore) ListByCustomer(ctx context.Context, customerID string) ([]contact.Contact, error) {
	if f.byCustomerFn != nil {
		return f.byCustomerFn(ctx, customerID)
	}
	return nil, nil
}

func (f *fakeContactsStore) Create(ctx context.Context, req contact.CreateContactRequest) (contact.Contact, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return contact.Contact{}, nil
}

func (f *fakeContactsStore) Update(ctx context.Context, id string, req contact.UpdateContactRequest) (contact.Contact, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return contact.Contact{}, nil
}

func (f *fakeContactsStore) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func contactsRouter(store *fakeContactsStore) *gin.Engine {
	h := handlers.NewContactsHandler(store)

	r := gin.New()
	r.GET("/api/contacts", h.List)
	r.GET("/api/contacts/customer/:customerId", h.ListByCustomer)
	r.GET("/api/contacts/:id", h.Get)
	r.POST("/api/contacts", h.Create)
	r.PUT("/api/contacts/:id", h.Update)
	r.DELETE("/api/contacts/:id", h.Delete)

	return r
}

func TestCreateContact(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
		wantError  string
	}{
		{
			name:       "created",
			body:       `{"customerId":"c1","name":"Jo Doe","email":"jo@acme.example"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unknown customer",
			body:       `{"customerId":"ghost","name":"Jo Doe","email":"jo@acme.example"}`,
			createErr:  postgres.ErrInvalidCustomerRef,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid customer ID",
		},
		{
			name:       "customer id required",
			body:       `{"name":"Jo Doe","email":"jo@acme.example"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "email required",
			body:       `{"customerId":"c1","name":"Jo Doe"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeContactsStore{createFn: func(ctx context.Context, req contact.CreateContactRequest) (contact.Contact, error) {
				if tt.createErr != nil {
					return contact.Contact{}, tt.createErr
				}
				return contact.Contact{ID: "ct1", CustomerID: req.CustomerID, Name: req.Name, Email: req.Email}, nil
			}}

			w := doJSON(contactsRouter(store), http.MethodPost, "/api/contacts", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantError != "" {
				body := decodeEnvelope(t, w)
				if body["error"] != tt.wantError {
					t.Fatalf("error = %v, want %q", body["error"], tt.wantError)
				}
			}
		})
	}
}

func TestGetContact(t *testing.T) {
	tests := []struct {
		name       string
		getErr     error
		wantStatus int
		wantError  string
	}{
		{name: "found", wantStatus: http.StatusOK},
		{name: "missing", getErr: contact.ErrNotFound, wantStatus: http.StatusNotFound, wantError: "Contact not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeContactsStore{getFn: func(ctx context.Context, id string) (contact.Contact, error) {
				if tt.getErr != nil {
					return contact.Contact{}, tt.getErr
				}
				return contact.Contact{ID: id, Name: "Jo Doe", Email: "jo@acme.example"}, nil
			}}

			w := doJSON(contactsRouter(store), http.MethodGet, "/api/contacts/ct1", "")

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantError != "" {
				body := decodeEnvelope(t, w)
				if body["error"] != tt.wantError {
					t.Fatalf("error = %v, want %q", body["error"], tt.wantError)
				}
			}
		})
	}
}

func TestListContactsByCustomer(t *testing.T) {
	var gotCustomer string

	store := &fakeContactsStore{byCustomerFn: func(ctx context.Context, customerID string) ([]contact.Contact, error) {
		gotCustomer = customerID
		return []contact.Contact{{ID: "ct1", CustomerID: customerID}}, nil
	}}

	w := doJSON(contactsRouter(store), http.MethodGet, "/api/contacts/customer/c1", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}
	if gotCustomer != "c1" {
		t.Fatalf("customer id = %q, want c1", gotCustomer)
	}
}

func TestDeleteContact(t *testing.T) {
	store := &fakeContactsStore{}

	w := doJSON(contactsRouter(store), http.MethodDelete, "/api/contacts/ct1", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}

	body := decodeEnvelope(t, w)
	if body["message"] != "Contact deleted successfully" {
		t.Fatalf("message = %v", body["message"])
	}
}
