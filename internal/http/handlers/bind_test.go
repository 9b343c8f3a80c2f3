package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/geocoder89/dumbcrm/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type bindTarget struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
	Age   int    `json:"age" binding:"omitempty,gte=18"`
}

func bindRouter() *gin.Engine {
	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var req bindTarget
		if !handlers.BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	return r
}

func TestBindJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantMessage string
	}{
		{
			name:       "valid body passes through",
			body:       `{"email":"jo@example.com","name":"Jo"}`,
			wantStatus: http.StatusNoContent,
		},
		{
			name:        "missing fields name the json keys",
			body:        `{}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "email is required; name is required",
		},
		{
			name:        "bad email format",
			body:        `{"email":"nope","name":"Jo"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "email must be a valid email address",
		},
		{
			name:        "range rule carries its bound",
			body:        `{"email":"jo@example.com","name":"Jo","age":12}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "age must be 18 or greater",
		},
		{
			name:        "type mismatch",
			body:        `{"email":"jo@example.com","name":"Jo","age":"twelve"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "age must be of type int",
		},
		{
			name:        "broken json",
			body:        `{"email": }`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid JSON body",
		},
	}

	r := bindRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/bind", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantMessage == "" {
				return
			}

			body := decodeEnvelope(t, w)
			got, _ := body["error"].(string)

			if !strings.Contains(got, tt.wantMessage) {
				t.Fatalf("error = %q, want it to contain %q", got, tt.wantMessage)
			}
		})
	}
}
