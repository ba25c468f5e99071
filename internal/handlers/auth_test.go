package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/farmlink/internal/common"
	"github.com/example/farmlink/internal/config"
)

func TestRegisterRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     registerRequest
		wantErr bool
	}{
		{
			name: "valid consumer",
			req: registerRequest{
				Role:    "CONSUMER",
				Name:    "Alice",
				Phone:   "2550000001",
				Address: "12 Market Street",
			},
		},
		{
			name: "consumer missing address",
			req: registerRequest{
				Role:  "CONSUMER",
				Name:  "Alice",
				Phone: "2550000001",
			},
			wantErr: true,
		},
		{
			name: "consumer missing phone",
			req: registerRequest{
				Role:    "CONSUMER",
				Name:    "Alice",
				Address: "12 Market Street",
			},
			wantErr: true,
		},
		{
			name: "valid farmer",
			req: registerRequest{
				Role:     "FARMER",
				Name:     "Bob",
				Phone:    "2550000002",
				FarmName: "Green Acres",
				Location: "Hill Valley",
			},
		},
		{
			name: "farmer missing farm name",
			req: registerRequest{
				Role:     "FARMER",
				Name:     "Bob",
				Phone:    "2550000002",
				Location: "Hill Valley",
			},
			wantErr: true,
		},
		{
			name: "farmer missing location",
			req: registerRequest{
				Role:     "FARMER",
				Name:     "Bob",
				Phone:    "2550000002",
				FarmName: "Green Acres",
			},
			wantErr: true,
		},
		{
			name: "farmer phone not digits",
			req: registerRequest{
				Role:     "FARMER",
				Name:     "Bob",
				Phone:    "+255-00-02",
				FarmName: "Green Acres",
				Location: "Hill Valley",
			},
			wantErr: true,
		},
		{
			name: "valid admin",
			req: registerRequest{
				Role:     "ADMIN",
				Name:     "Root",
				Email:    "admin@example.com",
				Password: "s3cret-pass",
			},
		},
		{
			name: "admin missing password",
			req: registerRequest{
				Role:  "ADMIN",
				Name:  "Root",
				Email: "admin@example.com",
			},
			wantErr: true,
		},
		{
			name: "admin bad email",
			req: registerRequest{
				Role:     "ADMIN",
				Name:     "Root",
				Email:    "not-an-email",
				Password: "s3cret-pass",
			},
			wantErr: true,
		},
		{
			name: "admin does not need phone fields",
			req: registerRequest{
				Role:     "ADMIN",
				Name:     "Root",
				Email:    "admin@example.com",
				Password: "s3cret-pass",
				// farmer/consumer fields absent on purpose
			},
		},
		{
			name:    "unknown role",
			req:     registerRequest{Role: "SUPPLIER", Name: "Eve"},
			wantErr: true,
		},
		{
			name:    "empty role",
			req:     registerRequest{Name: "Eve"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// Validation failures must be rejected before any store access, so the
// handler is wired with nil dependencies here.
func setupAuthApp() *fiber.App {
	cfg := &config.Config{JWTSecret: "handler-test-secret", TokenExpires: time.Hour}
	handler := NewAuthHandler(nil, cfg, nil, nil)

	app := fiber.New(fiber.Config{ErrorHandler: common.ErrorHandler})
	app.Post("/api/register", handler.Register)
	app.Post("/api/login", handler.Login)
	app.Post("/api/verify-otp", handler.VerifyOTP)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRegisterRejectsInvalidPayloads(t *testing.T) {
	app := setupAuthApp()

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"unknown role", `{"role":"SUPPLIER","name":"Eve"}`},
		{"consumer without address", `{"role":"CONSUMER","name":"Alice","phone":"2550000001"}`},
		{"admin without password", `{"role":"ADMIN","name":"Root","email":"admin@x.com"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, fiber.StatusBadRequest, postJSON(t, app, "/api/register", tt.body))
		})
	}
}

func TestLoginRejectsInvalidPayloads(t *testing.T) {
	app := setupAuthApp()

	tests := []struct {
		name string
		body string
	}{
		{"missing role", `{"email":"admin@x.com","password":"pw"}`},
		{"unknown role", `{"role":"SUPPLIER","phone":"2550000001"}`},
		{"admin without password", `{"role":"ADMIN","email":"admin@x.com"}`},
		{"consumer without phone", `{"role":"CONSUMER"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, fiber.StatusBadRequest, postJSON(t, app, "/api/login", tt.body))
		})
	}
}

func TestVerifyOTPRejectsInvalidPayloads(t *testing.T) {
	app := setupAuthApp()

	tests := []struct {
		name string
		body string
	}{
		{"missing fields", `{}`},
		{"missing otp", `{"userId":"7f9c24e5-2f86-4f8e-9d11-0e2a6a1b5f55"}`},
		{"bad user id", `{"userId":"not-a-uuid","otp":"123456"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, fiber.StatusBadRequest, postJSON(t, app, "/api/verify-otp", tt.body))
		})
	}
}
