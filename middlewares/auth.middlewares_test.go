package middlewares

import (
	"net/http/httptest"
	"testing"
	"time"

	"chatterbug_server/helpers"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "test-secret"

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", Authenticate(testSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"memberid": c.Locals("memberid"),
			"email":    c.Locals("email"),
		})
	})
	return app
}

func TestAuthenticateMissingToken(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/protected", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", res.StatusCode)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("x-access-token", "garbage")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", res.StatusCode)
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	app := newTestApp()

	token, err := helpers.SignToken(testSecret, helpers.TokenClaims{MemberID: 7, Email: "a@x.com"}, time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
}

func TestAuthenticateLegacyHeader(t *testing.T) {
	app := newTestApp()

	token, err := helpers.SignToken(testSecret, helpers.TokenClaims{MemberID: 7, Email: "a@x.com"}, time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("x-access-token", token)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
}
