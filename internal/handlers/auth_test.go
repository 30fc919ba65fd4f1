package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/maren/innerlog-api/internal/middleware"
	"github.com/maren/innerlog-api/internal/models"
	"github.com/maren/innerlog-api/internal/repository"
)

func newAuthApp(store repository.Store) *fiber.App {
	h := NewAuthHandler(store, testSecret, "", zerolog.Nop())

	app := fiber.New()
	app.Post("/api/auth/register", h.Register)
	app.Post("/api/auth/login", h.Login)
	app.Get("/api/me", middleware.Protected(testSecret), h.GetMe)
	app.Put("/api/me", middleware.Protected(testSecret), h.UpdateProfile)
	return app
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegisterAndLogin(t *testing.T) {
	app := newAuthApp(newHandlerStore(t))

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"maren@example.com","password":"hunter22","name":"Maren"}`))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}

	var registered models.AuthResponse
	decodeBody(t, resp, &registered)
	if registered.Token == "" {
		t.Error("register returned no token")
	}
	if registered.User.Email != "maren@example.com" {
		t.Errorf("email = %q", registered.User.Email)
	}

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"maren@example.com","password":"hunter22"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}

	var logged models.AuthResponse
	decodeBody(t, resp, &logged)
	if logged.User.ID != registered.User.ID {
		t.Error("login returned a different user")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app := newAuthApp(newHandlerStore(t))

	body := `{"email":"dup@example.com","password":"secret1"}`
	if _, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/register", body)); err != nil {
		t.Fatalf("first register: %v", err)
	}

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/register", body))
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	app := newAuthApp(newHandlerStore(t))

	if _, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"email":"a@example.com","password":"correct-horse"}`)); err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"a@example.com","password":"battery-staple"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	app := newAuthApp(newHandlerStore(t))

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"nobody@example.com","password":"whatever"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestUpdateProfile(t *testing.T) {
	store := newHandlerStore(t)
	app := newAuthApp(store)

	user := models.User{Email: "profile@example.com"}
	if err := store.CreateUser(&user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	resp, err := app.Test(authedJSONRequest(t, user.ID, http.MethodPut, "/api/me",
		`{"displayName":"Mo","timezone":"Europe/Oslo"}`))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var updated models.User
	decodeBody(t, resp, &updated)
	if updated.DisplayName != "Mo" || updated.Timezone != "Europe/Oslo" {
		t.Errorf("profile = %q/%q", updated.DisplayName, updated.Timezone)
	}

	reloaded, err := store.UserByID(user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.DisplayName != "Mo" {
		t.Error("display name not persisted")
	}
}

func TestGetMe(t *testing.T) {
	store := newHandlerStore(t)
	app := newAuthApp(store)

	user := models.User{Email: "me@example.com", Name: "Me"}
	if err := store.CreateUser(&user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	resp, err := app.Test(authedJSONRequest(t, user.ID, http.MethodGet, "/api/me", ""))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var me models.User
	decodeBody(t, resp, &me)
	if me.ID != user.ID {
		t.Errorf("id = %s, want %s", me.ID, user.ID)
	}
}
