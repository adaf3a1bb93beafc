package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/appnutry/nutry-backend/api/middleware"
	"github.com/appnutry/nutry-backend/internal/auth"
	"github.com/appnutry/nutry-backend/internal/users"
	pkgerrors "github.com/appnutry/nutry-backend/pkg/errors"
)

type testAuthService struct {
	loginFn   func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	refreshFn func(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error)
	logoutFn  func(ctx context.Context, accessID string) error
	meFn      func(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
}

func (s *testAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, req)
	}
	return &auth.LoginResponse{}, nil
}

func (s *testAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	if s.refreshFn != nil {
		return s.refreshFn(ctx, req)
	}
	return &auth.RefreshResponse{}, nil
}

func (s *testAuthService) Logout(ctx context.Context, accessID string) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, accessID)
	}
	return nil
}

func (s *testAuthService) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	if s.meFn != nil {
		return s.meFn(ctx, userID)
	}
	return &users.UserDTO{ID: userID}, nil
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := &testAuthService{
		loginFn: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
			if req.Email != "pro@example.com" {
				t.Fatalf("unexpected email %q", req.Email)
			}
			return &auth.LoginResponse{AccessToken: "jwt", RefreshToken: "refresh"}, nil
		},
	}

	body := `{"email":"pro@example.com","password":"secret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthLogin(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.AccessToken != "jwt" || envelope.Data.RefreshToken != "refresh" {
		t.Fatalf("unexpected tokens %+v", envelope.Data)
	}
}

func TestAuthLoginRejectsBadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	resp := httptest.NewRecorder()
	AuthLogin(&testAuthService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginPropagatesUnauthorized(t *testing.T) {
	svc := &testAuthService{
		loginFn: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		},
	}
	body := `{"email":"pro@example.com","password":"wrong-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthLogin(svc, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshSuccess(t *testing.T) {
	svc := &testAuthService{
		refreshFn: func(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
			if req.RefreshToken != "refresh" {
				t.Fatalf("unexpected refresh token %q", req.RefreshToken)
			}
			return &auth.RefreshResponse{AccessToken: "new-jwt", RefreshToken: "new-refresh"}, nil
		},
	}

	body := `{"access_token":"expired-jwt","refresh_token":"refresh"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthRefresh(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAuthLogoutRequiresSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	AuthLogout(&testAuthService{}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLogoutRevokes(t *testing.T) {
	var revoked string
	svc := &testAuthService{
		logoutFn: func(ctx context.Context, accessID string) error {
			revoked = accessID
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "session-1"))
	resp := httptest.NewRecorder()
	AuthLogout(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if revoked != "session-1" {
		t.Fatalf("expected session-1 revoked, got %q", revoked)
	}
}

func TestSessionMe(t *testing.T) {
	userID := uuid.New()
	svc := &testAuthService{
		meFn: func(ctx context.Context, uid uuid.UUID) (*users.UserDTO, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			return &users.UserDTO{ID: uid, Email: "pro@example.com"}, nil
		},
	}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil), userID)
	resp := httptest.NewRecorder()
	SessionMe(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			User users.UserDTO `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.User.Email != "pro@example.com" {
		t.Fatalf("unexpected user %+v", envelope.Data.User)
	}
}
