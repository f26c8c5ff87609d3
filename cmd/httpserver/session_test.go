//go:build integration

package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/internal/integrationtest"
	"github.com/go-petr/pet-wallet/internal/test"
	"github.com/go-petr/pet-wallet/pkg/tokenpkg"
	"github.com/go-petr/pet-wallet/pkg/web"
)

type refreshTokenBody struct {
	RefreshToken string `json:"refresh_token"`
}

func TestRenewAccessTokenAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)
	tokenMaker := server.TokenMaker
	duration := server.Config.RefreshTokenDuration

	seed := func(t *testing.T, mutate func(user domain.User, arg *domain.CreateSessionParams)) string {
		t.Helper()

		user := test.SeedUser(t, server.DB, "qwerty")

		refreshToken, payload, err := tokenMaker.CreateToken(user.ID, user.Email, duration)
		if err != nil {
			t.Fatalf("tokenMaker.CreateToken(%v, %v, %v) returned error: %v",
				user.ID, user.Email, duration, err)
		}

		arg := domain.CreateSessionParams{
			ID:           payload.ID,
			UserID:       user.ID,
			Email:        user.Email,
			RefreshToken: refreshToken,
			UserAgent:    "Mozilla/5.0",
			ClientIP:     "123.123.123.123",
			ExpiresAt:    payload.ExpiredAt,
		}
		if mutate != nil {
			mutate(user, &arg)
		}
		test.SeedSession(t, server.DB, arg)

		return refreshToken
	}

	testCases := []struct {
		name           string
		refreshToken   func(t *testing.T) string
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "OK",
			refreshToken:   func(t *testing.T) string { return seed(t, nil) },
			wantStatusCode: http.StatusOK,
		},
		{
			name: "ExpiredToken",
			refreshToken: func(t *testing.T) string {
				user := test.SeedUser(t, server.DB, "qwerty")

				refreshToken, _, err := tokenMaker.CreateToken(user.ID, user.Email, -time.Minute)
				if err != nil {
					t.Fatalf("tokenMaker.CreateToken returned error: %v", err)
				}

				return refreshToken
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      tokenpkg.ErrExpiredToken.Error(),
		},
		{
			name: "SessionNotFound",
			refreshToken: func(t *testing.T) string {
				user := test.SeedUser(t, server.DB, "qwerty")

				refreshToken, _, err := tokenMaker.CreateToken(user.ID, user.Email, duration)
				if err != nil {
					t.Fatalf("tokenMaker.CreateToken returned error: %v", err)
				}

				return refreshToken
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrSessionNotFound.Error(),
		},
		{
			name: "BlockedSession",
			refreshToken: func(t *testing.T) string {
				return seed(t, func(_ domain.User, arg *domain.CreateSessionParams) {
					arg.IsBlocked = true
				})
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrBlockedSession.Error(),
		},
		{
			name: "InvalidUser",
			refreshToken: func(t *testing.T) string {
				other := test.SeedUser(t, server.DB, "qwerty")

				return seed(t, func(_ domain.User, arg *domain.CreateSessionParams) {
					arg.UserID = other.ID
				})
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrInvalidUser.Error(),
		},
		{
			name: "MismatchedRefreshToken",
			refreshToken: func(t *testing.T) string {
				return seed(t, func(user domain.User, arg *domain.CreateSessionParams) {
					other, _, err := tokenMaker.CreateToken(user.ID, user.Email, duration)
					if err != nil {
						t.Fatalf("tokenMaker.CreateToken returned error: %v", err)
					}
					arg.RefreshToken = other
				})
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrMismatchedRefreshToken.Error(),
		},
		{
			name: "ExpiredSession",
			refreshToken: func(t *testing.T) string {
				return seed(t, func(_ domain.User, arg *domain.CreateSessionParams) {
					arg.ExpiresAt = arg.ExpiresAt.Add(-72 * time.Hour)
				})
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrExpiredSession.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			body, err := json.Marshal(refreshTokenBody{RefreshToken: tc.refreshToken(t)})
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/renew", bytes.NewReader(body))
			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			if got := w.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			var res web.Response
			if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			if _, err := tokenMaker.VerifyToken(res.AccessToken); err != nil {
				t.Errorf("tokenMaker.VerifyToken(res.AccessToken) returned error: %v", err)
			}
		})
	}
}

func TestSignOutAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	body, err := json.Marshal(map[string]string{"email": "owner@wallet.app", "password": "qwerty"})
	if err != nil {
		t.Fatalf("Encoding request body error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("sign up status code: got %v, want %v", w.Code, http.StatusOK)
	}

	var signedUp web.Response
	if err := json.NewDecoder(w.Body).Decode(&signedUp); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	signOut := func() int {
		body, err := json.Marshal(refreshTokenBody{RefreshToken: signedUp.RefreshToken})
		if err != nil {
			t.Fatalf("Encoding request body error: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", bytes.NewReader(body))
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		return w.Code
	}

	if got := signOut(); got != http.StatusNoContent {
		t.Errorf("first sign out status code: got %v, want %v", got, http.StatusNoContent)
	}

	if got := signOut(); got != http.StatusUnauthorized {
		t.Errorf("second sign out status code: got %v, want %v", got, http.StatusUnauthorized)
	}
}
