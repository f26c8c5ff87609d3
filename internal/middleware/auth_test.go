package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/randompkg"
	"github.com/go-petr/pet-wallet/pkg/tokenpkg"
	"github.com/go-petr/pet-wallet/pkg/web"
	"github.com/stretchr/testify/require"
)

func newTokenMaker(t *testing.T) tokenpkg.Maker {
	t.Helper()

	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	return tokenMaker
}

func TestAuthMiddleware(t *testing.T) {
	tokenMaker := newTokenMaker(t)

	userID := randompkg.UserID()
	email := randompkg.Email()

	testCases := []struct {
		name           string
		setupAuth      func(t *testing.T, r *http.Request) error
		wantStatusCode int
		wantError      string
	}{
		{
			name: "NoAuthorization",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return nil
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      ErrAuthHeaderNotFound.Error(),
		},
		{
			name: "InvalidAuthorizationHeader",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return AddAuthorization(r, tokenMaker, "", userID, email, time.Minute)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      ErrBadAuthHeaderFormat.Error(),
		},
		{
			name: "UnsupportedAuthorization",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return AddAuthorization(r, tokenMaker, "unsupported", userID, email, time.Minute)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      ErrUnsupportedAuthType.Error(),
		},
		{
			name: "ExpiredToken",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return AddAuthorization(r, tokenMaker, AuthTypeBearer, userID, email, -time.Minute)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      tokenpkg.ErrExpiredToken.Error(),
		},
		{
			name: "InvalidCookie",
			setupAuth: func(t *testing.T, r *http.Request) error {
				r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "garbage"})
				return nil
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      tokenpkg.ErrInvalidToken.Error(),
		},
		{
			name: "OK",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return AddAuthorization(r, tokenMaker, AuthTypeBearer, userID, email, time.Minute)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "OKCookie",
			setupAuth: func(t *testing.T, r *http.Request) error {
				token, _, err := tokenMaker.CreateToken(userID, email, time.Minute)
				if err != nil {
					return err
				}

				r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})

				return nil
			},
			wantStatusCode: http.StatusOK,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gin.SetMode(gin.ReleaseMode)
			server := gin.New()

			authPath := "/auth"
			handler := func(c *gin.Context) {
				c.JSON(http.StatusOK, web.Response{Data: Identity(c)})
			}
			server.GET(authPath, AuthMiddleware(tokenMaker), handler)

			recorder := httptest.NewRecorder()
			request, err := http.NewRequest(http.MethodGet, authPath, nil)
			if err != nil {
				t.Fatalf("http.NewRequest(%v, %v, nil) returned error: %v", http.MethodGet, authPath, err)
			}

			if err = tc.setupAuth(t, request); err != nil {
				t.Fatalf("tc.setupAuth(t, %v) returned error: %v", request, err)
			}

			server.ServeHTTP(recorder, request)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("recorder.Code = %v, tc.wantStatusCode = %v, want equal",
					recorder.Code, tc.wantStatusCode)
			}

			var got struct {
				Data  domain.Identity `json:"data"`
				Error string          `json:"error"`
			}
			if err := json.NewDecoder(recorder.Body).Decode(&got); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if got.Error != tc.wantError {
				t.Errorf("got.Error = %v, tc.wantError = %v, want equal", got.Error, tc.wantError)
			}

			if tc.wantStatusCode == http.StatusOK {
				require.Equal(t, domain.Identity{ID: userID, Email: email}, got.Data)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	tokenMaker := newTokenMaker(t)

	gin.SetMode(gin.ReleaseMode)
	server := gin.New()
	server.GET("/page", OptionalAuth(tokenMaker), func(c *gin.Context) {
		if Authenticated(c) {
			c.String(http.StatusOK, "in")
			return
		}
		c.String(http.StatusOK, "out")
	})

	t.Run("Anonymous", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/page", nil)

		server.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)
		require.Equal(t, "out", recorder.Body.String())
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/page", nil)
		require.NoError(t, AddAuthorization(request, tokenMaker, AuthTypeBearer,
			randompkg.UserID(), randompkg.Email(), -time.Minute))

		server.ServeHTTP(recorder, request)

		require.Equal(t, "out", recorder.Body.String())
	})

	t.Run("Authenticated", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/page", nil)
		require.NoError(t, AddAuthorization(request, tokenMaker, AuthTypeBearer,
			randompkg.UserID(), randompkg.Email(), time.Minute))

		server.ServeHTTP(recorder, request)

		require.Equal(t, "in", recorder.Body.String())
	})
}
