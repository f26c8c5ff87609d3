package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-wallet/internal/domain"
	"github.com/go-petr/pet-wallet/pkg/tokenpkg"
	"github.com/go-petr/pet-wallet/pkg/web"
)

const (
	// AuthHeaderKey is the request header carrying the access token.
	AuthHeaderKey = "authorization"
	// AuthTypeBearer is the only supported authorization type.
	AuthTypeBearer = "bearer"
	// AuthPayloadKey is the gin context key of the verified *tokenpkg.Payload.
	AuthPayloadKey = "authorization_payload"
	// AccessTokenCookie is the cookie set on sign in for page requests and
	// event streams that cannot send headers.
	AccessTokenCookie = "access_token"
)

var (
	// ErrAuthHeaderNotFound indicates that neither the header nor the cookie is set.
	ErrAuthHeaderNotFound = errors.New("authorization header is not provided")
	// ErrBadAuthHeaderFormat indicates a header that is not "<type> <token>".
	ErrBadAuthHeaderFormat = errors.New("invalid authorization header format")
	// ErrUnsupportedAuthType indicates a type other than bearer.
	ErrUnsupportedAuthType = errors.New("unsupported authorization type")
)

// AddAuthorization creates a token for the user and sets it as authorization header of r.
func AddAuthorization(
	r *http.Request,
	tokenMaker tokenpkg.Maker,
	authType string,
	userID, email string,
	duration time.Duration,
) error {
	token, _, err := tokenMaker.CreateToken(userID, email, duration)
	if err != nil {
		return err
	}

	r.Header.Set(AuthHeaderKey, strings.TrimSpace(fmt.Sprintf("%s %s", authType, token)))

	return nil
}

// accessToken extracts the access token from the authorization header or,
// when no header is sent, from the access token cookie.
func accessToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader(AuthHeaderKey)
	if authHeader == "" {
		if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
			return cookie, nil
		}

		return "", ErrAuthHeaderNotFound
	}

	fields := strings.Fields(authHeader)
	if len(fields) < 2 {
		return "", ErrBadAuthHeaderFormat
	}

	if strings.ToLower(fields[0]) != AuthTypeBearer {
		return "", ErrUnsupportedAuthType
	}

	return fields[1], nil
}

// AuthMiddleware aborts requests without a valid access token.
func AuthMiddleware(tokenMaker tokenpkg.Maker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := accessToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		payload, err := tokenMaker.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		c.Set(AuthPayloadKey, payload)
		c.Next()
	}
}

// OptionalAuth stores the payload of a valid access token but lets every
// request through. Routes behind it check Authenticated.
func OptionalAuth(tokenMaker tokenpkg.Maker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := accessToken(c); err == nil {
			if payload, err := tokenMaker.VerifyToken(token); err == nil {
				c.Set(AuthPayloadKey, payload)
			}
		}

		c.Next()
	}
}

// Payload returns the verified token payload of the request.
func Payload(c *gin.Context) (*tokenpkg.Payload, bool) {
	v, ok := c.Get(AuthPayloadKey)
	if !ok {
		return nil, false
	}

	payload, ok := v.(*tokenpkg.Payload)

	return payload, ok
}

// Authenticated reports whether the request carries a valid access token.
func Authenticated(c *gin.Context) bool {
	_, ok := Payload(c)
	return ok
}

// Identity returns the identity behind the access token. It must only be
// used behind AuthMiddleware.
func Identity(c *gin.Context) domain.Identity {
	payload := c.MustGet(AuthPayloadKey).(*tokenpkg.Payload)
	return domain.Identity{ID: payload.UserID, Email: payload.Email}
}
