package middleware

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Auth is the single-admin login. The password is only kept as a bcrypt hash;
// logged out tokens are remembered until they would have expired anyway.
type Auth struct {
	username string
	hash     []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewAuth(username, password string, secret []byte, ttl time.Duration) (*Auth, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Auth{
		username: username,
		hash:     hash,
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
		revoked:  make(map[string]time.Time),
	}, nil
}

// Login checks the credentials and returns a signed token and its expiry.
func (a *Auth) Login(username, password string) (string, time.Time, error) {
	if username != a.username || bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := a.now()
	expires := now.Add(a.ttl)
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Logout revokes the token. Unparseable tokens are ignored.
func (a *Auth) Logout(tokenStr string) {
	claims, err := a.parse(tokenStr)
	if err != nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	for id, exp := range a.revoked {
		if now.After(exp) {
			delete(a.revoked, id)
		}
	}
	expires := now.Add(a.ttl)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	a.revoked[claims.ID] = expires
}

func (a *Auth) parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

func (a *Auth) isRevoked(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.revoked[id]
	return ok
}

// AdminRequired validates the bearer token and stores the admin name in the
// context.
func (a *Auth) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := BearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		claims, err := a.parse(tokenStr)
		if err != nil || a.isRevoked(claims.ID) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		c.Set("admin", claims.Username)
		c.Next()
	}
}

func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// GetAdmin returns the logged in admin, or "admin" outside AdminRequired.
func GetAdmin(c *gin.Context) string {
	if v := c.GetString("admin"); v != "" {
		return v
	}
	return "admin"
}
