package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/sejour/internal/auth"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

type OwnerLookup interface {
	GetOwnerID(ctx context.Context, propertyID int64) (int64, error)
}

// Guards are the per-route access checks handlers attach when registering.
type Guards struct {
	LoggedIn      gin.HandlerFunc
	CorrectUser   gin.HandlerFunc
	PropertyOwner gin.HandlerFunc
}

func NewGuards(owners OwnerLookup) Guards {
	return Guards{
		LoggedIn:      EnsureLoggedIn(),
		CorrectUser:   EnsureCorrectUser(),
		PropertyOwner: EnsurePropertyOwner(owners),
	}
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("http: %s %s %d %s %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}

// Authenticate stores the caller's claims when a valid bearer token is
// present. Missing or invalid tokens leave the request anonymous.
func Authenticate(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if ok && raw != "" {
			if claims, err := tokens.Parse(strings.TrimSpace(raw)); err == nil {
				c.Set(claimsKey, claims)
			}
		}
		c.Next()
	}
}

func callerClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func callerID(c *gin.Context) int64 {
	if claims, ok := callerClaims(c); ok {
		return claims.UserID
	}
	return 0
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

func EnsureLoggedIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := callerClaims(c); !ok {
			unauthorized(c)
			return
		}
		c.Next()
	}
}

// EnsureCorrectUser only lets a caller act on the user named by :id.
func EnsureCorrectUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := callerClaims(c)
		if !ok {
			unauthorized(c)
			return
		}
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id != claims.UserID {
			unauthorized(c)
			return
		}
		c.Next()
	}
}

// EnsurePropertyOwner only lets the owner of the property :id through.
// A missing property is reported as such rather than as a denial.
func EnsurePropertyOwner(owners OwnerLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := callerClaims(c)
		if !ok {
			unauthorized(c)
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		ownerID, err := owners.GetOwnerID(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		if ownerID != claims.UserID {
			unauthorized(c)
			return
		}
		c.Next()
	}
}
