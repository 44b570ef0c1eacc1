package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const subjectContextKey = "subject"

type subjectKey struct{}

// AuthMiddleware validates HS256 bearer tokens and puts the token subject into
// both the gin context and the request context. An empty secret disables
// authentication, which is how local development runs.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if secret == "" {
			ctx.Next()
			return
		}

		token := ctx.GetHeader("Authorization")
		if token == "" {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			ctx.Abort()
			return
		}

		// Remove "Bearer " prefix if present
		token = strings.TrimPrefix(token, "Bearer ")

		subject, err := ParseSubject(token, secret)
		if err != nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			ctx.Abort()
			return
		}

		ctx.Set(subjectContextKey, subject)
		ctx.Request = ctx.Request.WithContext(ContextWithSubject(ctx.Request.Context(), subject))
		ctx.Next()
	}
}

func ParseSubject(tokenString, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", errors.New("token is not valid")
	}

	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}

	return claims.Subject, nil
}

// GenerateToken signs a token for subject, used by tests and operator tooling.
func GenerateToken(subject, secret string, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = subject

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ContextWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey{}).(string)
	return subject, ok && subject != ""
}

// GetSubjectFromContext helper function to extract the subject from gin context
func GetSubjectFromContext(ctx *gin.Context) (string, bool) {
	value, exists := ctx.Get(subjectContextKey)
	if !exists {
		return "", false
	}

	subject, ok := value.(string)

	return subject, ok
}
