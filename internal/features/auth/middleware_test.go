package auth

import (
	"net/http"
	"testing"
	"time"

	test_utils "logkeeper/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func Test_AuthMiddleware_WithValidToken_ExposesSubject(t *testing.T) {
	router := createRouter(testSecret)
	token, err := GenerateToken("operator@example.com", testSecret, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	assert.NoError(t, err)

	var response map[string]string
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/whoami", "Bearer "+token, http.StatusOK, &response)

	assert.Equal(t, "operator@example.com", response["subject"])
	assert.Equal(t, "operator@example.com", response["requestSubject"])
}

func Test_AuthMiddleware_WithoutToken_ReturnsUnauthorized(t *testing.T) {
	router := createRouter(testSecret)

	resp := test_utils.MakeGetRequest(t, router, "/whoami", "", http.StatusUnauthorized)

	assert.Contains(t, string(resp.Body), "Authorization token required")
}

func Test_AuthMiddleware_WithInvalidTokens_ReturnsUnauthorized(t *testing.T) {
	router := createRouter(testSecret)

	wrongSecret, err := GenerateToken("operator", "other-secret", jwt.RegisteredClaims{})
	assert.NoError(t, err)

	expired, err := GenerateToken("operator", testSecret, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	assert.NoError(t, err)

	withoutSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).
		SignedString([]byte(testSecret))
	assert.NoError(t, err)

	for _, token := range []string{"garbage", wrongSecret, expired, withoutSubject} {
		test_utils.MakeGetRequest(t, router, "/whoami", "Bearer "+token, http.StatusUnauthorized)
	}
}

func Test_AuthMiddleware_WithEmptySecret_AllowsAnonymousRequests(t *testing.T) {
	router := createRouter("")

	var response map[string]string
	test_utils.MakeGetRequestAndUnmarshal(t, router, "/whoami", "", http.StatusOK, &response)

	assert.Equal(t, "", response["subject"])
}

func createRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/whoami", AuthMiddleware(secret), func(ctx *gin.Context) {
		subject, _ := GetSubjectFromContext(ctx)
		requestSubject, _ := SubjectFromContext(ctx.Request.Context())

		ctx.JSON(http.StatusOK, gin.H{"subject": subject, "requestSubject": requestSubject})
	})

	return router
}
