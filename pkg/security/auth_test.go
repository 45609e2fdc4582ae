package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func testKeyfunc(t *jwt.Token) (interface{}, error) {
	return testSecret, nil
}

func signedToken(t *testing.T, claims SessionClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func doAuthRequest(t *testing.T, authHeader string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var gotUserID string
	router := gin.New()
	router.Use(AuthMiddleware(testKeyfunc, "helix-web"))
	router.GET("/probe", func(c *gin.Context) {
		gotUserID = c.GetString(ContextUserID)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, gotUserID
}

func TestMissingAuthorizationHeader(t *testing.T) {
	w, _ := doAuthRequest(t, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMalformedAuthorizationHeader(t *testing.T) {
	for _, h := range []string{"Token abc", "Bearer", "abc"} {
		w, _ := doAuthRequest(t, h)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", h, w.Code)
		}
	}
}

func TestExpiredToken(t *testing.T) {
	token := signedToken(t, SessionClaims{
		Azp: "helix-web",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	w, _ := doAuthRequest(t, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", w.Code)
	}
}

func TestWrongAudience(t *testing.T) {
	token := signedToken(t, SessionClaims{
		Azp: "other-app",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	w, _ := doAuthRequest(t, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong audience, got %d", w.Code)
	}
}

func TestValidTokenSetsUserID(t *testing.T) {
	token := signedToken(t, SessionClaims{
		Azp:   "helix-web",
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	w, userID := doAuthRequest(t, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if userID != "user-1" {
		t.Fatalf("expected userID user-1 in context, got %q", userID)
	}
}
