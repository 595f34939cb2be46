package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ococalli/pkg/utils"
)

// Authenticator validates a bearer token, revocation included.
type Authenticator interface {
	Authenticate(token string) (*utils.Claims, error)
}

// AdminGate is the allow-list check run on every admin request.
type AdminGate interface {
	IsAdmin(email string) bool
	LoginPath() string
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

func setClaims(c *gin.Context, claims *utils.Claims) {
	c.Set(utils.CtxUserID, claims.UserID)
	c.Set(utils.CtxRole, claims.Role)
	c.Set(utils.CtxEmail, claims.Email)
	c.Set(utils.CtxTokenID, claims.ID)
	c.Set("claims", claims)
}

// ClaimsFrom returns the claims stored by the auth middleware.
func ClaimsFrom(c *gin.Context) (*utils.Claims, bool) {
	v, ok := c.Get("claims")
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}

func JWTAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		claims, err := auth.Authenticate(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func RoleMiddleware(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(utils.CtxRole)

		if role != requiredRole {
			utils.RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly authenticates the request and re-checks the allow-list on every
// call. Anything short of a valid admin session is sent to the login page.
func AdminOnly(auth Authenticator, gate AdminGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			denyToLogin(c, gate.LoginPath(), "Sign in required")
			return
		}

		claims, err := auth.Authenticate(tokenString)
		if err != nil {
			denyToLogin(c, gate.LoginPath(), "Session expired or invalid")
			return
		}
		if claims.Role != utils.RoleAdmin || !gate.IsAdmin(claims.Email) {
			denyToLogin(c, gate.LoginPath(), "Administrator access required")
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// denyToLogin redirects browsers and gives API clients a 401 envelope that
// names the login path.
func denyToLogin(c *gin.Context, loginPath, message string) {
	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusFound, loginPath)
		c.Abort()
		return
	}
	utils.RespondRedirect(c, message, loginPath)
}
