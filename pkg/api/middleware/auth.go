package middleware

import (
	"net/http"

	"github.com/GreedyKomodoDragon/Kontroler/internal/auth"
	"github.com/GreedyKomodoDragon/Kontroler/internal/client"
	"github.com/gin-gonic/gin"
)

const authStateKey = "auth_state"

// RequireAuth returns a middleware that resolves the backend session cookie
// into an auth.AuthState. Requests without a valid session are rejected;
// accepted requests carry the token in their context so backend calls made
// while serving them act as the same user.
func RequireAuth(checker auth.Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(client.CookieName)

		state, err := checker.Check(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			AbortWithError(c, http.StatusBadGateway, "AUTH_UNAVAILABLE", "Unable to verify your session, please try again.")
			return
		}
		if !state.IsAuthenticated() {
			AbortWithError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required. Please log in.")
			return
		}

		c.Set(authStateKey, state)
		c.Set("username", state.Username())
		c.Set("role", state.Role())
		c.Request = c.Request.WithContext(client.WithToken(c.Request.Context(), token))

		c.Next()
	}
}

// RequireRole returns a middleware that checks the caller holds one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.HasRole(GetAuthState(c), roles...) {
			AbortWithErrorDetails(c, http.StatusForbidden, "INSUFFICIENT_PERMISSIONS",
				"You do not have permission to perform this action.",
				map[string]interface{}{"required_roles": roles})
			return
		}

		c.Next()
	}
}

// GetAuthState returns the caller's state, or auth.Anonymous outside
// RequireAuth.
func GetAuthState(c *gin.Context) auth.AuthState {
	if v, ok := c.Get(authStateKey); ok {
		if state, ok := v.(auth.AuthState); ok {
			return state
		}
	}
	return auth.Anonymous
}
