package middleware

import (
	"log"
	"net/http"
	"strings"

	"lemonspace/internal/auth"
	"lemonspace/internal/model"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey    = "userID"
	PrincipalKey = "principal"
)

// RequireSession mounts an auth gate for every request. Requests without a valid session get
// 401 and never reach the handler; a request whose client went away is aborted.
func RequireSession(accounts auth.AccountAPI, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		gate := auth.NewGate(auth.CheckFor(accounts, bearerToken(c.GetHeader("Authorization"))), logger)
		gate.Mount(c.Request.Context())
		defer gate.Unmount()

		select {
		case <-gate.Done():
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}

		state, principal := gate.State()
		if state != auth.GateAuthenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
			return
		}

		c.Set(PrincipalKey, principal)
		c.Set(UserIDKey, principal.ID)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentPrincipal returns the principal set by RequireSession.
func CurrentPrincipal(c *gin.Context) (*model.Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*model.Principal)
	return p, ok && p != nil
}
