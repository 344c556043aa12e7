package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"luxeory/internal/infra/security"
)

// AuthHandler issues and clears the signed-token cookie. The posted identity
// is taken at face value; ownership is only ever a lookup key here.
type AuthHandler struct {
	Tokens     security.TokenIssuer
	Production bool
	Logger     *slog.Logger
}

type issueTokenRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
}

func (h AuthHandler) IssueToken(c *gin.Context) {
	var req issueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": kindValidation})
		return
	}
	token, err := h.Tokens.Issue(req.Email, req.Name, time.Now().UTC())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	h.setTokenCookie(c, token, int(h.Tokens.TTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h AuthHandler) Logout(c *gin.Context) {
	h.setTokenCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Cookie attributes follow the environment: production serves the SPA from
// another origin, so the cookie must be Secure and SameSite=None; elsewhere
// Strict suffices and Secure would break plain-HTTP development.
func (h AuthHandler) setTokenCookie(c *gin.Context, value string, maxAge int) {
	if h.Production {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteStrictMode)
	}
	c.SetCookie(tokenCookieName, value, maxAge, "/", "", h.Production, true)
}

var _ AuthHTTP = AuthHandler{}
