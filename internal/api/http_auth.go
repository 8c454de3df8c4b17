package api

import (
	"context"
	"net/http"
	"time"

	"tourism/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

// requestTimeout bounds the store work a single request may do.
const requestTimeout = 5 * time.Second

func (h *HTTPHandler) Register(c *gin.Context) {
	var req dto.AuthRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	summary, err := h.accountService.Register(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

// Login 校验凭据并签发令牌，同时写入页面守卫使用的会话 cookie
func (h *HTTPHandler) Login(c *gin.Context) {
	var req dto.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.accountService.Login(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	setSessionCookies(c, resp)
	c.JSON(http.StatusOK, resp)
}

// Logout only clears the session cookies. Issued tokens stay valid until expiry.
func (h *HTTPHandler) Logout(c *gin.Context) {
	clearSessionCookies(c)
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) Me(c *gin.Context) {
	identity := CurrentIdentity(c)
	if identity == nil {
		Unauthenticated(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	summary, err := h.accountService.GetProfile(ctx, identity.AccountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *HTTPHandler) UpdateMe(c *gin.Context) {
	identity := CurrentIdentity(c)
	if identity == nil {
		Unauthenticated(c)
		return
	}

	var req dto.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	summary, err := h.accountService.UpdateProfile(ctx, identity.AccountID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
