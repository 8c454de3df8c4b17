package api

import (
	"context"
	"net/http"

	"tourism/internal/auth"
	"tourism/internal/entity/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// accountPolicy is the policy an actor must satisfy to patch an account
// holding target. Role changes and administrative accounts belong to the
// superadmin.
func accountPolicy(target auth.Role, changesRole bool) auth.Policy {
	if changesRole || target.AtLeast(auth.RoleAdmin) {
		return auth.AtLeast(auth.RoleSuperAdmin)
	}
	return auth.AtLeast(auth.RoleAdmin)
}

func (h *HTTPHandler) ListAccounts(c *gin.Context) {
	var query dto.AccountQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.accountService.ListAccounts(ctx, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateAccount 管理员更新账户；修改角色或管理员账户需要超级管理员
func (h *HTTPHandler) UpdateAccount(c *gin.Context) {
	var req dto.AccountUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	identity := CurrentIdentity(c)
	target, err := h.accountService.AccountRole(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.guard.Permit(identity, accountPolicy(target, req.Role != nil)); err != nil {
		h.metrics.ObserveGuardDecision("forbidden")
		respondError(c, err)
		return
	}

	summary, err := h.accountService.UpdateAccountByID(ctx, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	fields := logrus.Fields{"account_id": summary.ID}
	if identity != nil {
		fields["actor_id"] = identity.AccountID
	}
	logrus.WithFields(fields).Info("account updated by administrator")
	c.JSON(http.StatusOK, summary)
}

func (h *HTTPHandler) DeleteAccount(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.accountService.DeleteAccountByID(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) AccountStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	stats, err := h.accountService.GetStats(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
