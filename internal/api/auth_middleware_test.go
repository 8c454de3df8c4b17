package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tourism/internal/auth"
	"tourism/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardOnlyHandler(t *testing.T) (*HTTPHandler, *auth.Manager) {
	t.Helper()
	manager, err := auth.NewManager("middleware-secret", "tourism", time.Hour)
	require.NoError(t, err)
	return &HTTPHandler{
		authManager: manager,
		guard:       auth.NewGuard(manager),
		metrics:     observability.NewMetrics(nil),
	}, manager
}

func TestRequireRoleAttachesIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, manager := newGuardOnlyHandler(t)

	var fromGin, fromCtx *auth.Identity
	router := gin.New()
	router.GET("/admin", h.RequireRole(auth.AtLeast(auth.RoleAdmin)), func(c *gin.Context) {
		fromGin = CurrentIdentity(c)
		fromCtx, _ = auth.IdentityFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name     string
		role     auth.Role
		header   string
		wantCode int
	}{
		{name: "missing header", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic Zm9vOmJhcg==", wantCode: http.StatusUnauthorized},
		{name: "user", role: auth.RoleUser, wantCode: http.StatusForbidden},
		{name: "admin", role: auth.RoleAdmin, wantCode: http.StatusOK},
		{name: "superadmin", role: auth.RoleSuperAdmin, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fromGin, fromCtx = nil, nil
			header := tt.header
			if tt.role != "" {
				token, _, err := manager.Issue("acc-"+string(tt.role), tt.role, 0)
				require.NoError(t, err)
				header = "Bearer " + token
			}

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusOK {
				assert.Nil(t, fromGin, "handler must not run")
				return
			}
			require.NotNil(t, fromGin)
			require.NotNil(t, fromCtx)
			assert.Equal(t, tt.role, fromGin.Role)
			assert.Equal(t, fromGin, fromCtx)
		})
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.GuardDecisionsTotal.WithLabelValues("allowed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.GuardDecisionsTotal.WithLabelValues("unauthenticated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.GuardDecisionsTotal.WithLabelValues("forbidden")))
}

func TestCurrentIdentityWithoutGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentIdentity(c))

	c.Set(currentIdentityContextKey, "not an identity")
	assert.Nil(t, CurrentIdentity(c))
}
