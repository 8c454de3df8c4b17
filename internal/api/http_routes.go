package api

import (
	"net/http"

	"tourism/internal/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the JSON API on r. Every protected route declares its
// policy here and nowhere else.
func (h *HTTPHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/me", h.RequireRole(auth.AtLeast(auth.RoleUser)), h.Me)
	authGroup.PATCH("/me", h.RequireRole(auth.AtLeast(auth.RoleUser)), h.UpdateMe)

	admin := apiGroup.Group("/admin")
	admin.Use(h.RequireRole(auth.AtLeast(auth.RoleAdmin)))
	admin.GET("/accounts", h.ListAccounts)
	admin.PATCH("/accounts/:id", h.UpdateAccount)
	admin.DELETE("/accounts/:id", h.RequireRole(auth.AtLeast(auth.RoleSuperAdmin)), h.DeleteAccount)
	admin.GET("/stats", h.AccountStats)

	listings := apiGroup.Group("/listings")
	listings.GET("", h.ListListings)
	listings.GET("/:id", h.GetListing)

	listingAdmin := listings.Group("")
	listingAdmin.Use(h.RequireRole(auth.AtLeast(auth.RoleAdmin)))
	listingAdmin.POST("", h.CreateListing)
	listingAdmin.PATCH("/:id", h.UpdateListing)
	listingAdmin.DELETE("/:id", h.DeleteListing)
	listingAdmin.POST("/:id/image", h.UploadListingImage)
}
