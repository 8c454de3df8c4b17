package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"tourism/internal/entity/dto"
	"tourism/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) ListListings(c *gin.Context) {
	var query dto.ListingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	resp, err := h.listingService.ListListings(ctx, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HTTPHandler) GetListing(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	listing, err := h.listingService.GetListing(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *HTTPHandler) CreateListing(c *gin.Context) {
	var req dto.ListingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	createdBy := ""
	if identity := CurrentIdentity(c); identity != nil {
		createdBy = identity.AccountID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	listing, err := h.listingService.CreateListing(ctx, createdBy, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

func (h *HTTPHandler) UpdateListing(c *gin.Context) {
	var req dto.ListingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	listing, err := h.listingService.UpdateListing(ctx, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *HTTPHandler) DeleteListing(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.listingService.DeleteListing(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadListingImage 上传目录条目图片（multipart 字段 file）
func (h *HTTPHandler) UploadListingImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		MissingField(c, "file")
		return
	}
	if fileHeader.Size > service.MaxImageSize {
		BadRequest(c, ErrCodeInvalidRequest, "image file is too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		InvalidPayload(c)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxImageSize+1))
	if err != nil {
		InvalidPayload(c)
		return
	}

	// 上传到远端存储可能较慢
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	listing, err := h.listingService.UploadImage(ctx, c.Param("id"), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}
