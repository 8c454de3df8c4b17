package api

import (
	"strings"

	"tourism/internal/auth"
	"tourism/internal/config"
	"tourism/internal/model"
	"tourism/internal/observability"
	"tourism/internal/service"
	"tourism/internal/storage"
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg               config.Config
	storagePublicBase string
	metrics           *observability.Metrics

	authManager *auth.Manager
	guard       *auth.Guard

	// 服务层
	accountService *service.AccountService
	listingService *service.ListingService
}

// NewHTTPHandler 创建 HTTP 处理器实例
//
// The token manager and password hasher are built once here from cfg and
// shared read-only by every request.
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage, metrics *observability.Metrics) (*HTTPHandler, error) {
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiration)
	if err != nil {
		return nil, err
	}
	hasher, err := auth.NewHasher(cfg.PasswordHashCost)
	if err != nil {
		return nil, err
	}

	publicBase := normalisePublicBase(cfg.StoragePublicBaseURL)
	return &HTTPHandler{
		cfg:               cfg,
		storagePublicBase: publicBase,
		metrics:           metrics,
		authManager:       authManager,
		guard:             auth.NewGuard(authManager),
		accountService:    service.NewAccountService(repo, hasher, authManager, metrics),
		listingService:    service.NewListingService(repo, store, publicBase, metrics),
	}, nil
}

// normalisePublicBase 规范化公共 URL 基础路径
func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}
