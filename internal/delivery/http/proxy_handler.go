package http

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labelwise/backend/internal/domain"
	"github.com/labelwise/backend/internal/infrastructure/gemini"
	"github.com/labelwise/backend/internal/usecase"
	"go.uber.org/zap"
)

// ProxyHandler serves the analysis proxy endpoint. It holds the provider
// credential so clients never see it.
type ProxyHandler struct {
	generator domain.VisionClient
	identity  domain.IdentityProvider
	cache     domain.CacheRepository
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewProxyHandler creates the proxy handler. generator is nil when no
// server-side credential is configured; identity and cache are optional.
func NewProxyHandler(
	generator domain.VisionClient,
	identity domain.IdentityProvider,
	cache domain.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ProxyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProxyHandler{
		generator: generator,
		identity:  identity,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger.Named("proxy"),
	}
}

// Analyze runs the fixed analysis prompt against the posted label image
func (h *ProxyHandler) Analyze(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

	switch c.Request.Method {
	case http.MethodOptions:
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Status(http.StatusOK)
		return
	case http.MethodPost:
	default:
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.JSON(http.StatusMethodNotAllowed, domain.ProxyResponse{Error: "Method not allowed"})
		return
	}

	if token := bearerToken(c.GetHeader("Authorization")); token != "" {
		h.logCaller(c, token)
	}

	var req domain.ProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ProxyResponse{Error: "Invalid request body", Message: err.Error()})
		return
	}

	if req.ImageData == "" {
		c.JSON(http.StatusBadRequest, domain.ProxyResponse{Error: "Image data is required"})
		return
	}

	if h.generator == nil {
		c.JSON(http.StatusInternalServerError, domain.ProxyResponse{Error: domain.ErrMissingCredential.Error()})
		return
	}

	cacheKey := analysisCacheKey(req)
	if text, ok := h.cachedAnalysis(c, cacheKey); ok {
		c.JSON(http.StatusOK, domain.ProxyResponse{Analysis: text})
		return
	}

	text, err := h.generator.Generate(c.Request.Context(), usecase.AnalysisPrompt(req.ProductName), req.ImageData)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			c.JSON(http.StatusInternalServerError, domain.ProxyResponse{Error: domain.ErrMissingCredential.Error()})
			return
		}
		h.logger.Error("error processing request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, domain.ProxyResponse{
			Error:   "Internal server error",
			Message: err.Error(),
		})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), cacheKey, text, h.cacheTTL); err != nil {
			h.logger.Warn("failed to cache analysis", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, domain.ProxyResponse{Analysis: text})
}

// logCaller introspects the token for the log only; failures never reject the request
func (h *ProxyHandler) logCaller(c *gin.Context, token string) {
	if h.identity == nil {
		return
	}

	info, err := h.identity.TokenInfo(c.Request.Context(), token)
	switch {
	case err != nil:
		h.logger.Warn("token validation failed", zap.Error(err))
	case info.Error != "":
		h.logger.Warn("token validation failed", zap.String("error", info.Error))
	default:
		h.logger.Info("authenticated request", zap.String("email", info.Email))
	}
}

func (h *ProxyHandler) cachedAnalysis(c *gin.Context, key string) (string, bool) {
	if h.cache == nil {
		return "", false
	}
	value, err := h.cache.Get(c.Request.Context(), key)
	if err != nil {
		return "", false
	}
	text, ok := value.(string)
	return text, ok && text != ""
}

// analysisCacheKey identifies a request by product name and image bytes.
// Format: "analysis:{sha256_hex}"
func analysisCacheKey(req domain.ProxyRequest) string {
	sum := sha256.New()
	sum.Write([]byte(req.ProductName))
	sum.Write([]byte{0})
	sum.Write([]byte(gemini.StripDataURI(req.ImageData)))
	return "analysis:" + hex.EncodeToString(sum.Sum(nil))
}
