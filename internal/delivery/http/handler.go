package http

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/labelwise/backend/internal/domain"
	"github.com/labelwise/backend/internal/infrastructure/gemini"
	"github.com/labelwise/backend/internal/usecase"
	"go.uber.org/zap"
)

// Version is reported by the health check
var Version = "1.0.0"

// Handler holds dependencies for the workspace HTTP handlers
type Handler struct {
	workspace *usecase.Workspace
	analysis  *usecase.AnalysisService
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(workspace *usecase.Workspace, analysis *usecase.AnalysisService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		workspace: workspace,
		analysis:  analysis,
		logger:    logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":  "healthy",
		"service": "labelwise-backend",
		"version": Version,
	}
	if h.analysis != nil {
		response["mode"] = h.analysis.Mode()
	}
	c.JSON(http.StatusOK, response)
}

// GetMe returns the signed-in user
func (h *Handler) GetMe(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		respondError(c, domain.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListProducts returns the user's working set
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.workspace.Products(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":    products,
		"maxProducts": h.workspace.MaxProducts(),
	})
}

// AddProduct scans a label image into the working set
func (h *Handler) AddProduct(c *gin.Context) {
	var req domain.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	ctx := usecase.WithAccessToken(c.Request.Context(), c.GetString(accessTokenKey))
	product, err := h.workspace.AddProduct(ctx, currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProductImage serves the stored label image
func (h *Handler) GetProductImage(c *gin.Context) {
	image, err := h.workspace.Image(currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := base64.StdEncoding.DecodeString(gemini.StripDataURI(image))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Stored image is not valid base64"})
		return
	}

	c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
}

// RemoveProduct deletes one product
func (h *Handler) RemoveProduct(c *gin.Context) {
	if err := h.workspace.RemoveProduct(currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearProducts empties the working set
func (h *Handler) ClearProducts(c *gin.Context) {
	if err := h.workspace.Clear(currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CompareProducts ranks the products in the working set
func (h *Handler) CompareProducts(c *gin.Context) {
	result, err := h.workspace.Compare(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetComparison returns the last comparison
func (h *Handler) GetComparison(c *gin.Context) {
	result, err := h.workspace.LastComparison(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrComparisonNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrWorkspaceFull), errors.Is(err, domain.ErrInsufficientProducts):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)

	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
