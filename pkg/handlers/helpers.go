package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
	"github.com/dev-shahrooz/Smart-Pricing/pkg/services"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidHorizon):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInsufficientData), errors.Is(err, services.ErrDegenerateFit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrMissingReference), errors.Is(err, services.ErrModelNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// LimitBody caps request bodies at maxBytes.
func LimitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}

// openUpload returns the named multipart file. The caller closes the file.
func openUpload(c *gin.Context, field string) (string, multipart.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil, &services.ValidationError{Source: "upload", Field: field, Reason: fmt.Sprintf("file is required (%v)", err)}
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	return fh.Filename, f, nil
}

// hasUpload reports whether the multipart form carries a file under field.
func hasUpload(c *gin.Context, field string) bool {
	_, err := c.FormFile(field)
	return err == nil
}

// bindFormJSON decodes a JSON-valued multipart form field into v.
func bindFormJSON(c *gin.Context, field string, v interface{}) error {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return &services.ValidationError{Source: "form", Field: field, Reason: "is required"}
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &services.ValidationError{Source: "form", Field: field, Reason: fmt.Sprintf("is not valid JSON: %v", err)}
	}
	return nil
}

// formInt reads an optional integer form field.
func formInt(c *gin.Context, field string, def int) (int, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &services.ValidationError{Source: "form", Field: field, Reason: "must be an integer"}
	}
	return v, nil
}

// formFloat reads an optional float form field.
func formFloat(c *gin.Context, field string, def float64) (float64, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &services.ValidationError{Source: "form", Field: field, Reason: "must be a number"}
	}
	return v, nil
}

// RoundCurrency rounds a price to whole currency units for display.
func RoundCurrency(v float64) float64 {
	return decimal.NewFromFloat(v).Round(0).InexactFloat64()
}

// fitOptional runs the elasticity fit when sales are available. Insufficient or degenerate
// data means the data-driven price is unavailable, which is reported but not an error.
func fitOptional(
	logger *zap.Logger,
	productCode string,
	sales []models.SalesRecord,
	unitCost float64,
	policy services.Policy,
) (models.Option[models.ElasticityResult], string) {
	if len(sales) == 0 {
		return models.None[models.ElasticityResult](), ""
	}
	result, err := services.AnalyzeElasticity(sales, unitCost, policy.EstimateOptions(), policy.OptimizeOptions())
	if err != nil {
		logger.Warn("elasticity unavailable", zap.String("product_code", productCode), zap.Error(err))
		return models.None[models.ElasticityResult](), err.Error()
	}
	return models.Some(result), ""
}
