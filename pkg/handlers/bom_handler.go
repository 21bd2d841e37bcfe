package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/services"
)

// BOMHandler uploads and reads the bill-of-materials dataset.
type BOMHandler struct {
	repo   services.BOMRepository
	logger *zap.Logger
}

// NewBOMHandler creates a BOMHandler.
func NewBOMHandler(repo services.BOMRepository, logger *zap.Logger) *BOMHandler {
	return &BOMHandler{repo: repo, logger: logger}
}

// Upload replaces the whole BOM dataset with the uploaded file.
func (h *BOMHandler) Upload(c *gin.Context) {
	name, file, err := openUpload(c, "file")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer file.Close()

	items, err := services.LoadBOM(name, file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	grouped := services.GroupBOM(items)
	snapshot := h.repo.ReplaceAll(grouped)
	h.logger.Info("bom replaced",
		zap.String("file", name),
		zap.String("snapshot_id", snapshot),
		zap.Int("products", len(grouped)),
		zap.Int("items", len(items)),
	)

	respondOK(c, gin.H{
		"snapshot_id":   snapshot,
		"product_codes": h.repo.ListCodes(),
		"items":         len(items),
	})
}

// ListProducts returns the product codes of the current dataset.
func (h *BOMHandler) ListProducts(c *gin.Context) {
	respondOK(c, gin.H{
		"snapshot_id":   h.repo.Snapshot(),
		"product_codes": h.repo.ListCodes(),
	})
}

// GetProduct returns one product's items.
func (h *BOMHandler) GetProduct(c *gin.Context) {
	code := c.Param("code")
	items, ok := h.repo.Get(code)
	if !ok {
		respondError(c, h.logger, fmt.Errorf("%w: product %s is not in the current BOM", services.ErrMissingReference, code))
		return
	}
	respondOK(c, gin.H{
		"snapshot_id":  h.repo.Snapshot(),
		"product_code": code,
		"items":        items,
	})
}
