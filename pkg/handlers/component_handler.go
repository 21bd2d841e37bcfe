package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/services"
)

// ComponentHandler trains and queries the per-part component price models.
type ComponentHandler struct {
	store  *services.ComponentModelStore
	logger *zap.Logger
}

// NewComponentHandler creates a ComponentHandler.
func NewComponentHandler(store *services.ComponentModelStore, logger *zap.Logger) *ComponentHandler {
	return &ComponentHandler{store: store, logger: logger}
}

// Train fits one model per part from an uploaded purchase history and persists them.
func (h *ComponentHandler) Train(c *gin.Context) {
	name, file, err := openUpload(c, "file")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer file.Close()

	purchases, err := services.LoadComponentPurchases(name, file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	trained := services.TrainComponentModels(purchases)
	if _, err := h.store.Save(trained); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Info("component models trained",
		zap.String("file", name),
		zap.Int("purchases", len(purchases)),
		zap.Int("models", len(trained)),
	)
	respondOK(c, gin.H{"models": trained})
}

// Forecast predicts next month's unit price for a part.
func (h *ComponentHandler) Forecast(c *gin.Context) {
	forecast, err := h.store.PredictNextMonth(c.Param("part"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, forecast)
}
