package handler

import (
	"errors"
	"net/http"

	"quote-service/internal/catalog"
	"quote-service/internal/cutting"
	"quote-service/internal/measure"
	"quote-service/internal/pricing"
	"quote-service/internal/quote"
	"quote-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// QuoteRequest defines one pricing pass over a product.
type QuoteRequest struct {
	SessionID string `json:"session_id,omitempty"`
	ProductID string `json:"product_id"`

	Width      measure.Dimension  `json:"width"`
	Height     measure.Dimension  `json:"height"`
	WidthRight *measure.Dimension `json:"width_right,omitempty"`
	Geometry   string             `json:"geometry,omitempty"`
	Quantity   int                `json:"quantity"`

	Selection pricing.Selection `json:"selection"`
}

// QuoteResponse carries the displayable outcome. The true cost appears
// only once the session has a captured lead; before that only the
// widened range is revealed.
type QuoteResponse struct {
	SessionID string              `json:"session_id"`
	ProductID string              `json:"product_id"`
	Area      float64             `json:"area"`
	Units     int                 `json:"units"`
	Display   quote.Display       `json:"display"`
	Height    measure.HeightCheck `json:"height"`

	CuttingPlan *cutting.Plan          `json:"cuttingPlan,omitempty"`
	Wastage     *cutting.CostBreakdown `json:"wastage,omitempty"`
	Warnings    []string               `json:"warnings,omitempty"`
}

// QuoteHandler prices products for the estimation widget.
type QuoteHandler struct {
	store    *catalog.Store
	sessions *quote.Sessions
}

// NewQuoteHandler builds a quote handler.
func NewQuoteHandler(store *catalog.Store, sessions *quote.Sessions) *QuoteHandler {
	return &QuoteHandler{store: store, sessions: sessions}
}

// ComputeQuote handles one pricing pass
func (h *QuoteHandler) ComputeQuote(c echo.Context) error {
	log := logger.FromEcho(c)

	var req QuoteRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	sessionID := h.sessions.Ensure(req.SessionID)
	log.Info("Computing quote",
		zap.String("session_id", sessionID),
		zap.String("product_id", req.ProductID))

	product, err := h.store.Product(req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			log.Warn("Product not found", zap.String("product_id", req.ProductID))
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Product not found",
			})
		}
		log.Error("Failed to resolve product",
			zap.String("product_id", req.ProductID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to resolve product",
		})
	}
	if !product.Active {
		log.Warn("Product is inactive", zap.String("product_id", req.ProductID))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Product not found",
		})
	}

	widthFt := req.Width.Feet()
	heightFt := req.Height.Feet()

	// L-corner geometry sums both entered widths before pricing.
	if req.Geometry == "l-corner" && req.WidthRight != nil && product.HasFeature("lCornerSupport") {
		widthFt += req.WidthRight.Feet()
	}

	check := h.checkHeight(product, heightFt, req.Selection)
	if check.Status == measure.HeightExceeded {
		log.Warn("Height exceeds product maximum",
			zap.String("product_id", req.ProductID),
			zap.Float64("height_ft", heightFt),
			zap.Float64("max_ft", product.MaxHeight))
		return c.JSON(http.StatusOK, QuoteResponse{
			SessionID: sessionID,
			ProductID: req.ProductID,
			Height:    check,
			Display:   quote.Display{Mode: quote.ModeRange},
		})
	}

	var area float64
	if widthFt > 0 && heightFt > 0 {
		area = widthFt * heightFt
	}

	result, err := pricing.Evaluate(product, pricing.Input{
		Area:      area,
		WidthFt:   widthFt,
		HeightFt:  heightFt,
		Quantity:  req.Quantity,
		Selection: req.Selection,
	})
	if err != nil {
		log.Error("Pricing failed",
			zap.String("product_id", req.ProductID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to compute quote",
		})
	}

	low, high := quote.RangeFor(result.Total, product.Variance)
	h.sessions.RecordQuote(sessionID, quote.LastQuote{
		ProductID: req.ProductID,
		Total:     result.Total,
		Low:       low,
		High:      high,
	})
	display := h.sessions.Presented(sessionID, result.Total, product.Variance)

	log.Info("Quote computed",
		zap.String("session_id", sessionID),
		zap.String("product_id", req.ProductID),
		zap.String("archetype", product.Archetype),
		zap.Float64("area", result.Area),
		zap.Int("units", result.Units),
		zap.String("mode", display.Mode))

	return c.JSON(http.StatusOK, QuoteResponse{
		SessionID:   sessionID,
		ProductID:   req.ProductID,
		Area:        result.Area,
		Units:       result.Units,
		Display:     display,
		Height:      check,
		CuttingPlan: result.Plan,
		Wastage:     result.Wastage,
		Warnings:    result.Warnings,
	})
}

// checkHeight applies the product's height bounds. A fluted tint with
// its own ceiling tightens the maximum.
func (h *QuoteHandler) checkHeight(p *catalog.Product, heightFt float64, sel pricing.Selection) measure.HeightCheck {
	if !p.HasFeature("heightValidation") && len(p.FlutedMaxHeights) == 0 {
		return measure.HeightCheck{Status: measure.HeightOK}
	}
	max := p.MaxHeight
	if sel.Fluted && sel.FlutedTint != "" {
		if ceiling, ok := p.FlutedMaxHeights[sel.FlutedTint]; ok && (max == 0 || ceiling < max) {
			max = ceiling
		}
	}
	return measure.CheckHeight(heightFt, p.StandardHeight, max)
}
