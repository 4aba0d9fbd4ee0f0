package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"quote-service/internal/catalog"
	"quote-service/internal/leads"
	"quote-service/internal/model"
	"quote-service/internal/quote"
	"quote-service/pkg/database"
	"quote-service/pkg/logger"
	"quote-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LeadRequest defines the lead capture form payload.
type LeadRequest struct {
	SessionID string `json:"session_id,omitempty"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	City      string `json:"city"`
	Mobile    string `json:"mobile"`
	Email     string `json:"email,omitempty"`
}

// LeadHandler captures enquiries and dispatches them to the sales
// channels.
type LeadHandler struct {
	store      *catalog.Store
	sessions   *quote.Sessions
	dispatcher *leads.Dispatcher
}

// NewLeadHandler builds a lead handler.
func NewLeadHandler(store *catalog.Store, sessions *quote.Sessions, dispatcher *leads.Dispatcher) *LeadHandler {
	return &LeadHandler{store: store, sessions: sessions, dispatcher: dispatcher}
}

// SubmitLead handles capturing a lead and unlocking exact pricing.
// Delivery happens in the background; its outcome never changes the
// response, so a flaky downstream cannot cost us the lead.
func (h *LeadHandler) SubmitLead(c echo.Context) error {
	log := logger.FromEcho(c)

	var req LeadRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		prometheus.RecordLeadSubmission("invalid")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	info := quote.LeadInfo{
		Name:   req.Name,
		City:   req.City,
		Mobile: req.Mobile,
		Email:  req.Email,
	}
	sessionID, err := h.sessions.CaptureLead(req.SessionID, info)
	if err != nil {
		log.Warn("Lead validation failed",
			zap.String("session_id", req.SessionID),
			zap.Error(err))
		prometheus.RecordLeadSubmission("invalid")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	if !h.sessions.BeginSubmission(sessionID) {
		log.Warn("Lead submission already in flight",
			zap.String("session_id", sessionID))
		prometheus.RecordLeadSubmission("duplicate")
		return c.JSON(http.StatusOK, echo.Map{
			"message":    "Lead received",
			"session_id": sessionID,
		})
	}

	last, _ := h.sessions.LastQuoteFor(sessionID, req.ProductID)
	productName := req.ProductID
	if product, perr := h.store.Product(req.ProductID); perr == nil {
		productName = product.Name
	}
	subject, body := leads.Summary(productName, info, last)

	record := &model.Lead{
		Name:      info.Name,
		City:      info.City,
		Mobile:    info.Mobile,
		Email:     info.Email,
		ProductID: req.ProductID,
		Summary:   body,
		QuoteLow:  last.Low,
		QuoteHigh: last.High,
	}
	if db := database.GetDB(); db != nil {
		if err := leads.Save(db, record); err != nil {
			log.Error("Failed to persist lead",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
	}

	go h.deliver(sessionID, subject, body, info, record)

	prometheus.RecordLeadSubmission("accepted")
	log.Info("Lead captured",
		zap.String("session_id", sessionID),
		zap.String("product_id", req.ProductID),
		zap.String("city", info.City))
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Lead received",
		"session_id": sessionID,
	})
}

// deliver runs off the request path. Failures are logged for the
// operator channel only.
func (h *LeadHandler) deliver(sessionID, subject, body string, info quote.LeadInfo, record *model.Lead) {
	log := logger.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	channel, err := h.dispatcher.Deliver(ctx, subject, body, info)
	if err != nil {
		log.Error("Lead delivery failed",
			zap.String("session_id", sessionID),
			zap.String("mobile", info.Mobile),
			zap.Error(err))
		return
	}

	log.Info("Lead delivered",
		zap.String("session_id", sessionID),
		zap.String("channel", channel))

	if db := database.GetDB(); db != nil && record.ID != 0 {
		record.Delivered = true
		record.DeliveredVia = channel
		if err := db.Model(record).Updates(map[string]interface{}{
			"delivered":     true,
			"delivered_via": channel,
		}).Error; err != nil {
			log.Error("Failed to mark lead delivered",
				zap.Uint("lead_id", record.ID),
				zap.Error(err))
		}
	}
}

// ListLeads handles retrieving recent leads for the back office
func (h *LeadHandler) ListLeads(c echo.Context) error {
	log := logger.FromEcho(c)

	limit := 100
	if raw := c.QueryParam("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		} else {
			log.Warn("Invalid limit parameter", zap.String("value", raw))
		}
	}

	db := database.GetDB()
	if db == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"error": "Lead storage is not configured",
		})
	}

	records, err := leads.List(db, limit)
	if err != nil {
		log.Error("Failed to list leads", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve leads",
		})
	}

	log.Info("Leads retrieved successfully", zap.Int("count", len(records)))
	return c.JSON(http.StatusOK, records)
}

// ExportLeads handles downloading the lead book as a spreadsheet
func (h *LeadHandler) ExportLeads(c echo.Context) error {
	log := logger.FromEcho(c)

	db := database.GetDB()
	if db == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"error": "Lead storage is not configured",
		})
	}

	records, err := leads.List(db, 0)
	if err != nil {
		log.Error("Failed to list leads for export", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve leads",
		})
	}

	f, err := leads.ExportXLSX(records)
	if err != nil {
		log.Error("Failed to build export", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to build export",
		})
	}

	filename := "leads-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)

	if err := f.Write(c.Response()); err != nil {
		log.Error("Failed to stream export", zap.Error(err))
		return err
	}

	log.Info("Lead book exported", zap.Int("count", len(records)))
	return nil
}
