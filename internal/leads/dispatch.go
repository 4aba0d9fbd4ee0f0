package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"quote-service/internal/quote"
	"quote-service/pkg/config"
	"quote-service/pkg/logger"
	"quote-service/prometheus"

	"go.uber.org/zap"
)

// Delivery channels reported by Deliver.
const (
	ChannelPrimary  = "primary"
	ChannelFallback = "fallback"
	ChannelNone     = "none"
)

// ErrNoChannel is returned when no delivery endpoint is configured.
var ErrNoChannel = errors.New("no lead delivery channel configured")

// Dispatcher sends captured leads to the primary endpoint, falling back
// to the secondary one. Delivery failure is an operator concern only;
// callers never surface it to the end user.
type Dispatcher struct {
	primaryURL  string
	fallbackURL string
	fallbackKey string
	notifyEmail string
	client      *http.Client
}

// NewDispatcher builds a dispatcher from lead delivery configuration.
func NewDispatcher(cfg *config.LeadConfig) *Dispatcher {
	return &Dispatcher{
		primaryURL:  cfg.PrimaryURL,
		fallbackURL: cfg.FallbackURL,
		fallbackKey: cfg.FallbackKey,
		notifyEmail: cfg.NotifyEmail,
		client:      &http.Client{Timeout: cfg.SendTimeout},
	}
}

// Deliver attempts the primary channel, then the fallback. It returns
// the channel that accepted the payload, or ChannelNone with the last
// error when every channel failed.
func (d *Dispatcher) Deliver(ctx context.Context, subject, message string, lead quote.LeadInfo) (string, error) {
	log := logger.GetLogger()

	if d.primaryURL == "" && d.fallbackURL == "" {
		prometheus.RecordLeadDelivery(ChannelNone, "skipped")
		return ChannelNone, ErrNoChannel
	}

	if d.primaryURL != "" {
		if err := d.sendForm(ctx, subject, message, lead); err == nil {
			prometheus.RecordLeadDelivery(ChannelPrimary, "ok")
			return ChannelPrimary, nil
		} else {
			log.Warn("Primary lead delivery failed, trying fallback",
				zap.String("mobile", lead.Mobile),
				zap.Error(err))
			prometheus.RecordLeadDelivery(ChannelPrimary, "error")
		}
	}

	if d.fallbackURL != "" {
		if err := d.sendJSON(ctx, subject, message, lead); err == nil {
			prometheus.RecordLeadDelivery(ChannelFallback, "ok")
			return ChannelFallback, nil
		} else {
			log.Error("Fallback lead delivery failed",
				zap.String("mobile", lead.Mobile),
				zap.Error(err))
			prometheus.RecordLeadDelivery(ChannelFallback, "error")
			return ChannelNone, err
		}
	}

	return ChannelNone, fmt.Errorf("primary delivery failed and no fallback configured")
}

// sendForm posts the classic form-relay payload to the primary channel.
func (d *Dispatcher) sendForm(ctx context.Context, subject, message string, lead quote.LeadInfo) error {
	form := url.Values{}
	form.Set("_subject", subject)
	form.Set("message", message)
	form.Set("Name", lead.Name)
	form.Set("City", lead.City)
	form.Set("Mobile", lead.Mobile)
	if lead.Email != "" {
		form.Set("Email", lead.Email)
	}
	if d.notifyEmail != "" {
		form.Set("_to", d.notifyEmail)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.primaryURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return d.do(req)
}

// sendJSON posts the JSON payload expected by the fallback form API.
func (d *Dispatcher) sendJSON(ctx context.Context, subject, message string, lead quote.LeadInfo) error {
	payload := map[string]string{
		"access_key": d.fallbackKey,
		"subject":    subject,
		"message":    message,
		"name":       lead.Name,
		"city":       lead.City,
		"mobile":     lead.Mobile,
	}
	if lead.Email != "" {
		payload["email"] = lead.Email
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.fallbackURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return d.do(req)
}

func (d *Dispatcher) do(req *http.Request) error {
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("delivery endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
