package leads

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quote-service/internal/model"
	"quote-service/internal/quote"
	"quote-service/pkg/config"
)

func testLead() quote.LeadInfo {
	return quote.LeadInfo{Name: "Asha", City: "Pune", Mobile: "9876543210", Email: "asha@example.com"}
}

func TestSummary_ContainsContactAndQuote(t *testing.T) {
	subject, body := Summary("Sliding Window", testLead(), quote.LastQuote{
		ProductID: "sliding-window", Total: 39700, Low: 31760, High: 47640,
	})

	if !strings.Contains(subject, "Sliding Window") {
		t.Fatalf("subject %q is missing the product name", subject)
	}
	for _, want := range []string{"Asha", "Pune", "9876543210", "asha@example.com", "39700", "31760", "47640"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body is missing %q:\n%s", want, body)
		}
	}
}

func TestSummary_NoQuoteComputed(t *testing.T) {
	_, body := Summary("Sliding Window", testLead(), quote.LastQuote{})
	if !strings.Contains(body, "not computed") {
		t.Fatalf("body should note the missing quote:\n%s", body)
	}
}

func TestDeliver_PrimaryFormPayload(t *testing.T) {
	var gotSubject, gotName string
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotSubject = r.FormValue("_subject")
		gotName = r.FormValue("Name")
	}))
	defer primary.Close()

	d := NewDispatcher(&config.LeadConfig{
		PrimaryURL:  primary.URL,
		SendTimeout: time.Second,
	})

	channel, err := d.Deliver(context.Background(), "subject line", "body", testLead())
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if channel != ChannelPrimary {
		t.Fatalf("channel = %q, want %q", channel, ChannelPrimary)
	}
	if gotSubject != "subject line" || gotName != "Asha" {
		t.Fatalf("primary payload missing fields: subject=%q name=%q", gotSubject, gotName)
	}
}

func TestDeliver_FallsBackOnPrimaryFailure(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer primary.Close()

	fallbackHit := false
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallbackHit = true
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("fallback content type = %q", ct)
		}
	}))
	defer fallback.Close()

	d := NewDispatcher(&config.LeadConfig{
		PrimaryURL:  primary.URL,
		FallbackURL: fallback.URL,
		FallbackKey: "key",
		SendTimeout: time.Second,
	})

	channel, err := d.Deliver(context.Background(), "s", "m", testLead())
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if channel != ChannelFallback || !fallbackHit {
		t.Fatalf("channel = %q, fallbackHit = %v", channel, fallbackHit)
	}
}

func TestDeliver_NoChannelConfigured(t *testing.T) {
	d := NewDispatcher(&config.LeadConfig{SendTimeout: time.Second})
	channel, err := d.Deliver(context.Background(), "s", "m", testLead())
	if err == nil {
		t.Fatal("expected error with no channels")
	}
	if channel != ChannelNone {
		t.Fatalf("channel = %q, want %q", channel, ChannelNone)
	}
}

func TestExportXLSX(t *testing.T) {
	records := []model.Lead{
		{ID: 1, Name: "Asha", City: "Pune", Mobile: "9876543210", ProductID: "sliding-window",
			QuoteLow: 31760, QuoteHigh: 47640, Delivered: true, DeliveredVia: ChannelPrimary,
			CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "Ravi", City: "Mumbai", Mobile: "9123456780", ProductID: "frameless-shower-partition",
			CreatedAt: time.Date(2026, 8, 2, 11, 30, 0, 0, time.UTC)},
	}

	f, err := ExportXLSX(records)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	name, err := f.GetCellValue(sheet, "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if name != "Asha" {
		t.Fatalf("B2 = %q, want Asha", name)
	}
	city, _ := f.GetCellValue(sheet, "C3")
	if city != "Mumbai" {
		t.Fatalf("C3 = %q, want Mumbai", city)
	}
}
