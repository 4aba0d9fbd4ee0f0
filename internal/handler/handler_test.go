package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quote-service/internal/catalog"
	"quote-service/internal/leads"
	"quote-service/internal/measure"
	"quote-service/internal/pricing"
	"quote-service/internal/quote"
	"quote-service/pkg/config"

	"github.com/labstack/echo/v4"
)

func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	s := catalog.NewStore(&config.CatalogConfig{FetchTimeout: time.Second})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return s
}

func postJSON(t *testing.T, e *echo.Echo, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newTestApp(t *testing.T) (*echo.Echo, *quote.Sessions) {
	t.Helper()
	store := testStore(t)
	sessions := quote.NewSessions(time.Second)
	dispatcher := leads.NewDispatcher(&config.LeadConfig{SendTimeout: time.Second})

	catalogHandler := NewCatalogHandler(store)
	quoteHandler := NewQuoteHandler(store, sessions)
	leadHandler := NewLeadHandler(store, sessions, dispatcher)

	e := echo.New()
	e.GET("/api/catalog", catalogHandler.ListCatalog)
	e.GET("/api/products/:id", catalogHandler.GetProduct)
	e.POST("/api/quotes", quoteHandler.ComputeQuote)
	e.POST("/api/leads", leadHandler.SubmitLead)
	return e, sessions
}

func ft(v float64) measure.Dimension {
	return measure.Dimension{Value: v, Unit: measure.UnitFeet}
}

func TestGetProduct_NotFound(t *testing.T) {
	e, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/no-such-product", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListCatalog(t *testing.T) {
	e, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Products []catalog.Product `json:"products"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Products) == 0 {
		t.Fatal("catalog listing is empty")
	}
}

func TestComputeQuote_RangeBeforeLead(t *testing.T) {
	e, _ := newTestApp(t)

	rec := postJSON(t, e, "/api/quotes", QuoteRequest{
		ProductID: "sliding-window",
		Width:     ft(10),
		Height:    ft(5),
		Quantity:  1,
		Selection: pricing.Selection{Glass: "6mm"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp QuoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Display.Mode != quote.ModeRange {
		t.Fatalf("mode = %q, want %q", resp.Display.Mode, quote.ModeRange)
	}
	if resp.Display.Exact != 0 {
		t.Fatal("true cost leaked before lead capture")
	}
	// 750*50 + 2200 = 39700, widened by the product's 20 percent.
	if resp.Display.Low != 39700*0.8 || resp.Display.High != 39700*1.2 {
		t.Fatalf("range = [%v, %v], want [31760, 47640]", resp.Display.Low, resp.Display.High)
	}
	if resp.SessionID == "" {
		t.Fatal("no session id assigned")
	}
}

func TestComputeQuote_ExactAfterLead(t *testing.T) {
	e, _ := newTestApp(t)

	first := postJSON(t, e, "/api/quotes", QuoteRequest{
		ProductID: "sliding-window",
		Width:     ft(10), Height: ft(5), Quantity: 1,
		Selection: pricing.Selection{Glass: "6mm"},
	})
	var quoted QuoteResponse
	if err := json.Unmarshal(first.Body.Bytes(), &quoted); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Capturing the lead flips the session even though delivery has no
	// configured channel and will fail in the background.
	leadRec := postJSON(t, e, "/api/leads", LeadRequest{
		SessionID: quoted.SessionID,
		ProductID: "sliding-window",
		Name:      "Asha", City: "Pune", Mobile: "9876543210",
	})
	if leadRec.Code != http.StatusOK {
		t.Fatalf("lead status = %d, want 200: %s", leadRec.Code, leadRec.Body.String())
	}

	second := postJSON(t, e, "/api/quotes", QuoteRequest{
		SessionID: quoted.SessionID,
		ProductID: "sliding-window",
		Width:     ft(10), Height: ft(5), Quantity: 1,
		Selection: pricing.Selection{Glass: "6mm"},
	})
	var resp QuoteResponse
	if err := json.Unmarshal(second.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Display.Mode != quote.ModeExact {
		t.Fatalf("mode = %q, want %q", resp.Display.Mode, quote.ModeExact)
	}
	if resp.Display.Exact != 39700 {
		t.Fatalf("exact = %v, want 39700", resp.Display.Exact)
	}
}

func TestComputeQuote_EmptyWidthIsZeroQuote(t *testing.T) {
	e, _ := newTestApp(t)

	rec := postJSON(t, e, "/api/quotes", QuoteRequest{
		ProductID: "sliding-window",
		Width:     measure.Dimension{Unit: measure.UnitFeet, Raw: ""},
		Height:    ft(5),
		Quantity:  1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp QuoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Area != 0 || resp.Display.Low != 0 || resp.Display.High != 0 {
		t.Fatalf("cleared width should quote zero, got %+v", resp)
	}
}

func TestComputeQuote_LCornerSumsWidths(t *testing.T) {
	e, _ := newTestApp(t)

	right := ft(4)
	rec := postJSON(t, e, "/api/quotes", QuoteRequest{
		ProductID:  "frameless-shower-partition",
		Width:      ft(3),
		WidthRight: &right,
		Geometry:   "l-corner",
		Height:     ft(7),
		Quantity:   1,
		Selection:  pricing.Selection{Glass: "8mm", Finish: "chrome", Doors: 1},
	})
	var resp QuoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// (3 + 4) ft wide by 7 ft high.
	if resp.Area != 49 {
		t.Fatalf("area = %v, want 49", resp.Area)
	}
}

func TestComputeQuote_HeightExceededSuppressesPricing(t *testing.T) {
	e, _ := newTestApp(t)

	rec := postJSON(t, e, "/api/quotes", QuoteRequest{
		ProductID: "3track-sliding-window",
		Width:     ft(10),
		Height:    ft(9),
		Quantity:  1,
		Selection: pricing.Selection{Track: "3track", Glass: "5mm"},
	})
	var resp QuoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Height.Status != measure.HeightExceeded {
		t.Fatalf("height status = %q, want %q", resp.Height.Status, measure.HeightExceeded)
	}
	if resp.Display.Low != 0 || resp.Display.High != 0 || resp.Area != 0 {
		t.Fatalf("pricing not suppressed: %+v", resp)
	}
}

func TestComputeQuote_HeightWarningStillPrices(t *testing.T) {
	e, _ := newTestApp(t)

	rec := postJSON(t, e, "/api/quotes", QuoteRequest{
		ProductID: "3track-sliding-window",
		Width:     ft(10),
		Height:    ft(7),
		Quantity:  1,
		Selection: pricing.Selection{Track: "3track", Glass: "5mm"},
	})
	var resp QuoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Height.Status != measure.HeightWarning {
		t.Fatalf("height status = %q, want %q", resp.Height.Status, measure.HeightWarning)
	}
	if resp.Display.High == 0 {
		t.Fatal("warning-level height should still price")
	}
}

func TestSubmitLead_ValidationFailureKeepsRangeMode(t *testing.T) {
	e, sessions := newTestApp(t)
	id := sessions.Ensure("")

	rec := postJSON(t, e, "/api/leads", LeadRequest{
		SessionID: id,
		ProductID: "sliding-window",
		Name:      "Asha", City: "Pune", Mobile: "123",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if sessions.LeadCaptured(id) {
		t.Fatal("invalid lead flipped the session")
	}
}

func TestComputeQuote_UnknownProduct(t *testing.T) {
	e, _ := newTestApp(t)

	rec := postJSON(t, e, "/api/quotes", QuoteRequest{
		ProductID: "no-such-product",
		Width:     ft(10), Height: ft(5), Quantity: 1,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
