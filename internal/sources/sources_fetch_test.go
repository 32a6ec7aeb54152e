package sources

import (
	"context"
	"strings"
	"testing"
	"time"

	"shopwatch/internal/wb"
)

type fakeAPI struct {
	orders    []wb.Order
	sales     []wb.Sale
	feedbacks []wb.Feedback
	questions []wb.Question
	stocks    []wb.Stock
}

func (f *fakeAPI) NewOrders(context.Context) ([]wb.Order, error)    { return f.orders, nil }
func (f *fakeAPI) Sales(context.Context, string) ([]wb.Sale, error) { return f.sales, nil }
func (f *fakeAPI) Feedbacks(context.Context) ([]wb.Feedback, error) { return f.feedbacks, nil }
func (f *fakeAPI) Questions(context.Context) ([]wb.Question, error) { return f.questions, nil }
func (f *fakeAPI) Stocks(context.Context) ([]wb.Stock, error)       { return f.stocks, nil }

func TestOrdersFetch(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{orders: []wb.Order{
		{ID: 42, Article: "SKU-1", ConvertedPrice: 159900, CreatedAt: "2024-06-15T09:30:00Z"},
		{ID: 0, Article: "phantom"},
	}}
	events, err := NewOrders(api, nil, "Bright Shop").Fetch(context.Background(), "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 (zero-id order dropped)", len(events))
	}
	ev := events[0]
	if ev.Key != "order:42" {
		t.Errorf("key = %q", ev.Key)
	}
	for _, want := range []string{"🛒", "Bright Shop", "SKU-1", "1599 ₽", "15.06.2024 09:30"} {
		if !strings.Contains(ev.Text, want) {
			t.Errorf("text %q missing %q", ev.Text, want)
		}
	}
}

func TestOrdersFallsBackToPriceField(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{orders: []wb.Order{{ID: 1, Price: 50000}}}
	events, err := NewOrders(api, nil, "Shop").Fetch(context.Background(), "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(events[0].Text, "500 ₽") {
		t.Errorf("text %q missing fallback price", events[0].Text)
	}
}

func TestSalesFetch(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{sales: []wb.Sale{
		{SaleID: "S001", Date: "2024-06-15T10:00:00", LastChangeDate: "2024-06-15T12:00:00", Subject: "Mug", SupplierArticle: "SKU-1", ForPay: 1234.5},
		{SaleID: "R002", Date: "2024-06-15T11:00:00", LastChangeDate: "2024-06-15T12:30:00", Subject: "Mug", ForPay: -1234.5},
		{SaleID: ""},
	}}
	events, err := NewSales(api, nil, "Bright Shop").Fetch(context.Background(), "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (empty saleID dropped)", len(events))
	}
	if events[0].Key != "sale:S001" || events[0].TS != "2024-06-15T12:00:00" {
		t.Errorf("sale event = %+v", events[0])
	}
	if !strings.Contains(events[0].Text, "💰 Sale") || !strings.Contains(events[0].Text, "1234.50 ₽") {
		t.Errorf("sale text = %q", events[0].Text)
	}
	if !strings.Contains(events[1].Text, "↩️ Return") {
		t.Errorf("return text = %q", events[1].Text)
	}
}

func TestSalesDefaultCursorIsDayWindow(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	got := NewSales(&fakeAPI{}, nil, "").DefaultCursor(now)
	if got != "2024-06-14T10:00:00" {
		t.Fatalf("DefaultCursor = %q", got)
	}
}

func TestFeedbacksFetch(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{feedbacks: []wb.Feedback{
		{ID: "f1", Text: "Great!", ProductValuation: 5, ProductName: "Mug", SupplierName: "Bright Shop", CreatedDate: "2024-06-15T09:00:00Z"},
		{ID: "f2", Text: "Broke in a week", ProductValuation: 2, ProductName: "Mug"},
		{ID: "f3", ProductValuation: 4},
		{ID: " "},
	}}
	events, err := NewFeedbacks(api, "Fallback Shop").Fetch(context.Background(), "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3 (blank id dropped)", len(events))
	}
	if events[0].Key != "feedback:f1" {
		t.Errorf("key = %q", events[0].Key)
	}
	if !strings.Contains(events[0].Text, "★★★★★ 5 (positive)") {
		t.Errorf("positive text = %q", events[0].Text)
	}
	if !strings.Contains(events[1].Text, "★★☆☆☆ 2 (negative)") {
		t.Errorf("negative text = %q", events[1].Text)
	}
	if !strings.Contains(events[1].Text, "Fallback Shop") {
		t.Errorf("missing shop fallback: %q", events[1].Text)
	}
	if !strings.Contains(events[2].Text, "(rating only, no text)") {
		t.Errorf("empty review text = %q", events[2].Text)
	}
}

func TestQuestionsFetch(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{questions: []wb.Question{
		{ID: "q1", Text: "Does it fit a 15\" laptop?", ProductName: "Backpack", CreatedDate: "2024-06-15T09:00:00Z"},
	}}
	events, err := NewQuestions(api, "Bright Shop").Fetch(context.Background(), "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(events) != 1 || events[0].Key != "question:q1" {
		t.Fatalf("events = %+v", events)
	}
	if !strings.Contains(events[0].Text, "❓") || !strings.Contains(events[0].Text, "Backpack") {
		t.Errorf("text = %q", events[0].Text)
	}
}

func TestStocksAggregatesWarehousesAndThreshold(t *testing.T) {
	t.Parallel()
	api := &fakeAPI{stocks: []wb.Stock{
		{NmID: 111, SupplierArticle: "SKU-1", Quantity: 2, WarehouseName: "Koledino"},
		{NmID: 111, SupplierArticle: "SKU-1", Quantity: 1, WarehouseName: "Kazan"},
		{NmID: 222, SupplierArticle: "SKU-2", Quantity: 50},
		{NmID: 333, SupplierArticle: "SKU-3", Quantity: 0},
	}}
	s := NewStocks(api, nil, "Bright Shop", 3)
	s.now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }

	events, err := s.Fetch(context.Background(), "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (totals 3 and 0 alert, 50 does not)", len(events))
	}
	if events[0].Key != "stock:111:2024-06-15" {
		t.Errorf("key = %q, want date-scoped key", events[0].Key)
	}
	if !strings.Contains(events[0].Text, "Left: 3 pcs") {
		t.Errorf("text %q should show the summed quantity", events[0].Text)
	}
	if events[1].Key != "stock:333:2024-06-15" {
		t.Errorf("key = %q", events[1].Key)
	}
}
