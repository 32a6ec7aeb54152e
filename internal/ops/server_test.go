package ops

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	logx "shopwatch/pkg/logx"
)

type fakeRunner struct {
	name  string
	ticks int
	err   error
}

func (f *fakeRunner) Name() string               { return f.name }
func (f *fakeRunner) Tick(context.Context) error { f.ticks++; return f.err }

type fakeSummary struct {
	runs int
	err  error
}

func (f *fakeSummary) RunOnce(context.Context, time.Time) error { f.runs++; return f.err }

func startTestServer(t *testing.T, runners []Triggerable, sum SummaryRunner) *Server {
	t.Helper()
	s := NewServer(logx.Nop(), runners, sum)
	s.Start(Config{Enabled: true, Addr: "127.0.0.1:0"})
	if s.Addr() == "" {
		t.Fatal("server did not start")
	}
	t.Cleanup(func() { s.Stop(context.Background()) })
	return s
}

func doJSON(t *testing.T, method, url string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, body
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := startTestServer(t, nil, nil)
	status, body := doJSON(t, http.MethodGet, "http://"+s.Addr()+"/health")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if ok, _ := body["ok"].(bool); !ok {
		t.Fatalf("body = %v", body)
	}
}

func TestManualPollTrigger(t *testing.T) {
	t.Parallel()
	orders := &fakeRunner{name: "orders"}
	s := startTestServer(t, []Triggerable{orders}, nil)

	status, body := doJSON(t, http.MethodPost, "http://"+s.Addr()+"/poll/orders")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %v", status, body)
	}
	if orders.ticks != 1 {
		t.Fatalf("runner ticked %d times", orders.ticks)
	}
	if id, _ := body["run_id"].(string); id == "" {
		t.Fatal("missing run_id")
	}
}

func TestManualPollUnknownSource(t *testing.T) {
	t.Parallel()
	s := startTestServer(t, []Triggerable{&fakeRunner{name: "orders"}}, nil)
	status, _ := doJSON(t, http.MethodPost, "http://"+s.Addr()+"/poll/nope")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestManualPollFailure(t *testing.T) {
	t.Parallel()
	broken := &fakeRunner{name: "sales", err: errors.New("store gone")}
	s := startTestServer(t, []Triggerable{broken}, nil)
	status, body := doJSON(t, http.MethodPost, "http://"+s.Addr()+"/poll/sales")
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d", status)
	}
	if ok, _ := body["ok"].(bool); ok {
		t.Fatalf("body = %v", body)
	}
}

func TestSummaryTrigger(t *testing.T) {
	t.Parallel()
	sum := &fakeSummary{}
	s := startTestServer(t, nil, sum)
	status, _ := doJSON(t, http.MethodPost, "http://"+s.Addr()+"/summary")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if sum.runs != 1 {
		t.Fatalf("summary ran %d times", sum.runs)
	}
}

func TestSummaryDisabled(t *testing.T) {
	t.Parallel()
	s := startTestServer(t, nil, nil)
	status, _ := doJSON(t, http.MethodPost, "http://"+s.Addr()+"/summary")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when summary is disabled", status)
	}
}

func TestDisabledServerDoesNotListen(t *testing.T) {
	t.Parallel()
	s := NewServer(logx.Nop(), nil, nil)
	s.Start(Config{Enabled: false})
	if s.Addr() != "" {
		t.Fatalf("disabled server listening on %s", s.Addr())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	s := startTestServer(t, nil, nil)
	resp, err := http.Get("http://" + s.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
