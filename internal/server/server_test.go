package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/airmon/co2mini/internal/datalog"
	"github.com/airmon/co2mini/internal/metrics"
	"github.com/airmon/co2mini/internal/protocol"
	"github.com/airmon/co2mini/internal/session"
)

type fakeReadings struct {
	temp   float64
	co2    int
	hum    float64
	hasAll bool
}

func (f *fakeReadings) Temperature() (float64, bool) { return f.temp, f.hasAll }
func (f *fakeReadings) CO2() (int, bool)             { return f.co2, f.hasAll }
func (f *fakeReadings) Humidity() (float64, bool)    { return f.hum, f.hasAll }

func newTestServer(readings Readings, sink *datalog.Logger) *Server {
	return &Server{
		config:   &Config{Host: "127.0.0.1", Port: 0},
		readings: readings,
		sink:     sink,
		sensor:   metrics.NewSensorMetrics(metrics.NewRegistry()),
		hub:      newHub(),
		stop:     make(chan struct{}),
	}
}

func waitForClients(t *testing.T, h *hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.clientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("clientCount = %d, want %d", h.clientCount(), want)
}

func TestHandleReadings(t *testing.T) {
	s := newTestServer(&fakeReadings{temp: 21.45, co2: 612, hum: 40.5, hasAll: true}, nil)

	req := httptest.NewRequest(http.MethodGet, "/readings", nil)
	rec := httptest.NewRecorder()
	s.handleReadings(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp readingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.CO2PPM == nil || *resp.CO2PPM != 612 {
		t.Errorf("co2_ppm = %v, want 612", resp.CO2PPM)
	}
	if resp.TemperatureCelsius == nil || *resp.TemperatureCelsius != 21.45 {
		t.Errorf("temperature_celsius = %v, want 21.45", resp.TemperatureCelsius)
	}
	if resp.HumidityPercent == nil || *resp.HumidityPercent != 40.5 {
		t.Errorf("humidity_percent = %v, want 40.5", resp.HumidityPercent)
	}
}

func TestHandleReadingsBeforeFirstFrame(t *testing.T) {
	s := newTestServer(&fakeReadings{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/readings", nil)
	rec := httptest.NewRecorder()
	s.handleReadings(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "{}" {
		t.Errorf("body = %q, want {} before first frame", got)
	}
}

func TestHandleReadingsRejectsNonGet(t *testing.T) {
	s := newTestServer(&fakeReadings{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/readings", nil)
	rec := httptest.NewRecorder()
	s.handleReadings(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleEventUpdatesMetrics(t *testing.T) {
	s := newTestServer(&fakeReadings{}, nil)

	s.handleEvent(session.ReadingEvent{Reading: protocol.Reading{Kind: protocol.KindCO2, Value: 850}})
	s.handleEvent(session.ReadingEvent{Reading: protocol.Reading{Kind: protocol.KindTemperature, Value: 22.19}})
	s.handleEvent(session.ErrorEvent{Err: &session.Error{Type: session.ErrTypeChecksum, Message: "frame failed validation"}})
	s.handleEvent(session.ErrorEvent{Err: &session.Error{Type: session.ErrTypePoll, Message: "endpoint read failed"}})

	if got := testutil.ToFloat64(s.sensor.CO2PPM); got != 850 {
		t.Errorf("co2 gauge = %v, want 850", got)
	}
	if got := testutil.ToFloat64(s.sensor.TemperatureCelsius); got != 22.19 {
		t.Errorf("temperature gauge = %v, want 22.19", got)
	}
	if got := testutil.ToFloat64(s.sensor.FramesTotal.WithLabelValues(metrics.ResultOK)); got != 2 {
		t.Errorf("ok frames = %v, want 2", got)
	}
	if got := testutil.ToFloat64(s.sensor.FramesTotal.WithLabelValues(metrics.ResultChecksum)); got != 1 {
		t.Errorf("checksum frames = %v, want 1", got)
	}
	if got := testutil.ToFloat64(s.sensor.PollErrorsTotal); got != 1 {
		t.Errorf("poll errors = %v, want 1", got)
	}
}

func TestHandleReadingWritesDataLog(t *testing.T) {
	dir := t.TempDir()
	sink, err := datalog.New(dir)
	if err != nil {
		t.Fatalf("datalog.New: %v", err)
	}
	defer sink.Close()

	s := newTestServer(&fakeReadings{}, sink)
	s.handleReading(protocol.Reading{Kind: protocol.KindCO2, Value: 713})

	name := fmt.Sprintf("co2mini-%s.log", time.Now().Format("2006-01-02"))
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading data log: %v", err)
	}
	if !strings.Contains(string(data), "co2\t713") {
		t.Errorf("data log missing reading, got %q", string(data))
	}
}

func TestWebSocketBroadcast(t *testing.T) {
	h := newHub()
	srv := httptest.NewServer(http.HandlerFunc(h.handleUpgrade))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The handler registers the client just after writing the 101
	// response, so wait briefly for it to land in the hub.
	waitForClients(t, h, 1)

	h.broadcast(readingPayload{Kind: "co2", Value: 600, At: time.Now().UTC()})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var payload readingPayload
	if err := conn.ReadJSON(&payload); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if payload.Kind != "co2" || payload.Value != 600 {
		t.Errorf("payload = %+v, want co2/600", payload)
	}
}

func TestCloseAllDisconnectsClients(t *testing.T) {
	h := newHub()
	srv := httptest.NewServer(http.HandlerFunc(h.handleUpgrade))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitForClients(t, h, 1)
	h.closeAll()
	if got := h.clientCount(); got != 0 {
		t.Errorf("clientCount = %d, want 0 after closeAll", got)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected read error after closeAll")
	}
}
