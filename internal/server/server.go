package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/airmon/co2mini/internal/datalog"
	"github.com/airmon/co2mini/internal/logging"
	"github.com/airmon/co2mini/internal/metrics"
	"github.com/airmon/co2mini/internal/protocol"
	"github.com/airmon/co2mini/internal/session"
)

// Config holds the server configuration
type Config struct {
	Host     string
	Port     int
	Announce bool // If true, announce the service via mDNS
	LogLevel string
}

// Readings supplies the latest decoded sensor values. *session.Session
// satisfies this interface.
type Readings interface {
	Temperature() (float64, bool)
	CO2() (int, bool)
	Humidity() (float64, bool)
}

// Server exposes live sensor readings over HTTP and WebSocket.
type Server struct {
	config   *Config
	readings Readings
	events   <-chan session.Event
	sink     *datalog.Logger // optional, nil disables the data log
	sensor   *metrics.SensorMetrics
	handler  http.Handler
	hub      *hub
	httpSrv  *http.Server
	stop     chan struct{}
	wg       sync.WaitGroup
}

// New creates a new Server instance consuming events from a device session.
// sink may be nil to disable data logging.
func New(config *Config, readings Readings, events <-chan session.Event, sink *datalog.Logger) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	registry := metrics.NewRegistry()
	s := &Server{
		config:   config,
		readings: readings,
		events:   events,
		sink:     sink,
		sensor:   metrics.NewSensorMetrics(registry),
		hub:      newHub(),
		stop:     make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/readings", s.handleReadings)
	mux.HandleFunc("/ws", s.hub.handleUpgrade)
	mux.Handle("/metrics", metrics.Handler(registry))
	s.handler = mux

	return s, nil
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	logging.Info("Starting CO2 monitor server",
		zap.String("addr", addr),
		zap.Bool("announce", s.config.Announce),
		zap.String("log_level", s.config.LogLevel),
	)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	if s.config.Announce {
		ann, err := announce(s.config.Port)
		if err != nil {
			// mDNS is a convenience, the server is still usable without it
			logging.Warn("Failed to announce service", zap.Error(err))
		} else {
			defer ann.shutdown()
		}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.consumeEvents()
	}()

	s.httpSrv = &http.Server{Handler: s.handler}

	logging.Info("Server listening for connections",
		zap.String("addr", listener.Addr().String()),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpSrv.Serve(listener)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	close(s.stop)
	s.hub.closeAll()

	if s.httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			logging.Error("Error shutting down HTTP server", zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("Server stopped")
	case <-time.After(10 * time.Second):
		logging.Warn("Shutdown timeout after 10 seconds, forcing close")
	}

	logging.Sync()
	return nil
}

// consumeEvents drains the session event channel, updating metrics,
// the data log, and connected WebSocket clients.
func (s *Server) consumeEvents() {
	for {
		select {
		case <-s.stop:
			return
		case ev, ok := <-s.events:
			if !ok {
				return
			}
			s.handleEvent(ev)
		}
	}
}

func (s *Server) handleEvent(ev session.Event) {
	switch e := ev.(type) {
	case session.ReadingEvent:
		s.handleReading(e.Reading)
	case session.ErrorEvent:
		switch {
		case session.IsChecksumError(e.Err):
			s.sensor.FramesTotal.WithLabelValues(metrics.ResultChecksum).Inc()
			logging.Warn("Dropped corrupt frame", zap.Error(e.Err))
		case session.IsPollError(e.Err):
			s.sensor.PollErrorsTotal.Inc()
			logging.Warn("Poll error", zap.Error(e.Err))
		default:
			logging.Error("Device error", zap.Error(e.Err))
		}
	case session.ConnectedEvent:
		logging.Info("Device connected")
	case session.DisconnectedEvent:
		logging.Info("Device disconnected")
	}
}

func (s *Server) handleReading(r protocol.Reading) {
	s.sensor.FramesTotal.WithLabelValues(metrics.ResultOK).Inc()

	switch r.Kind {
	case protocol.KindCO2:
		s.sensor.CO2PPM.Set(r.Value)
	case protocol.KindTemperature:
		s.sensor.TemperatureCelsius.Set(r.Value)
	case protocol.KindHumidity:
		s.sensor.HumidityPercent.Set(r.Value)
	}

	now := time.Now()
	if s.sink != nil {
		if err := s.sink.Record(r.Kind, r.Value, now); err != nil {
			logging.Error("Failed to write data log", zap.Error(err))
		}
	}

	s.hub.broadcast(readingPayload{
		Kind:  r.Kind.String(),
		Value: r.Value,
		At:    now.UTC(),
	})
}

// readingPayload is the JSON shape pushed to WebSocket clients.
type readingPayload struct {
	Kind  string    `json:"kind"`
	Value float64   `json:"value"`
	At    time.Time `json:"at"`
}

// readingsResponse is the JSON shape served by GET /readings. Values the
// device has not reported yet are omitted.
type readingsResponse struct {
	CO2PPM             *int     `json:"co2_ppm,omitempty"`
	TemperatureCelsius *float64 `json:"temperature_celsius,omitempty"`
	HumidityPercent    *float64 `json:"humidity_percent,omitempty"`
}

func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var resp readingsResponse
	if v, ok := s.readings.CO2(); ok {
		resp.CO2PPM = &v
	}
	if v, ok := s.readings.Temperature(); ok {
		resp.TemperatureCelsius = &v
	}
	if v, ok := s.readings.Humidity(); ok {
		resp.HumidityPercent = &v
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error("Failed to encode readings", zap.Error(err))
	}
}
