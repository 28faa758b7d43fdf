// Package metrics exposes Prometheus instrumentation for the live-feed
// server: frame outcomes, poll failures and the latest reading of each
// kind as gauges.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Frame outcome label values
const (
	ResultOK       = "ok"
	ResultChecksum = "checksum_error"
)

// NewRegistry creates a Prometheus registry with the standard process
// and Go runtime collectors registered.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler returns the HTTP handler serving the registry's metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// SensorMetrics holds the sensor-facing instruments.
type SensorMetrics struct {
	FramesTotal     *prometheus.CounterVec // labels: result=ok|checksum_error
	PollErrorsTotal prometheus.Counter

	CO2PPM             prometheus.Gauge
	TemperatureCelsius prometheus.Gauge
	HumidityPercent    prometheus.Gauge
}

// NewSensorMetrics registers and returns the sensor metrics.
func NewSensorMetrics(reg *prometheus.Registry) *SensorMetrics {
	m := &SensorMetrics{
		FramesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "co2mini_frames_total",
			Help: "Decoded frames by outcome.",
		}, []string{"result"}),
		PollErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "co2mini_poll_errors_total",
			Help: "Failed endpoint reads during continuous polling.",
		}),
		CO2PPM: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "co2mini_co2_ppm",
			Help: "Latest CO2 concentration in ppm.",
		}),
		TemperatureCelsius: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "co2mini_temperature_celsius",
			Help: "Latest ambient temperature in degrees Celsius.",
		}),
		HumidityPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "co2mini_humidity_percent",
			Help: "Latest relative humidity in percent.",
		}),
	}
	reg.MustRegister(m.FramesTotal, m.PollErrorsTotal, m.CO2PPM, m.TemperatureCelsius, m.HumidityPercent)
	return m
}
