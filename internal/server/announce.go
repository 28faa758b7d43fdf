package server

import (
	"fmt"
	"os"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/airmon/co2mini/internal/logging"
)

const (
	serviceType   = "_co2mini._tcp"
	serviceDomain = "local."
)

// announcer wraps the mDNS registration so the server can withdraw it
// on shutdown.
type announcer struct {
	srv *zeroconf.Server
}

// announce registers the server on the local network so clients can
// find it without configuration.
func announce(port int) (*announcer, error) {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "co2mini"
	}
	instance := fmt.Sprintf("co2mini-%s", host)

	srv, err := zeroconf.Register(instance, serviceType, serviceDomain, port,
		[]string{"path=/ws"}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Announced service via mDNS",
		zap.String("instance", instance),
		zap.String("type", serviceType),
		zap.Int("port", port),
	)

	return &announcer{srv: srv}, nil
}

func (a *announcer) shutdown() {
	a.srv.Shutdown()
}
