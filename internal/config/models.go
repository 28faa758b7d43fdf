package config

// Config represents the entire configuration file.
type Config struct {
	Version int            `yaml:"version"`
	Device  *DeviceConfig  `yaml:"device,omitempty"`
	Serve   *ServeConfig   `yaml:"serve,omitempty"`
	DataLog *DataLogConfig `yaml:"datalog,omitempty"`
}

// DeviceConfig identifies the sensor to open. The defaults match the
// stock CO2Mini; rebadged units occasionally ship with a different
// product id and can be overridden here.
type DeviceConfig struct {
	VendorID  uint16 `yaml:"vendor_id"`
	ProductID uint16 `yaml:"product_id"`

	// ReadTimeoutSeconds bounds how long one-shot reads wait for a
	// complete set of values. The sensor cycles through its quantities
	// every few seconds.
	ReadTimeoutSeconds int `yaml:"read_timeout_seconds"`
}

// ServeConfig configures the live-feed HTTP server.
type ServeConfig struct {
	Host     string `yaml:"host"`     // Listen host (empty = all interfaces)
	Port     int    `yaml:"port"`     // Listen port
	Announce bool   `yaml:"announce"` // Advertise the service over mDNS
}

// DataLogConfig configures the dated-file reading log.
type DataLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"` // Directory for dated log files
}

// Default values
const (
	DefaultVendorID           = 0x04D9
	DefaultProductID          = 0xA052
	DefaultPort               = 9672
	DefaultReadTimeoutSeconds = 10
)

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Device: &DeviceConfig{
			VendorID:           DefaultVendorID,
			ProductID:          DefaultProductID,
			ReadTimeoutSeconds: DefaultReadTimeoutSeconds,
		},
		Serve: &ServeConfig{
			Port:     DefaultPort,
			Announce: true,
		},
		DataLog: &DataLogConfig{},
	}
}
