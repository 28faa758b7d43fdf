package protocol

import (
	"fmt"
	"math"
	"sync"
)

// Reading opcodes (frame byte 0)
const (
	OpTemperature = 0x42 // ambient temperature, sixteenths of a Kelvin
	OpCO2         = 0x50 // CO2 concentration, ppm
	OpHumidity    = 0x41 // relative humidity, hundredths of a percent
)

// Kind identifies which physical quantity a reading carries.
type Kind int

const (
	KindTemperature Kind = iota
	KindCO2
	KindHumidity
)

// String returns the wire/display name for the reading kind.
func (k Kind) String() string {
	switch k {
	case KindTemperature:
		return "temperature"
	case KindCO2:
		return "co2"
	case KindHumidity:
		return "humidity"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Reading is one decoded measurement. Value is degrees Celsius for
// temperature, ppm for CO2 (always integral) and percent relative
// humidity for humidity.
type Reading struct {
	Kind  Kind
	Value float64
}

// String returns a human-readable representation with the kind's unit.
func (r Reading) String() string {
	switch r.Kind {
	case KindTemperature:
		return fmt.Sprintf("%.2f°C", r.Value)
	case KindCO2:
		return fmt.Sprintf("%d ppm", int(r.Value))
	case KindHumidity:
		return fmt.Sprintf("%.1f%%", r.Value)
	default:
		return fmt.Sprintf("%s=%v", r.Kind, r.Value)
	}
}

// Decoder interprets validated frames as typed readings and tracks the
// most recent value of each kind. The decode path is the single writer;
// the accessors may be called concurrently by any consumer.
type Decoder struct {
	mu sync.RWMutex

	temp     float64
	hasTemp  bool
	co2      int
	hasCO2   bool
	humidity float64
	hasHum   bool
}

// NewDecoder returns a Decoder with no cached readings; every accessor
// reports unknown until the first successful frame of that kind.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode dispatches on the frame's opcode and returns the resulting
// reading. Unrecognized opcodes are harmless telemetry: Decode returns
// ok=false and caches nothing. A successful decode updates exactly one
// cached reading.
func (d *Decoder) Decode(f DecodedFrame) (Reading, bool) {
	switch f.Opcode {
	case OpTemperature:
		v := math.Round((float64(f.Value)/16-273.15)*100) / 100
		d.mu.Lock()
		d.temp, d.hasTemp = v, true
		d.mu.Unlock()
		return Reading{Kind: KindTemperature, Value: v}, true

	case OpCO2:
		v := int(f.Value)
		d.mu.Lock()
		d.co2, d.hasCO2 = v, true
		d.mu.Unlock()
		return Reading{Kind: KindCO2, Value: float64(v)}, true

	case OpHumidity:
		v := float64(f.Value) / 100
		d.mu.Lock()
		d.humidity, d.hasHum = v, true
		d.mu.Unlock()
		return Reading{Kind: KindHumidity, Value: v}, true
	}
	return Reading{}, false
}

// Temperature returns the latest decoded temperature in degrees Celsius,
// or ok=false before the first temperature frame.
func (d *Decoder) Temperature() (float64, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.temp, d.hasTemp
}

// CO2 returns the latest decoded CO2 concentration in ppm.
func (d *Decoder) CO2() (int, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.co2, d.hasCO2
}

// Humidity returns the latest decoded relative humidity in percent.
func (d *Decoder) Humidity() (float64, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.humidity, d.hasHum
}
