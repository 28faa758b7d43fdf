package protocol

import "testing"

func TestDecoderOpcodeMapping(t *testing.T) {
	tests := []struct {
		name     string
		frame    DecodedFrame
		wantKind Kind
		wantVal  float64
	}{
		{
			// 0x1194 = 4500 sixteenths of a Kelvin: 281.25 - 273.15
			name:     "temperature 0x1194 is 8.10 celsius",
			frame:    DecodedFrame{Opcode: OpTemperature, Value: 0x1194},
			wantKind: KindTemperature,
			wantVal:  8.10,
		},
		{
			name:     "co2 0x0258 is 600 ppm",
			frame:    DecodedFrame{Opcode: OpCO2, Value: 0x0258},
			wantKind: KindCO2,
			wantVal:  600,
		},
		{
			name:     "humidity 0x1324 is 49.0 percent",
			frame:    DecodedFrame{Opcode: OpHumidity, Value: 0x1324},
			wantKind: KindHumidity,
			wantVal:  49.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()

			reading, ok := d.Decode(tt.frame)
			if !ok {
				t.Fatal("Decode() ok = false, want true")
			}
			if reading.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", reading.Kind, tt.wantKind)
			}
			if reading.Value != tt.wantVal {
				t.Errorf("value = %v, want %v", reading.Value, tt.wantVal)
			}
		})
	}
}

func TestDecoderIgnoresUnknownOpcodes(t *testing.T) {
	d := NewDecoder()

	// 0x6D is real telemetry from the device, just not a quantity we decode
	if _, ok := d.Decode(DecodedFrame{Opcode: 0x6D, Value: 1234}); ok {
		t.Error("Decode() ok = true for unknown opcode, want false")
	}

	if _, ok := d.Temperature(); ok {
		t.Error("unknown opcode must not populate cached readings")
	}
	if _, ok := d.CO2(); ok {
		t.Error("unknown opcode must not populate cached readings")
	}
	if _, ok := d.Humidity(); ok {
		t.Error("unknown opcode must not populate cached readings")
	}
}

func TestDecoderCachesLatestPerKind(t *testing.T) {
	d := NewDecoder()

	// Nothing known before the first frame of each kind
	if _, ok := d.CO2(); ok {
		t.Error("CO2() ok = true before any frame")
	}

	d.Decode(DecodedFrame{Opcode: OpCO2, Value: 600})
	d.Decode(DecodedFrame{Opcode: OpCO2, Value: 750})

	co2, ok := d.CO2()
	if !ok || co2 != 750 {
		t.Errorf("CO2() = %d, %v; want 750, true", co2, ok)
	}

	// A CO2 frame updates exactly one cached field
	if _, ok := d.Temperature(); ok {
		t.Error("Temperature() ok = true after CO2-only frames")
	}

	d.Decode(DecodedFrame{Opcode: OpTemperature, Value: 0x1194})
	temp, ok := d.Temperature()
	if !ok || temp != 8.10 {
		t.Errorf("Temperature() = %v, %v; want 8.10, true", temp, ok)
	}

	// Temperature frame must not disturb the cached CO2 value
	if co2, _ := d.CO2(); co2 != 750 {
		t.Errorf("CO2() = %d after temperature frame, want 750", co2)
	}
}
