// Package signal defines the physiological streams the bridge carries and
// the last-known-value snapshot the monitor reads on each tick.
package signal

import (
	"fmt"
	"time"
)

// Kind identifies a physiological stream.
type Kind string

const (
	KindECG Kind = "ecg" // electrocardiogram, microvolts
	KindPPG Kind = "ppg" // photoplethysmogram, raw ADC counts
	KindRR  Kind = "rr"  // R-R interval, milliseconds
	KindPPI Kind = "ppi" // peak-to-peak interval, milliseconds
	KindHR  Kind = "hr"  // heart rate, beats per minute
	KindACC Kind = "acc" // accelerometer, milli-g (wire format only)
	KindGYR Kind = "gyr" // gyroscope, millidegrees/s (wire format only)
)

// Kinds lists every stream kind in display order.
var Kinds = []Kind{KindECG, KindPPG, KindRR, KindPPI, KindHR, KindACC, KindGYR}

// MonitorKinds are the kinds the monitor prints one line for on each tick.
// HR is handled separately because it is keyed per device.
var MonitorKinds = []Kind{KindECG, KindPPG, KindRR, KindPPI}

// ParseKind converts a wire/config string into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown stream kind %q", s)
}

// Label returns the uppercase display label for the kind.
func (k Kind) Label() string {
	switch k {
	case KindECG:
		return "ECG"
	case KindPPG:
		return "PPG"
	case KindRR:
		return "RR"
	case KindPPI:
		return "PPI"
	case KindHR:
		return "HR"
	case KindACC:
		return "ACC"
	case KindGYR:
		return "GYR"
	default:
		return string(k)
	}
}

// Unit returns the display unit suffix for the kind, empty for unitless streams.
func (k Kind) Unit() string {
	switch k {
	case KindECG:
		return "µV"
	case KindRR, KindPPI:
		return "ms"
	case KindHR:
		return "bpm"
	default:
		return ""
	}
}

// Sample is one value observed on a stream.
type Sample struct {
	Kind     Kind
	DeviceID string
	Value    int
	At       time.Time
}
