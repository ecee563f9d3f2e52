// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewire

// BusLine is the minimal capability the driver needs from the host: the
// ability to actively drive the bus line low, release it so an external
// pull-up takes it high, and sample its current level. It is satisfied
// equally by a single open-drain pin or by a split input/output pin pair;
// callers supply whichever adapter matches their hardware.
//
// Implementations are not required to be safe for concurrent use; a Driver
// owns its BusLine exclusively for the Driver's lifetime.
type BusLine interface {
	// SetLow actively drives the line low.
	SetLow() error
	// SetHigh releases the line so the bus pull-up (or, in parasite mode,
	// a strong pull-up) takes it high.
	SetHigh() error
	// IsHigh reports whether the line currently reads high.
	IsHigh() (bool, error)
	// IsLow reports whether the line currently reads low.
	IsLow() (bool, error)
}

// Delayer is the microsecond delay capability the driver needs from the
// host. Implementations must block for at least the requested duration;
// overshoot degrades throughput but, outside of the read-bit sample
// window, does not affect correctness at standard speed.
type Delayer interface {
	// DelayMicroseconds blocks for at least us microseconds.
	DelayMicroseconds(us uint32)
}

// Inverted wraps a BusLine whose polarity is flipped by external hardware
// (e.g. a board that buffers the line through an inverting driver): it
// swaps SetLow/SetHigh and IsHigh/IsLow pairwise so the rest of the driver
// can keep treating "low" and "high" at face value.
type Inverted struct {
	Line BusLine
}

// SetLow implements BusLine by releasing the underlying line high.
func (w Inverted) SetLow() error { return w.Line.SetHigh() }

// SetHigh implements BusLine by driving the underlying line low.
func (w Inverted) SetHigh() error { return w.Line.SetLow() }

// IsHigh implements BusLine by reporting the underlying line's low state.
func (w Inverted) IsHigh() (bool, error) { return w.Line.IsLow() }

// IsLow implements BusLine by reporting the underlying line's high state.
func (w Inverted) IsLow() (bool, error) { return w.Line.IsHigh() }

var _ BusLine = Inverted{}
