// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hostgpio adapts a single periph.io GPIO pin into an
// onewire.BusLine, for driving a real bus from host-attached hardware
// (a Raspberry Pi's bcm283x pins, a USB GPIO adapter periph.io/x/host
// supports, and so on).
//
// The 1-Wire bus is open-drain: a master or device pulls the line low
// to assert a 0, and otherwise lets an external pull-up resistor (or
// periph's own internal pull, where the hardware permits it) bring the
// line back to a high level. Line never drives the pin high directly;
// SetHigh switches the pin back to an input so the pull-up does the
// work, matching how every Dallas/Maxim application note describes the
// bus.
package hostgpio

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"

	"go.bitbang.dev/onewire"
)

// Init initializes the periph.io host drivers. Call it once before
// constructing a Line; it is safe to call more than once.
func Init() error {
	_, err := host.Init()
	return err
}

// Line adapts pin, a single periph.io GPIO pin wired to a 1-Wire bus,
// into an onewire.BusLine. pin must support both PinIn and PinOut (the
// full gpio.PinIO contract); most host pins do.
type Line struct {
	pin  gpio.PinIO
	pull gpio.Pull
}

// NewLine wraps pin as a Line, releasing it to an input with an
// internal pull-up so the bus starts in the idle (high) state. Pass
// gpio.PullNoChange instead of relying on the internal pull if the bus
// already has its own external pull-up resistor, which the Dallas/Maxim
// application notes recommend for anything beyond a short, lightly
// loaded bus. pull is re-applied on every SetHigh, since switching the
// pin Out and back to In does not reliably preserve it.
func NewLine(pin gpio.PinIO, pull gpio.Pull) (*Line, error) {
	l := &Line{pin: pin, pull: pull}
	if err := pin.In(pull, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("hostgpio: releasing %s to input: %w", pin, err)
	}
	return l, nil
}

// SetLow implements onewire.BusLine by driving the pin low.
func (l *Line) SetLow() error {
	return l.pin.Out(gpio.Low)
}

// SetHigh implements onewire.BusLine by releasing the pin back to an
// input with the pull configured at construction, letting the bus's
// pull-up bring it high.
func (l *Line) SetHigh() error {
	return l.pin.In(l.pull, gpio.NoEdge)
}

// IsHigh implements onewire.BusLine.
func (l *Line) IsHigh() (bool, error) {
	return l.pin.Read() == gpio.High, nil
}

// IsLow implements onewire.BusLine.
func (l *Line) IsLow() (bool, error) {
	return l.pin.Read() == gpio.Low, nil
}

var _ onewire.BusLine = (*Line)(nil)

// RealTimeDelayer implements onewire.Delayer with time.Sleep. It is
// unsuitable for the tightest 1-Wire timing (the driver's 2us and 3us
// waits are well below what the Go scheduler can reliably
// honor), but it is what every portable, non-bare-metal Go host has to
// work with; periph.io's own bit-banged drivers carry the same
// limitation. A driver needing tighter margins should run on hardware
// with a dedicated 1-Wire bus master instead of bit-banging one.
type RealTimeDelayer struct{}

// DelayMicroseconds implements onewire.Delayer.
func (RealTimeDelayer) DelayMicroseconds(us uint32) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}

var _ onewire.Delayer = RealTimeDelayer{}
