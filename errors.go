// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewire

import (
	"errors"
	"fmt"
)

// Sentinel errors of the package's closed error taxonomy. Use errors.Is
// to test for them; Driver.ResetPresence
// already converts ErrNoPresence into (false, nil) for callers that treat
// an empty bus as a normal outcome rather than a failure.
var (
	// ErrNotSupport is returned when an operation is requested that the
	// addressed device's silicon variant cannot perform.
	ErrNotSupport = errors.New("onewire: operation not supported by this device")

	// ErrWireFault is returned when the bus line failed to rise to a high
	// level within the watchdog window at the start of a reset. This
	// usually indicates a short or a missing pull-up resistor.
	ErrWireFault = errors.New("onewire: line did not return high (short or missing pull-up?)")

	// ErrNoPresence is returned when a reset was issued but no device
	// answered with a presence pulse.
	ErrNoPresence = errors.New("onewire: no presence pulse after reset")
)

// CrcMismatchError is returned when a computed CRC-8 does not match the
// byte the device supplied on the wire.
type CrcMismatchError struct {
	Expected byte
	Actual   byte
}

func (e *CrcMismatchError) Error() string {
	return fmt.Sprintf("onewire: crc mismatch: computed %#02x, device sent %#02x", e.Expected, e.Actual)
}

// FamilyCodeMismatchError is returned when an Address is handed to a
// typed device wrapper whose family code does not match the address.
type FamilyCodeMismatchError struct {
	Expected byte
	Actual   byte
}

func (e *FamilyCodeMismatchError) Error() string {
	return fmt.Sprintf("onewire: family code mismatch: want %#02x, got %#02x", e.Expected, e.Actual)
}

// PortError wraps a failure returned by the underlying BusLine capability.
// It implements Unwrap so errors.As can recover the original GPIO error.
type PortError struct {
	Err error
}

func (e *PortError) Error() string {
	return fmt.Sprintf("onewire: port error: %s", e.Err)
}

func (e *PortError) Unwrap() error {
	return e.Err
}

// wrapPort wraps a non-nil BusLine error as a PortError. It returns nil
// unchanged so call sites can write `if err := wrapPort(line.SetLow()); err != nil`.
func wrapPort(err error) error {
	if err == nil {
		return nil
	}
	return &PortError{Err: err}
}
