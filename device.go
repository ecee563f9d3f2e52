// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewire

// Device is the shared contract every typed device wrapper in this module
// (onewire/ds18b20.Dev, onewire/ds1990.Dev) satisfies: it knows its own
// family code and carries an Address.
//
// Device wrappers never hold a *Driver themselves (see the package design
// notes): the Driver is the bus's exclusive owner and is threaded through
// every operation as an explicit parameter instead, so which Driver an
// operation uses is always visible at its call site.
type Device interface {
	// Address returns the device's 64-bit ROM.
	Address() Address
	// FamilyCode returns the family byte this device wrapper expects.
	FamilyCode() byte
}

// Sensor is satisfied by device wrappers that perform a measurement in two
// steps: start a conversion, then read back the result once it completes.
type Sensor interface {
	Device
	// StartMeasurement begins a conversion and returns how many
	// milliseconds the caller must wait before the result is ready.
	StartMeasurement(d *Driver, delay Delayer) (waitMillis uint16, err error)
	// ReadMeasurement returns the most recent conversion result as a
	// floating-point physical value.
	ReadMeasurement(d *Driver, delay Delayer) (float32, error)
}
