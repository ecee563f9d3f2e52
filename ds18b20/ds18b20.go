// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ds18b20 interfaces to Dallas Semi / Maxim DS18B20 and MAX31820
// 1-Wire temperature sensors (family code 0x28).
//
// Commands are sent with Driver.WriteBytes, which leaves the line driven
// low after the command byte even in parasite mode; the package does not
// hold a strong pull-up during a conversion or an EEPROM copy. The
// DS18B20 alarm functionality and EEPROM alarm-byte
// read/write are not supported; neither is the DS18S20.
//
// Datasheet: https://datasheets.maximintegrated.com/en/ds/DS18B20-PAR.pdf
package ds18b20

import (
	"encoding/binary"

	"go.bitbang.dev/onewire"
)

// FamilyCode is the 1-Wire family byte shared by the DS18B20 and MAX31820.
const FamilyCode = 0x28

// Command bytes, per the DS18B20 datasheet's function command set.
const (
	cmdConvert         = 0x44
	cmdWriteScratchpad = 0x4E
	cmdReadScratchpad  = 0xBE
	cmdCopyScratchpad  = 0x48
	cmdRecallE2        = 0xB8
	cmdReadPowerSupply = 0xB4
)

// Resolution is the configured measurement resolution, encoded exactly as
// the scratchpad configuration byte stores it.
type Resolution byte

// Supported resolutions and their datasheet-specified conversion times.
const (
	Resolution9Bit  Resolution = 0b0001_1111
	Resolution10Bit Resolution = 0b0011_1111
	Resolution11Bit Resolution = 0b0101_1111
	Resolution12Bit Resolution = 0b0111_1111
)

// TimeMillis returns how long a conversion at this resolution takes, per
// the datasheet: 94/188/375/750ms for 9/10/11/12 bits.
func (r Resolution) TimeMillis() uint16 {
	switch r {
	case Resolution9Bit:
		return 94
	case Resolution10Bit:
		return 188
	case Resolution11Bit:
		return 375
	default:
		return 750
	}
}

// Dev is a handle to a single DS18B20 on a 1-Wire bus.
type Dev struct {
	addr       onewire.Address
	resolution Resolution
}

// New wraps addr as a DS18B20 handle with the given resolution. It does
// not touch the bus. It returns a *onewire.FamilyCodeMismatchError if
// addr's family code is not FamilyCode;
// onewire.SearchFirstAddress(driver, delay, ds18b20.FamilyCode) yields a
// suitable address.
func New(addr onewire.Address, resolution Resolution) (*Dev, error) {
	if addr.FamilyCode() != FamilyCode {
		return nil, &onewire.FamilyCodeMismatchError{Expected: FamilyCode, Actual: addr.FamilyCode()}
	}
	return &Dev{addr: addr, resolution: resolution}, nil
}

// Address implements onewire.Device.
func (d *Dev) Address() onewire.Address { return d.addr }

// FamilyCode implements onewire.Device.
func (d *Dev) FamilyCode() byte { return FamilyCode }

// MeasureTemperature issues reset + select + Convert (0x44) and returns
// the configured Resolution; the caller is responsible for waiting
// Resolution.TimeMillis() before calling ReadTemperature.
func (d *Dev) MeasureTemperature(driver *onewire.Driver, delay onewire.Delayer) (Resolution, error) {
	if err := driver.ResetSelectWriteOnly(delay, d.addr, []byte{cmdConvert}); err != nil {
		return 0, err
	}
	return d.resolution, nil
}

// ReadTemperature issues reset + select + ReadScratchpad (0xBE), reads the
// 9-byte scratchpad, verifies its CRC-8 against the address, and returns
// the raw little-endian fixed-point temperature from the first two bytes.
// Use SplitTemperature to decode it into integer/fractional parts.
func (d *Dev) ReadTemperature(driver *onewire.Driver, delay onewire.Delayer) (uint16, error) {
	var scratchpad [9]byte
	if err := driver.ResetSelectWriteRead(delay, d.addr, []byte{cmdReadScratchpad}, scratchpad[:]); err != nil {
		return 0, err
	}
	if err := d.addr.EnsureCRC8(scratchpad[:8], scratchpad[8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(scratchpad[0:2]), nil
}

// WriteScratchpad writes the alarm trigger bytes and configuration
// register (resolution) into the scratchpad. The write does not persist
// across a power cycle until CopyScratchpad is also called.
func (d *Dev) WriteScratchpad(driver *onewire.Driver, delay onewire.Delayer, highAlarm, lowAlarm byte, resolution Resolution) error {
	return driver.ResetSelectWriteOnly(delay, d.addr, []byte{cmdWriteScratchpad, highAlarm, lowAlarm, byte(resolution)})
}

// CopyScratchpad persists the current scratchpad's alarm bytes and
// configuration register to EEPROM. The device draws EEPROM write
// current for up to 10ms. The command byte goes out through
// Driver.WriteBytes, which leaves the line driven low afterwards whatever
// the Driver's parasite mode flag, so this call does not hold the bus
// high for a parasitically powered device.
func (d *Dev) CopyScratchpad(driver *onewire.Driver, delay onewire.Delayer) error {
	return driver.ResetSelectWriteOnly(delay, d.addr, []byte{cmdCopyScratchpad})
}

// RecallE2 reloads the alarm bytes and configuration register from
// EEPROM back into the scratchpad, reverting any WriteScratchpad that
// was never committed with CopyScratchpad.
func (d *Dev) RecallE2(driver *onewire.Driver, delay onewire.Delayer) error {
	return driver.ResetSelectWriteOnly(delay, d.addr, []byte{cmdRecallE2})
}

// ReadPowerSupply reports whether the device is parasitically powered
// (true) or has its own VDD supply (false): a parasitically powered
// device pulls the bus low during the single read slot that follows
// this command; an externally powered one releases it high.
func (d *Dev) ReadPowerSupply(driver *onewire.Driver, delay onewire.Delayer) (parasitic bool, err error) {
	if err := driver.ResetSelectWriteOnly(delay, d.addr, []byte{cmdReadPowerSupply}); err != nil {
		return false, err
	}
	high, err := driver.ReadBit(delay)
	if err != nil {
		return false, err
	}
	return !high, nil
}

// StartMeasurement implements onewire.Sensor.
func (d *Dev) StartMeasurement(driver *onewire.Driver, delay onewire.Delayer) (uint16, error) {
	r, err := d.MeasureTemperature(driver, delay)
	if err != nil {
		return 0, err
	}
	return r.TimeMillis(), nil
}

// ReadMeasurement implements onewire.Sensor, returning the temperature in
// degrees Celsius as a float (raw fixed-point value / 16).
func (d *Dev) ReadMeasurement(driver *onewire.Driver, delay onewire.Delayer) (float32, error) {
	raw, err := d.ReadTemperature(driver, delay)
	if err != nil {
		return 0, err
	}
	return float32(int16(raw)) / 16.0, nil
}

// SplitTemperature decodes a raw DS18B20 fixed-point reading (two's
// complement, 4 fractional bits) into an integer part and a fractional
// part expressed in ten-thousandths, so integer + fraction/10000 equals
// the temperature in degrees Celsius. Both parts share the same sign (or
// the fraction is zero): SplitTemperature(0x0191) == (25, 625) for
// 25.0625C, SplitTemperature(0xFE6F) == (-25, -625) for -25.0625C.
func SplitTemperature(raw uint16) (integer int16, fractionTenThousandths int16) {
	if raw < 0x8000 {
		v := int16(raw)
		return v >> 4, (v & 0xF) * 625
	}
	abs := -int16(raw)
	return -(abs >> 4), -625 * (abs & 0xF)
}
