// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewire

// WriteBitRW writes a single bit using the alternate "programming" bit
// slot that RW1990/TM01 clone tokens use for writing their ROM, instead
// of the standard WriteBit slot: 6us low for a 1, 60us low for a 0,
// followed by a 10ms hold rather than the standard 65us slot. This is
// not part of the Dallas/Maxim protocol; it is specific to the
// EEPROM-backed clone silicon in package ds1990.
func (d *Driver) WriteBitRW(delay Delayer, high bool) error {
	if err := wrapPort(d.line.SetLow()); err != nil {
		return err
	}
	if high {
		delay.DelayMicroseconds(6)
	} else {
		delay.DelayMicroseconds(60)
	}
	if err := wrapPort(d.line.SetHigh()); err != nil {
		return err
	}
	delay.DelayMicroseconds(10000)
	return nil
}

// WriteByteRW writes 8 bits of b LSB-first via WriteBitRW. When invert
// is true each bit is complemented before being written, matching the
// RW1990 P1/TM01 silicon's inverted write convention (RW1990 P2 writes
// uninverted).
func (d *Driver) WriteByteRW(delay Delayer, b byte, invert bool) error {
	for i := 0; i < 8; i++ {
		bit := (b & 0x01) == 0x01
		if invert {
			bit = !bit
		}
		if err := d.WriteBitRW(delay, bit); err != nil {
			return err
		}
		b >>= 1
	}
	return nil
}

// WriteBytesRW writes every byte of data via WriteByteRW, in order.
func (d *Driver) WriteBytesRW(delay Delayer, data []byte, invert bool) error {
	for _, b := range data {
		if err := d.WriteByteRW(delay, b, invert); err != nil {
			return err
		}
	}
	return nil
}

// ProgramPulse issues the TM2004 EEPROM programming pulse that commits a
// byte written via its WriteRom command: 600us high, 6us low, then a
// 50ms high settle.
func (d *Driver) ProgramPulse(delay Delayer) error {
	if err := wrapPort(d.line.SetHigh()); err != nil {
		return err
	}
	delay.DelayMicroseconds(600)
	if err := wrapPort(d.line.SetLow()); err != nil {
		return err
	}
	delay.DelayMicroseconds(6)
	if err := wrapPort(d.line.SetHigh()); err != nil {
		return err
	}
	delay.DelayMicroseconds(50000)
	return nil
}
