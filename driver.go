// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewire

// Wire protocol opcodes, per Maxim AppNote 126.
const (
	opMatchRom         = 0x55
	opSkipRom          = 0xCC
	opReadRom          = 0x33
	opSearchRom        = 0xF0
	opSearchRomAlarmed = 0xEC
)

// Driver is the canonical bit-banged 1-Wire master. It owns a BusLine for
// its entire lifetime and is not safe for concurrent use: exactly one
// goroutine may drive it at a time, matching the bus's own exclusive-owner
// semantics.
type Driver struct {
	line         BusLine
	parasiteMode bool
}

// NewDriver constructs a Driver over line. parasiteMode, if true, makes
// Skip and Select leave the line released high after their final byte,
// to power devices that draw bus current, and makes WriteBytes omit its
// extra end-of-sequence SetLow. WriteBytes still drives the line low
// after each byte it writes, including the last, in either mode.
func NewDriver(line BusLine, parasiteMode bool) *Driver {
	return &Driver{line: line, parasiteMode: parasiteMode}
}

// SetParasiteMode changes the driver-level parasite mode flag used by
// Select, Skip and WriteBytes' final-byte policy.
func (d *Driver) SetParasiteMode(on bool) {
	d.parasiteMode = on
}

// ParasiteMode reports the current driver-level parasite mode flag.
func (d *Driver) ParasiteMode() bool {
	return d.parasiteMode
}

// Reset issues a reset pulse and waits for a presence response.
//
// Timing (standard speed, all microseconds):
//  1. release high, poll up to 125*2us=250us for the line to rise; ErrWireFault if it never does.
//  2. drive low for 480us.
//  3. release high, sample low seven times at 10us intervals (70us window).
//  4. delay 410us to complete the 960us reset frame.
//  5. succeed if any sample saw the line low, else ErrNoPresence.
func (d *Driver) Reset(delay Delayer) error {
	if err := wrapPort(d.line.SetHigh()); err != nil {
		return err
	}
	if err := d.ensureWireHigh(delay); err != nil {
		return err
	}

	if err := wrapPort(d.line.SetLow()); err != nil {
		return err
	}
	delay.DelayMicroseconds(480)

	if err := wrapPort(d.line.SetHigh()); err != nil {
		return err
	}

	presence := false
	for i := 0; i < 7; i++ {
		delay.DelayMicroseconds(10)
		low, err := d.line.IsLow()
		if err != nil {
			return wrapPort(err)
		}
		presence = presence || low
	}
	delay.DelayMicroseconds(410)

	if !presence {
		return ErrNoPresence
	}
	return nil
}

// ResetPresence wraps Reset, turning ErrNoPresence into (false, nil) so
// callers that treat an empty bus as a normal outcome don't need to
// special-case errors.Is. Every other error, including ErrWireFault,
// propagates unchanged.
func (d *Driver) ResetPresence(delay Delayer) (bool, error) {
	err := d.Reset(delay)
	if err == nil {
		return true, nil
	}
	if err == ErrNoPresence {
		return false, nil
	}
	return false, err
}

func (d *Driver) ensureWireHigh(delay Delayer) error {
	for i := 0; i < 125; i++ {
		high, err := d.line.IsHigh()
		if err != nil {
			return wrapPort(err)
		}
		if high {
			return nil
		}
		delay.DelayMicroseconds(2)
	}
	return ErrWireFault
}

// ReadBit reads a single bit: drive low 3us, release, wait 2us, sample,
// then hold 61us to complete the 66us read slot.
func (d *Driver) ReadBit(delay Delayer) (bool, error) {
	if err := wrapPort(d.line.SetLow()); err != nil {
		return false, err
	}
	delay.DelayMicroseconds(3)
	if err := wrapPort(d.line.SetHigh()); err != nil {
		return false, err
	}
	delay.DelayMicroseconds(2)
	high, err := d.line.IsHigh()
	if err != nil {
		return false, wrapPort(err)
	}
	delay.DelayMicroseconds(61)
	return high, nil
}

// WriteBit writes a single bit. A 1 bit drives low 10us then releases
// for 55us (a 65us slot); a 0 bit drives low 65us then releases for 5us
// (a 70us slot).
func (d *Driver) WriteBit(delay Delayer, high bool) error {
	if err := wrapPort(d.line.SetLow()); err != nil {
		return err
	}
	if high {
		delay.DelayMicroseconds(10)
	} else {
		delay.DelayMicroseconds(65)
	}
	if err := wrapPort(d.line.SetHigh()); err != nil {
		return err
	}
	if high {
		delay.DelayMicroseconds(55)
	} else {
		delay.DelayMicroseconds(5)
	}
	return nil
}

// ReadByte reads 8 bits LSB-first into a byte.
func (d *Driver) ReadByte(delay Delayer) (byte, error) {
	var b byte
	for i := 0; i < 8; i++ {
		b >>= 1
		bit, err := d.ReadBit(delay)
		if err != nil {
			return 0, err
		}
		if bit {
			b |= 0x80
		}
	}
	return b, nil
}

// ReadBytes fills dst by repeatedly calling ReadByte.
func (d *Driver) ReadBytes(delay Delayer, dst []byte) error {
	for i := range dst {
		b, err := d.ReadByte(delay)
		if err != nil {
			return err
		}
		dst[i] = b
	}
	return nil
}

// WriteByte writes 8 bits of byte LSB-first, then applies the parasite-mode
// post-byte policy: if parasiteMode is true the line is left as the final
// bit's slot left it (effectively high, powering the device); if false the
// driver actively drives the line low once to clear residual charge
// before the next transaction.
func (d *Driver) WriteByte(delay Delayer, b byte, parasiteMode bool) error {
	for i := 0; i < 8; i++ {
		if err := d.WriteBit(delay, (b&0x01) == 0x01); err != nil {
			return err
		}
		b >>= 1
	}
	return d.disableParasiteMode(parasiteMode)
}

// WriteBytes writes every byte of data with parasite mode disabled, then
// performs a single final cleanup honoring the driver-level parasite mode
// flag. Because each byte, the last included, ends with WriteByte's own
// SetLow, the line is driven low when WriteBytes returns whatever the
// flag; the final cleanup only adds a second SetLow when the flag is false.
func (d *Driver) WriteBytes(delay Delayer, data []byte) error {
	for _, b := range data {
		if err := d.WriteByte(delay, b, false); err != nil {
			return err
		}
	}
	return d.disableParasiteMode(d.parasiteMode)
}

func (d *Driver) disableParasiteMode(parasiteMode bool) error {
	if !parasiteMode {
		return wrapPort(d.line.SetLow())
	}
	return nil
}

// Skip issues the SkipRom broadcast opcode, addressing no particular
// device. Parasite mode is requested on this single byte when the
// driver-level flag is set.
func (d *Driver) Skip(delay Delayer) error {
	return d.WriteByte(delay, opSkipRom, d.parasiteMode)
}

// Select issues MatchRom followed by the 8 address bytes, selecting one
// specific device. Parasite mode is requested only on the final address
// byte, matching Skip's single-byte policy.
func (d *Driver) Select(delay Delayer, addr Address) error {
	if err := d.WriteByte(delay, opMatchRom, false); err != nil {
		return err
	}
	for i, b := range addr {
		last := i == len(addr)-1
		if err := d.WriteByte(delay, b, d.parasiteMode && last); err != nil {
			return err
		}
	}
	return nil
}

// ResetWriteRead is reset + WriteBytes(write) + ReadBytes(read), for
// commands already addressed by a prior Select/Skip or meant as a bare
// broadcast (e.g. ReadRom, which addresses no device at all).
func (d *Driver) ResetWriteRead(delay Delayer, write []byte, read []byte) error {
	if err := d.Reset(delay); err != nil {
		return err
	}
	if err := d.WriteBytes(delay, write); err != nil {
		return err
	}
	return d.ReadBytes(delay, read)
}

// ResetReadOnly is reset + ReadBytes(read).
func (d *Driver) ResetReadOnly(delay Delayer, read []byte) error {
	if err := d.Reset(delay); err != nil {
		return err
	}
	return d.ReadBytes(delay, read)
}

// ResetWriteOnly is reset + WriteBytes(write).
func (d *Driver) ResetWriteOnly(delay Delayer, write []byte) error {
	if err := d.Reset(delay); err != nil {
		return err
	}
	return d.WriteBytes(delay, write)
}

// ResetSelectWriteRead is reset + Select(addr) + WriteBytes(write) +
// ReadBytes(read).
func (d *Driver) ResetSelectWriteRead(delay Delayer, addr Address, write []byte, read []byte) error {
	if err := d.Reset(delay); err != nil {
		return err
	}
	if err := d.Select(delay, addr); err != nil {
		return err
	}
	if err := d.WriteBytes(delay, write); err != nil {
		return err
	}
	return d.ReadBytes(delay, read)
}

// ResetSelectReadOnly is reset + Select(addr) + ReadBytes(read).
func (d *Driver) ResetSelectReadOnly(delay Delayer, addr Address, read []byte) error {
	if err := d.Reset(delay); err != nil {
		return err
	}
	if err := d.Select(delay, addr); err != nil {
		return err
	}
	return d.ReadBytes(delay, read)
}

// ResetSelectWriteOnly is reset + Select(addr) + WriteBytes(write).
func (d *Driver) ResetSelectWriteOnly(delay Delayer, addr Address, write []byte) error {
	if err := d.Reset(delay); err != nil {
		return err
	}
	if err := d.Select(delay, addr); err != nil {
		return err
	}
	return d.WriteBytes(delay, write)
}

// ResetSkipWriteRead is reset + Skip + WriteBytes(write) + ReadBytes(read).
func (d *Driver) ResetSkipWriteRead(delay Delayer, write []byte, read []byte) error {
	if err := d.Reset(delay); err != nil {
		return err
	}
	if err := d.Skip(delay); err != nil {
		return err
	}
	if err := d.WriteBytes(delay, write); err != nil {
		return err
	}
	return d.ReadBytes(delay, read)
}

// ResetSkipReadOnly is reset + Skip + ReadBytes(read).
func (d *Driver) ResetSkipReadOnly(delay Delayer, read []byte) error {
	if err := d.Reset(delay); err != nil {
		return err
	}
	if err := d.Skip(delay); err != nil {
		return err
	}
	return d.ReadBytes(delay, read)
}

// ResetSkipWriteOnly is reset + Skip + WriteBytes(write).
func (d *Driver) ResetSkipWriteOnly(delay Delayer, write []byte) error {
	if err := d.Reset(delay); err != nil {
		return err
	}
	if err := d.Skip(delay); err != nil {
		return err
	}
	return d.WriteBytes(delay, write)
}
