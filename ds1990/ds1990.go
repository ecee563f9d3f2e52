// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ds1990 interfaces to the DS1990 family of 1-Wire identity
// tokens (family code 0x01) and its widely cloned EEPROM-backed
// siblings: RW1990 P1/P2 and the TM01/TM2004 "TM-token" family. Clone
// tokens let a programmer overwrite the factory ROM with an arbitrary
// address, which the genuine DS1990 does not support.
//
// Cyfral and Metacom tokens share physical form factors with the DS1990
// but speak unrelated, non-1-Wire protocols; CloneType names them, but
// DetectType never reports them and WriteAddress rejects them with
// ErrNotSupport.
package ds1990

import (
	"go.bitbang.dev/onewire"
)

// FamilyCode is the 1-Wire family byte of the DS1990 and its clones.
const FamilyCode = 0x01

// Dev is a handle to a single DS1990-family token.
type Dev struct {
	addr onewire.Address
}

// New wraps addr as a DS1990-family handle. It does not touch the bus.
func New(addr onewire.Address) (*Dev, error) {
	if addr.FamilyCode() != FamilyCode {
		return nil, &onewire.FamilyCodeMismatchError{Expected: FamilyCode, Actual: addr.FamilyCode()}
	}
	return &Dev{addr: addr}, nil
}

// NewBlank returns a handle carrying the conventional blank address
// written to a fresh clone token before it has been assigned a serial
// number: family code in both the first and last byte, zero elsewhere.
// It is meant to be passed to WriteAddress to program a token, not used
// to address one already on the bus.
func NewBlank() *Dev {
	return &Dev{addr: onewire.Address{FamilyCode, 0, 0, 0, 0, 0, 0, FamilyCode}}
}

// Address implements onewire.Device.
func (d *Dev) Address() onewire.Address { return d.addr }

// FamilyCode implements onewire.Device.
func (d *Dev) FamilyCode() byte { return FamilyCode }

// CloneType identifies which silicon family a token on the bus actually
// is, since RW1990 P1, P2 and the TM family all answer 1-Wire commands
// differently from a genuine DS1990 and from each other.
type CloneType int

const (
	// DS1990 is the genuine, read-only Dallas/Maxim part.
	DS1990 CloneType = iota
	// RW1990P1 is the common two-transistor RW1990 clone, write lock
	// toggled by driving the lock bit to the opposite of the desired
	// locked state.
	RW1990P1
	// RW1990P2 is the RW1990 variant whose lock polarity is the direct
	// (non-inverted) sense of RW1990P1.
	RW1990P2
	// TM01 is an older TM-family clone whose write lock is set with its
	// own command (0xC1) and read back with RW1990P1's get command; it
	// does not speak TM2004's CRC-verified write protocol.
	TM01
	// TM2004 is a TM-family clone with a CRC-verified, byte-addressed
	// EEPROM write command and a final program pulse.
	TM2004
	// Cyfral identifies a Cyfral-protocol token. Cyfral is not a 1-Wire
	// protocol; WriteAddress rejects it with onewire.ErrNotSupport.
	Cyfral
	// Metacom identifies a Metacom-protocol token; see Cyfral.
	Metacom
)

func (t CloneType) String() string {
	switch t {
	case DS1990:
		return "DS1990"
	case RW1990P1:
		return "RW1990 P1"
	case RW1990P2:
		return "RW1990 P2"
	case TM01:
		return "TM01"
	case TM2004:
		return "TM2004"
	case Cyfral:
		return "Cyfral"
	case Metacom:
		return "Metacom"
	default:
		return "unknown"
	}
}

// RW1990/TM command bytes. Names follow the datasheets' own mnemonics.
const (
	cmdWriteLockSet1 = 0xD1
	cmdWriteLockGet1 = 0xB1
	cmdWriteLockSet2 = 0x1D
	cmdWriteLockGet2 = 0x1E
	cmdWriteLockSet3 = 0xC1
	cmdWriteRomRW    = 0xD5

	cmdReadStatusTM = 0xAA
	cmdWriteRomTM   = 0x3C
)

// lockUnlocked is the byte a token's write-lock probe returns once the
// requested lock state has taken effect.
const lockUnlocked = 0xFE

func setWriteLock(d *onewire.Driver, delay onewire.Delayer, t CloneType, lock bool) (bool, error) {
	var setCmd, getCmd byte
	switch t {
	case RW1990P1:
		setCmd, getCmd, lock = cmdWriteLockSet1, cmdWriteLockGet1, !lock
	case RW1990P2:
		setCmd, getCmd = cmdWriteLockSet2, cmdWriteLockGet2
	case TM01:
		setCmd, getCmd = cmdWriteLockSet3, cmdWriteLockGet1
	default:
		return false, onewire.ErrNotSupport
	}

	if err := d.ResetWriteOnly(delay, []byte{setCmd}); err != nil {
		return false, err
	}
	if err := d.WriteBit(delay, lock); err != nil {
		return false, err
	}
	delay.DelayMicroseconds(10000)

	var state [1]byte
	if err := d.ResetWriteRead(delay, []byte{getCmd}, state[:]); err != nil {
		return false, err
	}
	return state[0] == lockUnlocked, nil
}

// DetectType determines which silicon family the sole token on the bus
// is, by trying the RW1990 P1 and P2 lock-bit dances in turn and
// finally distinguishing TM2004 from TM01 with a status-read CRC check.
// Every probe step issues its own bare Reset with no Select or Skip, so
// this only identifies a single token at a time: on a bus with more
// than one device present, scope it to one candidate by physically
// isolating it (the RW1990/TM write protocols are not proper 1-Wire
// transactions and cannot be addressed with MatchRom).
//
// Detection is destructive in the sense that it toggles and restores
// the write lock twice for RW1990 candidates; a token that isn't
// actually RW1990 but happens to answer the probe unexpectedly could be
// left in a different lock state than it started in. This mirrors the
// source protocol's own detection dance; there is no side-channel way
// to identify clone silicon short of exercising its lock bit.
func DetectType(d *onewire.Driver, delay onewire.Delayer) (CloneType, error) {
	if locked, err := setWriteLock(d, delay, RW1990P1, true); err != nil {
		return 0, err
	} else if locked {
		if _, err := setWriteLock(d, delay, RW1990P1, false); err != nil {
			return 0, err
		}
		return RW1990P1, nil
	}

	if locked, err := setWriteLock(d, delay, RW1990P2, true); err != nil {
		return 0, err
	} else if locked {
		if _, err := setWriteLock(d, delay, RW1990P2, false); err != nil {
			return 0, err
		}
		return RW1990P2, nil
	}

	write := []byte{cmdReadStatusTM, 0x00, 0x00}
	var read [2]byte
	if err := d.ResetWriteRead(delay, write, read[:]); err != nil {
		return 0, err
	}
	if err := d.Reset(delay); err != nil {
		return 0, err
	}
	if onewire.UpdateCRC8(0, write) == read[0] {
		return TM2004, nil
	}
	return TM01, nil
}

// WriteAddress programs this token's address onto a token of the given
// type already on the bus, dispatching to the write protocol that type
// needs. DS1990, Cyfral and Metacom have no write protocol and fail
// with onewire.ErrNotSupport.
func (d *Dev) WriteAddress(driver *onewire.Driver, delay onewire.Delayer, t CloneType) error {
	switch t {
	case RW1990P1, RW1990P2, TM01:
		return d.WriteAddressRW1990(driver, delay, t)
	case TM2004:
		return d.WriteAddressTM2004(driver, delay)
	default:
		return onewire.ErrNotSupport
	}
}

// WriteAddressRW1990 programs an RW1990 P1/P2 or TM01 token: clear its
// write lock, broadcast the WriteRom command and the 8 address bytes
// through the alternate programming bit slot (inverted for every
// variant except RW1990 P2), then restore the write lock.
func (d *Dev) WriteAddressRW1990(driver *onewire.Driver, delay onewire.Delayer, t CloneType) error {
	if _, err := setWriteLock(driver, delay, t, false); err != nil {
		return err
	}

	if err := driver.ResetWriteOnly(delay, []byte{cmdWriteRomRW}); err != nil {
		return err
	}
	addr := d.addr
	if err := driver.WriteBytesRW(delay, addr[:], t != RW1990P2); err != nil {
		return err
	}

	_, err := setWriteLock(driver, delay, t, true)
	return err
}

// WriteAddressTM2004 programs a TM2004 token: each of the 8 address
// bytes is sent with its destination index in its own WriteRom command,
// the token echoes back the CRC-8 of what it received so the write can
// be verified byte by byte, and a final program pulse commits the last
// byte written.
func (d *Dev) WriteAddressTM2004(driver *onewire.Driver, delay onewire.Delayer) error {
	addr := d.addr
	for i := 0; i < len(addr); i++ {
		write := []byte{cmdWriteRomTM, byte(i), 0x00, addr[i]}
		var crcRead [1]byte
		if err := driver.ResetWriteRead(delay, write, crcRead[:]); err != nil {
			return err
		}
		crcWrite := onewire.UpdateCRC8(0, write)
		if crcWrite != crcRead[0] {
			return &onewire.CrcMismatchError{Expected: crcWrite, Actual: crcRead[0]}
		}
	}
	return driver.ProgramPulse(delay)
}
