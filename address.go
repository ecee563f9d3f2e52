// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewire

import (
	"fmt"
	"strings"
	"unicode"
)

// Address is a 64-bit 1-Wire device ROM, in the order it is transmitted on
// the wire: family code first, 48-bit serial number, CRC-8 last.
//
// Equality is plain byte-wise comparison (Address is a comparable array
// type). Parsing and formatting do not verify the CRC-8; use VerifyCRC
// for that.
type Address [8]byte

// FamilyCode returns the first ROM byte, identifying the silicon model
// (e.g. 0x28 for DS18B20, 0x01 for the DS1990 family).
func (a Address) FamilyCode() byte {
	return a[0]
}

// VerifyCRC reports whether the address carries a correct CRC-8 over its
// first 7 bytes in its last byte, as required of any ROM actually present
// on the bus.
func (a Address) VerifyCRC() bool {
	return UpdateCRC8(0, a[:7]) == a[7]
}

// ComputeCRC8 computes the CRC-8 of this address's 8 bytes followed by
// data, continuing the running CRC across both. It is used to verify
// scratchpad-style payloads that a selected device returns after its ROM:
// the CRC is seeded with the address itself even though the address was
// not retransmitted by the device.
func (a Address) ComputeCRC8(data []byte) byte {
	return UpdateCRC8(UpdateCRC8(0, a[:]), data)
}

// EnsureCRC8 compares ComputeCRC8(data) against the expected byte the
// device supplied and returns a *CrcMismatchError if they differ.
func (a Address) EnsureCRC8(data []byte, expected byte) error {
	computed := a.ComputeCRC8(data)
	if computed != expected {
		return &CrcMismatchError{Expected: computed, Actual: expected}
	}
	return nil
}

// String formats the address as lowercase hex, colon-separated between
// bytes: "01:22:8f:f9:08:00:01:68".
func (a Address) String() string {
	var b strings.Builder
	b.Grow(len(a)*3 - 1)
	for i, v := range a {
		if i > 0 {
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, "%02x", v)
	}
	return b.String()
}

// AddressError reports why ParseAddress failed.
type AddressError struct {
	// Reason is either AddressNotEnough or AddressInvalid.
	Reason AddressErrorReason
}

func (e *AddressError) Error() string {
	switch e.Reason {
	case AddressNotEnough:
		return "onewire: address has fewer than 16 hex digits"
	case AddressInvalid:
		return "onewire: address contains a non-hex character"
	default:
		return "onewire: invalid address"
	}
}

// AddressErrorReason discriminates the ways address parsing can fail.
type AddressErrorReason int

const (
	// AddressInvalid means a non-hex, non-separator character was found
	// among the first 16 hex digit positions.
	AddressInvalid AddressErrorReason = iota
	// AddressNotEnough means the string ran out before 16 hex digits
	// were collected.
	AddressNotEnough
)

// ParseAddress parses a 1-Wire ROM from hexadecimal text. 16 hex digits
// are required; characters after the 16th digit are not examined. ':'
// and any whitespace (as unicode.IsSpace defines it) may appear anywhere
// between digits as separators and are ignored. Hex digits may be upper
// or lower case.
//
// ParseAddress("01228ff908000168"), ParseAddress("01 22 8f f9 08 00 01 68")
// and ParseAddress("01:22:8f:f9:08:00:01:68") all parse to the same
// Address.
func ParseAddress(s string) (Address, error) {
	var addr Address
	filtered := make([]rune, 0, len(s))
	for _, c := range s {
		if c == ':' || unicode.IsSpace(c) {
			continue
		}
		filtered = append(filtered, c)
	}

	for i := 0; i < len(addr); i++ {
		hi := i * 2
		lo := hi + 1
		if lo >= len(filtered) {
			return Address{}, &AddressError{Reason: AddressNotEnough}
		}
		h, ok := hexNibble(filtered[hi])
		if !ok {
			return Address{}, &AddressError{Reason: AddressInvalid}
		}
		l, ok := hexNibble(filtered[lo])
		if !ok {
			return Address{}, &AddressError{Reason: AddressInvalid}
		}
		addr[i] = h<<4 | l
	}
	return addr, nil
}

func hexNibble(c rune) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return byte(c - '0'), true
	case c >= 'a' && c <= 'f':
		return byte(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return byte(c-'A') + 10, true
	default:
		return 0, false
	}
}

// ReadSingleAddress issues ReadROM and reads the 8-byte address of the
// sole device on the bus. The result is valid only when exactly one
// device is present; with more than one device present, the bus will
// garble the reply and the CRC will not verify.
func ReadSingleAddress(d *Driver, delay Delayer) (Address, error) {
	var addr Address
	if err := d.ResetWriteRead(delay, []byte{opReadRom}, addr[:]); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// SearchFirstAddress runs a device search and returns the first address
// whose family code matches familyCode, or ok=false if the search
// exhausted the bus without finding one.
func SearchFirstAddress(d *Driver, delay Delayer, familyCode byte) (addr Address, ok bool, err error) {
	search := NewDeviceSearch()
	for {
		a, found, err := d.SearchNext(&search, delay)
		if err != nil {
			return Address{}, false, err
		}
		if !found {
			return Address{}, false, nil
		}
		if a.FamilyCode() == familyCode {
			return a, true, nil
		}
	}
}
