// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ds1990

import (
	"errors"
	"testing"

	"go.bitbang.dev/onewire"
	"go.bitbang.dev/onewire/onewiretest"
)

func TestNewFamilyCodeMismatch(t *testing.T) {
	addr, err := onewire.ParseAddress("28ff00000000000a")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(addr); err == nil {
		t.Fatal("expected a family code mismatch error")
	}
}

func TestNewBlankAddress(t *testing.T) {
	dev := NewBlank()
	want := onewire.Address{FamilyCode, 0, 0, 0, 0, 0, 0, FamilyCode}
	if dev.Address() != want {
		t.Fatalf("NewBlank address = %v, want %v", dev.Address(), want)
	}
}

func TestCloneTypeString(t *testing.T) {
	cases := map[CloneType]string{
		DS1990:   "DS1990",
		RW1990P1: "RW1990 P1",
		RW1990P2: "RW1990 P2",
		TM01:     "TM01",
		TM2004:   "TM2004",
		Cyfral:   "Cyfral",
		Metacom:  "Metacom",
	}
	for t2, want := range cases {
		if got := t2.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", t2, got, want)
		}
	}
}

func TestWriteAddressRejectsUnsupported(t *testing.T) {
	dev := NewBlank()
	bus := &onewiretest.FakeBus{}
	driver := onewire.NewDriver(bus, false)
	for _, ct := range []CloneType{DS1990, Cyfral, Metacom} {
		if err := dev.WriteAddress(driver, bus, ct); err != onewire.ErrNotSupport {
			t.Errorf("WriteAddress(%s) = %v, want ErrNotSupport", ct, err)
		}
	}
}

// expectSetWriteLock appends the scripted setWriteLock sequence for the
// given set/get commands and lock bit, with the token answering result.
func expectSetWriteLock(bus *onewiretest.FakeBus, setCmd, getCmd byte, lockBit bool, result byte) {
	bus.ExpectReset(true)
	bus.ExpectWriteByte(setCmd)
	bus.ExpectWriteBit(lockBit)
	bus.ExpectDelay(10000)
	bus.ExpectReset(true)
	bus.ExpectWriteByte(getCmd)
	bus.ExpectReadBytes([]byte{result})
}

func TestDetectTypeRW1990P1(t *testing.T) {
	bus := &onewiretest.FakeBus{}
	driver := onewire.NewDriver(bus, false)

	// set_write_lock(Rw1990p1, true) inverts lock to false, succeeds.
	expectSetWriteLock(bus, cmdWriteLockSet1, cmdWriteLockGet1, false, lockUnlocked)
	// set_write_lock(Rw1990p1, false) restores the lock, inverted to true.
	expectSetWriteLock(bus, cmdWriteLockSet1, cmdWriteLockGet1, true, 0x00)

	got, err := DetectType(driver, bus)
	if err != nil {
		t.Fatal(err)
	}
	if got != RW1990P1 {
		t.Fatalf("DetectType = %s, want RW1990 P1", got)
	}
	if err := bus.Done(); err != nil {
		t.Fatal(err)
	}
}

func TestWriteAddressRW1990P1(t *testing.T) {
	addr, err := onewire.ParseAddress("0122334455667701")
	if err != nil {
		t.Fatal(err)
	}
	dev, err := New(addr)
	if err != nil {
		t.Fatal(err)
	}

	bus := &onewiretest.FakeBus{}
	driver := onewire.NewDriver(bus, false)

	// Unlock: set_write_lock(Rw1990p1, false) inverts to write bit true.
	expectSetWriteLock(bus, cmdWriteLockSet1, cmdWriteLockGet1, true, lockUnlocked)
	bus.ExpectReset(true)
	bus.ExpectWriteByte(cmdWriteRomRW)
	bus.ExpectWriteBytesRW(addr[:], true)
	// Lock: set_write_lock(Rw1990p1, true) inverts to write bit false.
	expectSetWriteLock(bus, cmdWriteLockSet1, cmdWriteLockGet1, false, lockUnlocked)

	if err := dev.WriteAddressRW1990(driver, bus, RW1990P1); err != nil {
		t.Fatal(err)
	}
	if err := bus.Done(); err != nil {
		t.Fatal(err)
	}
}

func TestWriteAddressRW1990P2(t *testing.T) {
	addr, err := onewire.ParseAddress("0122334455667701")
	if err != nil {
		t.Fatal(err)
	}
	dev, err := New(addr)
	if err != nil {
		t.Fatal(err)
	}

	bus := &onewiretest.FakeBus{}
	driver := onewire.NewDriver(bus, false)

	// RW1990 P2 does not invert the lock bit or the programmed bytes.
	expectSetWriteLock(bus, cmdWriteLockSet2, cmdWriteLockGet2, false, lockUnlocked)
	bus.ExpectReset(true)
	bus.ExpectWriteByte(cmdWriteRomRW)
	bus.ExpectWriteBytesRW(addr[:], false)
	expectSetWriteLock(bus, cmdWriteLockSet2, cmdWriteLockGet2, true, lockUnlocked)

	if err := dev.WriteAddressRW1990(driver, bus, RW1990P2); err != nil {
		t.Fatal(err)
	}
	if err := bus.Done(); err != nil {
		t.Fatal(err)
	}
}

func TestWriteAddressTM01(t *testing.T) {
	addr, err := onewire.ParseAddress("0122334455667701")
	if err != nil {
		t.Fatal(err)
	}
	dev, err := New(addr)
	if err != nil {
		t.Fatal(err)
	}

	bus := &onewiretest.FakeBus{}
	driver := onewire.NewDriver(bus, false)

	expectSetWriteLock(bus, cmdWriteLockSet3, cmdWriteLockGet1, false, lockUnlocked)
	bus.ExpectReset(true)
	bus.ExpectWriteByte(cmdWriteRomRW)
	bus.ExpectWriteBytesRW(addr[:], true)
	expectSetWriteLock(bus, cmdWriteLockSet3, cmdWriteLockGet1, true, lockUnlocked)

	if err := dev.WriteAddressRW1990(driver, bus, TM01); err != nil {
		t.Fatal(err)
	}
	if err := bus.Done(); err != nil {
		t.Fatal(err)
	}
}

func TestWriteAddressTM2004(t *testing.T) {
	addr, err := onewire.ParseAddress("0122334455667701")
	if err != nil {
		t.Fatal(err)
	}
	dev, err := New(addr)
	if err != nil {
		t.Fatal(err)
	}

	bus := &onewiretest.FakeBus{}
	driver := onewire.NewDriver(bus, false)

	for i, b := range addr {
		write := []byte{cmdWriteRomTM, byte(i), 0x00, b}
		bus.ExpectReset(true)
		bus.ExpectWriteBytes(write)
		bus.ExpectReadBytes([]byte{onewire.UpdateCRC8(0, write)})
	}
	bus.ExpectProgramPulse()

	if err := dev.WriteAddressTM2004(driver, bus); err != nil {
		t.Fatal(err)
	}
	if err := bus.Done(); err != nil {
		t.Fatal(err)
	}
}

func TestWriteAddressTM2004CrcMismatch(t *testing.T) {
	addr, err := onewire.ParseAddress("0122334455667701")
	if err != nil {
		t.Fatal(err)
	}
	dev, err := New(addr)
	if err != nil {
		t.Fatal(err)
	}

	bus := &onewiretest.FakeBus{}
	driver := onewire.NewDriver(bus, false)

	write := []byte{cmdWriteRomTM, 0, 0x00, addr[0]}
	bus.ExpectReset(true)
	bus.ExpectWriteBytes(write)
	bus.ExpectReadBytes([]byte{onewire.UpdateCRC8(0, write) ^ 0xFF}) // corrupted echo

	err = dev.WriteAddressTM2004(driver, bus)
	var crcErr *onewire.CrcMismatchError
	if !errors.As(err, &crcErr) {
		t.Fatalf("WriteAddressTM2004 error = %v, want *onewire.CrcMismatchError", err)
	}
}

func TestDetectTypeTM2004(t *testing.T) {
	bus := &onewiretest.FakeBus{}
	driver := onewire.NewDriver(bus, false)

	// Both RW1990 lock probes report not-locked.
	expectSetWriteLock(bus, cmdWriteLockSet1, cmdWriteLockGet1, false, 0x00)
	expectSetWriteLock(bus, cmdWriteLockSet2, cmdWriteLockGet2, true, 0x00)

	write := []byte{cmdReadStatusTM, 0x00, 0x00}
	crc := onewire.UpdateCRC8(0, write)
	bus.ExpectReset(true)
	bus.ExpectWriteBytes(write)
	bus.ExpectReadBytes([]byte{crc, 0x00})
	bus.ExpectReset(true)

	got, err := DetectType(driver, bus)
	if err != nil {
		t.Fatal(err)
	}
	if got != TM2004 {
		t.Fatalf("DetectType = %s, want TM2004", got)
	}
	if err := bus.Done(); err != nil {
		t.Fatal(err)
	}
}
