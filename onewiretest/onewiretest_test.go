// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewiretest

import (
	"testing"

	"go.bitbang.dev/onewire"
)

func TestFakeBusResetSelectWriteRead(t *testing.T) {
	addr := onewire.Address{0x28, 0xff, 0x64, 0x1c, 0x80, 0x16, 0x05, 0x0a}
	bus := &FakeBus{}
	bus.ExpectReset(true)
	bus.ExpectSelect(addr)
	bus.ExpectWriteByte(0xBE)
	bus.ExpectReadBytes([]byte{1, 2, 3})

	driver := onewire.NewDriver(bus, false)
	var read [3]byte
	if err := driver.ResetSelectWriteRead(bus, addr, []byte{0xBE}, read[:]); err != nil {
		t.Fatal(err)
	}
	if read != [3]byte{1, 2, 3} {
		t.Fatalf("read %v, want [1 2 3]", read)
	}
	if err := bus.Done(); err != nil {
		t.Fatal(err)
	}
}

func TestFakeBusDetectsUnexpectedCall(t *testing.T) {
	bus := &FakeBus{}
	bus.ExpectReset(true)
	// No Select scripted: the driver's next call should fail.
	driver := onewire.NewDriver(bus, false)
	addr := onewire.Address{0x28, 0xff, 0x64, 0x1c, 0x80, 0x16, 0x05, 0x0a}
	if err := driver.ResetSelectWriteOnly(bus, addr, []byte{0x44}); err == nil {
		t.Fatal("expected an error once the script ran out")
	}
}

func TestFakeBusDoneRejectsLeftoverScript(t *testing.T) {
	bus := &FakeBus{}
	bus.ExpectReset(true)
	if err := bus.Done(); err == nil {
		t.Fatal("expected Done to reject an unconsumed script")
	}
}
