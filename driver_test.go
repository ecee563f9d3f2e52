// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewire

import (
	"errors"
	"testing"
)

type nopDelayer struct{}

func (nopDelayer) DelayMicroseconds(us uint32) {}

// fakeLine is a minimal scripted BusLine for whitebox Driver tests that
// don't need the full bit-accurate transcript onewiretest.FakeBus
// provides (that package can't be imported here without an import
// cycle, since it depends on this package).
type fakeLine struct {
	highResponses []bool
	lowResponses  []bool
	wireFault     bool
}

func (f *fakeLine) SetLow() error  { return nil }
func (f *fakeLine) SetHigh() error { return nil }

func (f *fakeLine) IsHigh() (bool, error) {
	if f.wireFault {
		return false, nil
	}
	if len(f.highResponses) == 0 {
		return true, nil
	}
	r := f.highResponses[0]
	f.highResponses = f.highResponses[1:]
	return r, nil
}

func (f *fakeLine) IsLow() (bool, error) {
	if len(f.lowResponses) == 0 {
		return false, nil
	}
	r := f.lowResponses[0]
	f.lowResponses = f.lowResponses[1:]
	return r, nil
}

func TestResetPresence(t *testing.T) {
	line := &fakeLine{lowResponses: []bool{true, false, false, false, false, false, false}}
	d := NewDriver(line, false)
	present, err := d.ResetPresence(nopDelayer{})
	if err != nil {
		t.Fatal(err)
	}
	if !present {
		t.Fatal("expected presence")
	}
}

func TestResetNoPresence(t *testing.T) {
	line := &fakeLine{lowResponses: []bool{false, false, false, false, false, false, false}}
	d := NewDriver(line, false)
	present, err := d.ResetPresence(nopDelayer{})
	if err != nil {
		t.Fatal(err)
	}
	if present {
		t.Fatal("expected no presence")
	}
}

func TestResetWireFault(t *testing.T) {
	line := &fakeLine{wireFault: true}
	d := NewDriver(line, false)
	_, err := d.ResetPresence(nopDelayer{})
	if !errors.Is(err, ErrWireFault) {
		t.Fatalf("got %v, want ErrWireFault", err)
	}
}

func TestReadByteLSBFirst(t *testing.T) {
	line := &fakeLine{highResponses: []bool{false, true, false, false, true, false, false, true}}
	d := NewDriver(line, false)
	got, err := d.ReadByte(nopDelayer{})
	if err != nil {
		t.Fatal(err)
	}
	// LSB-first: bits 0,1,0,0,1,0,0,1 -> 0b1001_0010 = 0x92.
	if got != 0x92 {
		t.Fatalf("ReadByte = %#02x, want 0x92", got)
	}
}

func TestSelectWritesMatchRomAndAddress(t *testing.T) {
	line := &fakeLine{}
	d := NewDriver(line, false)
	addr := Address{0x28, 0xff, 0x64, 0x1c, 0x80, 0x16, 0x05, 0x0a}
	if err := d.Select(nopDelayer{}, addr); err != nil {
		t.Fatal(err)
	}
}

func TestParasiteModeToggle(t *testing.T) {
	d := NewDriver(&fakeLine{}, false)
	if d.ParasiteMode() {
		t.Fatal("expected parasite mode to start false")
	}
	d.SetParasiteMode(true)
	if !d.ParasiteMode() {
		t.Fatal("expected parasite mode to be true after SetParasiteMode(true)")
	}
}
