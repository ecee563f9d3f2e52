// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package onewiretest provides fakes for testing code built on
// go.bitbang.dev/onewire without real hardware.
//
// FakeBus operates one level below the teacher package's byte-oriented
// onewiretest.Playback: it scripts the exact BusLine primitive calls
// (SetLow/SetHigh/IsHigh/IsLow) and Delayer calls a Driver issues, since
// this module's Driver talks to a bit-level line rather than a
// transaction-level bus. The Expect* builders translate familiar
// operations (reset, select, write, read) into that primitive script, so
// test authors don't need to hand-encode timing themselves.
package onewiretest

import "fmt"

// NopDelayer implements onewire.Delayer by doing nothing. It's useful
// paired with a BusLine fake that doesn't care about elapsed time, such
// as a hand-rolled stub that always reports presence.
type NopDelayer struct{}

// DelayMicroseconds implements onewire.Delayer.
func (NopDelayer) DelayMicroseconds(us uint32) {}

type eventKind int

const (
	evSetLow eventKind = iota
	evSetHigh
	evIsHigh
	evIsLow
	evDelay
)

func (k eventKind) String() string {
	switch k {
	case evSetLow:
		return "SetLow"
	case evSetHigh:
		return "SetHigh"
	case evIsHigh:
		return "IsHigh"
	case evIsLow:
		return "IsLow"
	case evDelay:
		return "DelayMicroseconds"
	default:
		return "?"
	}
}

type event struct {
	kind eventKind
	resp bool
	us   uint32
}

// FakeBus is a scripted BusLine and Delayer. Build the expected call
// script with the Expect* methods in the exact order a Driver will issue
// it, exercise the Driver, then call Done to confirm nothing was left
// unconsumed.
//
// A mismatch between what the Driver actually does and what was
// scripted surfaces as an error return from SetLow/SetHigh/IsHigh/IsLow
// (which the Driver then reports to its caller) or, for
// DelayMicroseconds (which the onewire.Delayer interface gives no error
// return from), a panic.
type FakeBus struct {
	events []event
	pos    int
}

func (b *FakeBus) String() string { return "fakebus" }

func (b *FakeBus) next(kind eventKind) (event, error) {
	if b.pos >= len(b.events) {
		return event{}, fmt.Errorf("onewiretest: unexpected %s call past end of script (%d ops scripted)", kind, len(b.events))
	}
	e := b.events[b.pos]
	if e.kind != kind {
		return event{}, fmt.Errorf("onewiretest: op #%d: got %s, want %s", b.pos, kind, e.kind)
	}
	b.pos++
	return e, nil
}

// SetLow implements onewire.BusLine.
func (b *FakeBus) SetLow() error {
	_, err := b.next(evSetLow)
	return err
}

// SetHigh implements onewire.BusLine.
func (b *FakeBus) SetHigh() error {
	_, err := b.next(evSetHigh)
	return err
}

// IsHigh implements onewire.BusLine.
func (b *FakeBus) IsHigh() (bool, error) {
	e, err := b.next(evIsHigh)
	if err != nil {
		return false, err
	}
	return e.resp, nil
}

// IsLow implements onewire.BusLine.
func (b *FakeBus) IsLow() (bool, error) {
	e, err := b.next(evIsLow)
	if err != nil {
		return false, err
	}
	return e.resp, nil
}

// DelayMicroseconds implements onewire.Delayer. The onewire.Delayer
// interface has no error return, so a scripting mismatch here panics
// rather than propagating through the Driver call in progress.
func (b *FakeBus) DelayMicroseconds(us uint32) {
	e, err := b.next(evDelay)
	if err != nil {
		panic(err)
	}
	if e.us != us {
		panic(fmt.Sprintf("onewiretest: op #%d: delay of %dus, want %dus", b.pos-1, us, e.us))
	}
}

// Done reports whether every scripted operation was consumed.
func (b *FakeBus) Done() error {
	if b.pos != len(b.events) {
		return fmt.Errorf("onewiretest: script left with %d of %d ops unconsumed", len(b.events)-b.pos, len(b.events))
	}
	return nil
}

func (b *FakeBus) push(e event) { b.events = append(b.events, e) }

// appendWriteBit scripts one WriteBit(bit) call: the 65us/10us low
// period, the high period, and nothing else, matching Driver.WriteBit.
func (b *FakeBus) appendWriteBit(bit bool) {
	b.push(event{kind: evSetLow})
	if bit {
		b.push(event{kind: evDelay, us: 10})
	} else {
		b.push(event{kind: evDelay, us: 65})
	}
	b.push(event{kind: evSetHigh})
	if bit {
		b.push(event{kind: evDelay, us: 55})
	} else {
		b.push(event{kind: evDelay, us: 5})
	}
}

// appendWriteByte scripts one non-parasitic WriteByte(value, false)
// call: 8 WriteBit calls LSB-first followed by the trailing SetLow that
// Driver.disableParasiteMode(false) issues.
func (b *FakeBus) appendWriteByte(value byte) {
	for i := 0; i < 8; i++ {
		b.appendWriteBit((value>>uint(i))&1 != 0)
	}
	b.push(event{kind: evSetLow})
}

// appendReadBit scripts one ReadBit call returning bit.
func (b *FakeBus) appendReadBit(bit bool) {
	b.push(event{kind: evSetLow})
	b.push(event{kind: evDelay, us: 3})
	b.push(event{kind: evSetHigh})
	b.push(event{kind: evDelay, us: 2})
	b.push(event{kind: evIsHigh, resp: bit})
	b.push(event{kind: evDelay, us: 61})
}

func (b *FakeBus) appendReadByte(value byte) {
	for i := 0; i < 8; i++ {
		b.appendReadBit((value>>uint(i))&1 != 0)
	}
}

// ExpectReset scripts a reset/presence handshake: the line rises
// immediately when released, and presence reports present on the first
// of the seven presence-sampling slots (or never, if present is false).
func (b *FakeBus) ExpectReset(present bool) {
	b.push(event{kind: evSetHigh})
	b.push(event{kind: evIsHigh, resp: true})
	b.push(event{kind: evSetLow})
	b.push(event{kind: evDelay, us: 480})
	b.push(event{kind: evSetHigh})
	for i := 0; i < 7; i++ {
		b.push(event{kind: evDelay, us: 10})
		b.push(event{kind: evIsLow, resp: present && i == 0})
	}
	b.push(event{kind: evDelay, us: 410})
}

// matchRom is the MatchRom opcode, duplicated here rather than imported
// so this package stays independent of onewire's unexported constants.
const matchRom = 0x55

// ExpectSelect scripts Driver.Select(addr): MatchRom followed by the 8
// address bytes, each written with parasite mode off.
func (b *FakeBus) ExpectSelect(addr [8]byte) {
	b.appendWriteByte(matchRom)
	for _, v := range addr {
		b.appendWriteByte(v)
	}
}

// skipRom is the SkipRom opcode; see matchRom.
const skipRom = 0xCC

// ExpectSkip scripts Driver.Skip(): a single SkipRom byte.
func (b *FakeBus) ExpectSkip() {
	b.appendWriteByte(skipRom)
}

// ExpectWriteBytes scripts Driver.WriteBytes(data): each byte written
// non-parasitically, followed by the one extra trailing SetLow that
// WriteBytes' own end-of-transaction cleanup issues.
func (b *FakeBus) ExpectWriteBytes(data []byte) {
	for _, v := range data {
		b.appendWriteByte(v)
	}
	b.push(event{kind: evSetLow})
}

// ExpectWriteByte scripts a single-byte Driver.WriteBytes call, the
// common case of sending one command byte.
func (b *FakeBus) ExpectWriteByte(value byte) {
	b.ExpectWriteBytes([]byte{value})
}

// ExpectReadBytes scripts Driver.ReadBytes(dst) returning data.
func (b *FakeBus) ExpectReadBytes(data []byte) {
	for _, v := range data {
		b.appendReadByte(v)
	}
}

// ExpectReadBit scripts a single Driver.ReadBit call returning bit.
func (b *FakeBus) ExpectReadBit(bit bool) {
	b.appendReadBit(bit)
}

// ExpectWriteBit scripts a single Driver.WriteBit(bit) call.
func (b *FakeBus) ExpectWriteBit(bit bool) {
	b.appendWriteBit(bit)
}

// ExpectDelay scripts a bare Delayer.DelayMicroseconds(us) call that
// isn't part of any of the other Expect* primitives, such as the
// RW1990 lock dance's explicit 10ms settle between writing the lock bit
// and reading it back.
func (b *FakeBus) ExpectDelay(us uint32) {
	b.push(event{kind: evDelay, us: us})
}

// ExpectWriteBitRW scripts one Driver.WriteBitRW(bit) call: the
// RW1990/TM01 clone silicon's alternate programming slot, 6us low for a
// 1 or 60us low for a 0, followed by the 10ms program hold.
func (b *FakeBus) ExpectWriteBitRW(bit bool) {
	b.push(event{kind: evSetLow})
	if bit {
		b.push(event{kind: evDelay, us: 6})
	} else {
		b.push(event{kind: evDelay, us: 60})
	}
	b.push(event{kind: evSetHigh})
	b.push(event{kind: evDelay, us: 10000})
}

// ExpectWriteByteRW scripts one Driver.WriteByteRW(value, invert) call:
// 8 WriteBitRW calls LSB-first, each bit complemented first if invert.
func (b *FakeBus) ExpectWriteByteRW(value byte, invert bool) {
	for i := 0; i < 8; i++ {
		bit := (value>>uint(i))&1 != 0
		if invert {
			bit = !bit
		}
		b.ExpectWriteBitRW(bit)
	}
}

// ExpectWriteBytesRW scripts one Driver.WriteBytesRW(data, invert) call.
func (b *FakeBus) ExpectWriteBytesRW(data []byte, invert bool) {
	for _, v := range data {
		b.ExpectWriteByteRW(v, invert)
	}
}

// ExpectProgramPulse scripts one Driver.ProgramPulse call: the TM2004
// EEPROM commit pulse, 600us high, 6us low, then a 50ms high settle.
func (b *FakeBus) ExpectProgramPulse() {
	b.push(event{kind: evSetHigh})
	b.push(event{kind: evDelay, us: 600})
	b.push(event{kind: evSetLow})
	b.push(event{kind: evDelay, us: 6})
	b.push(event{kind: evSetHigh})
	b.push(event{kind: evDelay, us: 50000})
}
