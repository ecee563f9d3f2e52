// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package onewire implements a bit-banged master-side driver for the
// Dallas/Maxim 1-Wire bus.
//
// The bus is a single-wire, half-duplex, open-drain protocol. This package
// owns none of the hardware: it is given a BusLine capability (drive the
// line low, release it high, read its level) and a Delayer capability
// (block for at least N microseconds) and from those two primitives alone
// implements the full master-side state machine: reset/presence, bit and
// byte I/O, the binary-tree ROM search, address parsing/formatting and its
// CRC-8, and compound reset+select/skip transactions.
//
// Device-specific command sequences (DS18B20 thermometer, DS1990/RW1990/TM
// clone tokens) live in the onewire/ds18b20 and onewire/ds1990
// subpackages, which take a *Driver and an Address and compose the
// primitives defined here.
//
// References
//
// Maxim AppNote 126: https://www.maximintegrated.com/en/design/technical-documents/app-notes/1/126.html
//
// Maxim AppNote 187 (search algorithm): https://www.maximintegrated.com/en/design/technical-documents/app-notes/1/187.html
package onewire
