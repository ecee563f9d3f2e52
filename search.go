// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package onewire

// searchState is the tri-state progress marker of a DeviceSearch cursor.
type searchState int

const (
	searchInitialized searchState = iota
	searchDeviceFound
	searchEnd
)

// DeviceSearch is a resumable cursor over the binary-tree ROM search
// described in Maxim AppNote 187. It is a plain value type: copy it,
// store it, pass it between calls to Driver.SearchNext as long as the
// same bus is being enumerated. Reuse across buses is undefined.
type DeviceSearch struct {
	address       [8]byte
	discrepancies [8]byte
	state         searchState
}

// NewDeviceSearch returns a cursor ready to enumerate every device on the
// bus, in an order determined by bus contention rather than address
// order.
func NewDeviceSearch() DeviceSearch {
	return DeviceSearch{}
}

// NewDeviceSearchForFamily returns a cursor pre-seeded with family in the
// first ROM byte, biasing the first search iteration toward devices of
// that family. This is not a filter: a caller that needs only devices of
// a specific family must still check FamilyCode() on each result, exactly
// as SearchFirstAddress does.
func NewDeviceSearchForFamily(family byte) DeviceSearch {
	s := NewDeviceSearch()
	s.address[0] = family
	return s
}

func isBitSet(array [8]byte, bit int) bool {
	return array[bit/8]&(1<<uint(bit%8)) != 0
}

func setBit(array *[8]byte, bit int) {
	array[bit/8] |= 1 << uint(bit%8)
}

func clearBit(array *[8]byte, bit int) {
	array[bit/8] &^= 1 << uint(bit%8)
}

func writeBitTo(array *[8]byte, bit int, value bool) {
	if value {
		setBit(array, bit)
	} else {
		clearBit(array, bit)
	}
}

// LastDiscrepancy returns the highest bit position at which a 0 branch
// was chosen while a 1 branch remained unexplored, or ok=false if no such
// position remains (the tree has been fully walked on this path).
func (s *DeviceSearch) LastDiscrepancy() (bit int, ok bool) {
	for i := 0; i < len(s.address)*8; i++ {
		if isBitSet(s.discrepancies, i) {
			bit, ok = i, true
		}
	}
	return bit, ok
}

// SearchNext runs one iteration of the plain (non-alarm) device search.
func (d *Driver) SearchNext(search *DeviceSearch, delay Delayer) (Address, bool, error) {
	return d.search(search, delay, opSearchRom)
}

// SearchNextAlarmed runs one iteration of the alarm-filtered device
// search: only devices currently in an alarm condition respond.
func (d *Driver) SearchNextAlarmed(search *DeviceSearch, delay Delayer) (Address, bool, error) {
	return d.search(search, delay, opSearchRomAlarmed)
}

// search implements the depth-first binary-tree walk shared by
// SearchNext and SearchNextAlarmed. See the package documentation and
// Maxim AppNote 187 for the algorithm; heavily cross-checked against the
// Arduino OneWire library's Search() and the katyo/onewire Rust crate's
// search.rs, which this port is line-for-line faithful to.
func (d *Driver) search(search *DeviceSearch, delay Delayer, cmd byte) (Address, bool, error) {
	if search.state == searchEnd {
		return Address{}, false, nil
	}

	lastDiscrepancy, haveLastDiscrepancy := search.LastDiscrepancy()

	present, err := d.ResetPresence(delay)
	if err != nil {
		return Address{}, false, err
	}
	if !present {
		return Address{}, false, nil
	}

	if err := d.WriteByte(delay, cmd, false); err != nil {
		return Address{}, false, err
	}

	if haveLastDiscrepancy {
		// Replay phase: re-walk the path taken last time, bit for bit.
		for i := 0; i < lastDiscrepancy; i++ {
			bit0, err := d.ReadBit(delay)
			if err != nil {
				return Address{}, false, err
			}
			bit1, err := d.ReadBit(delay)
			if err != nil {
				return Address{}, false, err
			}
			if bit0 && bit1 {
				// No device responded; the bus changed under us.
				return Address{}, false, nil
			}
			bit := isBitSet(search.address, i)
			if err := d.WriteBit(delay, bit); err != nil {
				return Address{}, false, err
			}
		}
	} else if search.state == searchDeviceFound {
		// No discrepancy left and we've already reported a device: the
		// one found previously was the last one on the bus.
		search.state = searchEnd
		return Address{}, false, nil
	}

	discrepancyFound := false
	start := 0
	if haveLastDiscrepancy {
		start = lastDiscrepancy
	}
	for i := start; i < len(search.address)*8; i++ {
		bit0, err := d.ReadBit(delay) // true iff every responder has a 1 here
		if err != nil {
			return Address{}, false, err
		}
		bit1, err := d.ReadBit(delay) // true iff every responder has a 0 here
		if err != nil {
			return Address{}, false, err
		}

		if haveLastDiscrepancy && i == lastDiscrepancy {
			// Force the sibling branch: we took 0 here last time.
			clearBit(&search.discrepancies, i)
			setBit(&search.address, i)
			if err := d.WriteBit(delay, true); err != nil {
				return Address{}, false, err
			}
			continue
		}

		switch {
		case bit0 && bit1:
			// No device answered either branch: the bus changed under us.
			return Address{}, false, nil
		case !bit0 && !bit1:
			// Genuine discrepancy: take the 0 branch now, remember the 1
			// branch for a future call.
			discrepancyFound = true
			setBit(&search.discrepancies, i)
			clearBit(&search.address, i)
			if err := d.WriteBit(delay, false); err != nil {
				return Address{}, false, err
			}
		default:
			// All responders agree; bit1 is the complement of bit0, so
			// bit0 alone tells us which value they all share.
			writeBitTo(&search.address, i, bit0)
			if err := d.WriteBit(delay, bit0); err != nil {
				return Address{}, false, err
			}
		}
	}

	if _, stillHaveDiscrepancy := search.LastDiscrepancy(); !discrepancyFound && !stillHaveDiscrepancy {
		search.state = searchEnd
	} else {
		search.state = searchDeviceFound
	}
	return Address(search.address), true, nil
}

// Search adapts a DeviceSearch and Driver into a Go 1.23
// range-over-func iterator, so callers can write:
//
//	for addr, err := range onewire.Search(driver, onewire.NewDeviceSearch(), delay) {
//	    if err != nil { ... }
//	}
//
// matching the katyo/onewire Rust crate's DeviceSearchIter. The iterator
// is a thin wrapper over Driver.SearchNext and advances its own copy of
// search: the caller's DeviceSearch value is not updated, so stepping
// past an error from a known position means calling Driver.SearchNext
// on a cursor the caller holds.
func Search(d *Driver, search DeviceSearch, delay Delayer) func(yield func(Address, error) bool) {
	return func(yield func(Address, error) bool) {
		for {
			addr, found, err := d.SearchNext(&search, delay)
			if err != nil {
				yield(Address{}, err)
				return
			}
			if !found {
				return
			}
			if !yield(addr, nil) {
				return
			}
		}
	}
}
