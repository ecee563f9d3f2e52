// Copyright 2026 The onewire Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// onewire-list enumerates every device answering on a bit-banged 1-Wire
// bus driven from a single host GPIO pin.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"go.bitbang.dev/onewire"
	"go.bitbang.dev/onewire/hostgpio"
)

func mainImpl() error {
	pinName := flag.String("pin", "", "name of the GPIO pin the bus data line is wired to, e.g. GPIO4")
	alarmed := flag.Bool("alarm", false, "list only devices currently in an alarm condition")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if *pinName == "" {
		return errors.New("-pin is required, try -help")
	}

	if err := hostgpio.Init(); err != nil {
		return err
	}
	pin := gpioreg.ByName(*pinName)
	if pin == nil {
		return fmt.Errorf("no such GPIO pin: %s", *pinName)
	}
	log.Printf("using pin %s", pin)

	line, err := hostgpio.NewLine(pin, gpio.PullUp)
	if err != nil {
		return err
	}
	driver := onewire.NewDriver(line, false)
	delay := hostgpio.RealTimeDelayer{}

	search := onewire.NewDeviceSearch()
	count := 0
	for {
		var (
			addr  onewire.Address
			found bool
		)
		if *alarmed {
			addr, found, err = driver.SearchNextAlarmed(&search, delay)
		} else {
			addr, found, err = driver.SearchNext(&search, delay)
		}
		if err != nil {
			return err
		}
		if !found {
			break
		}
		count++
		fmt.Printf("%s  family=%#02x\n", addr, addr.FamilyCode())
	}
	if count == 0 {
		fmt.Println("no devices found")
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "onewire-list: %s.\n", err)
		os.Exit(1)
	}
}
