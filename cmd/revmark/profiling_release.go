//go:build !debug

package main

import "log"

// initProfiling does nothing unless built with -tags debug
func initProfiling(_ *log.Logger) {}

// finishProfiling does nothing unless built with -tags debug
func finishProfiling() {}
