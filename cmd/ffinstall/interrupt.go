package main

import (
	"os"
	"os/signal"
)

// exitOnInterrupt calls exit(0) as soon as the process receives SIGINT.
// Running subprocesses get the terminal's SIGINT themselves.
// The returned function stops watching.
func exitOnInterrupt(exit func(int)) (stop func()) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	done := make(chan struct{})

	go watchInterrupt(sig, done, exit)

	return func() {
		signal.Stop(sig)
		close(done)
	}
}

func watchInterrupt(sig <-chan os.Signal, done <-chan struct{}, exit func(int)) {
	select {
	case <-sig:
		exit(0)
	case <-done:
	}
}
