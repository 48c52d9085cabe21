package main

import (
	"context"
	"os"
)

// Set via -ldflags at release time.
var (
	appName = "FaceFusion"
	version = "3.5.0"
)

func main() {
	stop := exitOnInterrupt(os.Exit)
	code := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
