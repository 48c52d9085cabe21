package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatchInterrupt(t *testing.T) {
	t.Parallel()

	t.Run("exits zero on interrupt", func(t *testing.T) {
		t.Parallel()
		sig := make(chan os.Signal, 1)
		done := make(chan struct{})
		codes := make(chan int, 1)

		go watchInterrupt(sig, done, func(code int) { codes <- code })
		sig <- os.Interrupt

		select {
		case code := <-codes:
			assert.Equal(t, 0, code)
		case <-time.After(5 * time.Second):
			t.Fatal("exit was not called")
		}
	})

	t.Run("stop without interrupt", func(t *testing.T) {
		t.Parallel()
		sig := make(chan os.Signal, 1)
		done := make(chan struct{})
		called := false

		finished := make(chan struct{})
		go func() {
			watchInterrupt(sig, done, func(int) { called = true })
			close(finished)
		}()
		close(done)

		select {
		case <-finished:
			assert.False(t, called)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	})
}

func TestExitOnInterrupt_Stop(t *testing.T) {
	t.Parallel()
	stop := exitOnInterrupt(func(int) { t.Error("exit called without interrupt") })
	stop()
}
