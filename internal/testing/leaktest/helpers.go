// Package leaktest checks that background loops exit when they are told to.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleTimeout = 2 * time.Second
	pollInterval  = 10 * time.Millisecond
	stackBufSize  = 1 << 16
)

// GoroutineChecker records the goroutine count at creation
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker creates a checker and records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{
		before: runtime.NumGoroutine(),
		t:      t,
	}
}

// Check waits for the goroutine count to fall back to at most before+tolerance.
// On timeout it fails the test and logs every goroutine stack.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	target := g.before + tolerance
	if settle(target, settleTimeout) {
		return
	}

	after := runtime.NumGoroutine()
	buf := make([]byte, stackBufSize)
	n := runtime.Stack(buf, true)
	g.t.Errorf("Potential goroutine leak: before=%d, after=%d, leaked=%d (tolerance=%d)\n%s",
		g.before, after, after-g.before, tolerance, buf[:n])
}

// CheckNoGoroutineLeak fails t if fn leaves goroutines running
func CheckNoGoroutineLeak(t *testing.T, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}

// WaitForGoroutines waits until at most target goroutines are running
func WaitForGoroutines(t *testing.T, target int, timeout time.Duration) {
	t.Helper()

	if !settle(target, timeout) {
		t.Errorf("Timeout waiting for goroutines to complete: current=%d, target=%d",
			runtime.NumGoroutine(), target)
	}
}

func settle(target int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		runtime.Gosched()
		if runtime.NumGoroutine() <= target {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollInterval)
	}
}
