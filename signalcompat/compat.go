// Package signalcompat installs the process-wide signal handling that
// the trap-flag and hardware-breakpoint detectors depend on: latched
// flags that are cleared before a probe arms them and read exactly
// once after the trigger, plus the ANTIDEBUG_GDB_COMPATIBLE escape
// hatch.
//
// Go does not let user code install a handler that resumes execution
// mid-fault the way a C sigaction + ucontext_t handler can. The
// closest idiomatic equivalent is a small forwarding goroutine reading
// from a channel registered with signal.Notify: the Go runtime's own
// signal trampoline plays the role of "the handler", and this package
// just observes what arrived. This is the one dedicated goroutine in
// the repository that is not a detector worker — it is the ambient
// signal-plumbing infrastructure the spec's handlers describe.
package signalcompat

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

var (
	trapReceived atomic.Bool
	segvReceived atomic.Bool
	busReceived  atomic.Bool

	sigCh chan os.Signal
	done  chan struct{}
)

// Init installs the SIGTRAP/SIGBUS notification channel and an
// alternate signal stack, and starts the forwarding loop. It must be
// called once, before any detector arms a latch.
func Init() {
	sigCh = make(chan os.Signal, 16)
	done = make(chan struct{})
	signal.Notify(sigCh, syscall.SIGTRAP, syscall.SIGBUS)

	setupAltStack()

	go forward()
}

// Teardown stops signal delivery and the forwarding loop. Safe to call
// even if Init was never called.
func Teardown() {
	if sigCh == nil {
		return
	}
	signal.Stop(sigCh)
	close(done)
}

func forward() {
	for {
		select {
		case sig, ok := <-sigCh:
			if !ok {
				return
			}
			switch sig {
			case syscall.SIGTRAP:
				trapReceived.Store(true)
			case syscall.SIGBUS:
				busReceived.Store(true)
			}
		case <-done:
			return
		}
	}
}

var altStackBuf []byte

func setupAltStack() {
	altStackBuf = make([]byte, 32*1024)
	// stack_t as laid out by the x86_64 Linux kernel.
	altStack := struct {
		ssSp    *byte
		ssFlags int32
		_       int32
		ssSize  uint64
	}{
		ssSp:   (*byte)(unsafe.Pointer(&altStackBuf[0])),
		ssSize: uint64(len(altStackBuf)),
	}
	_, _, _ = unix.Syscall(unix.SYS_SIGALTSTACK, uintptr(unsafe.Pointer(&altStack)), 0, 0)
}

// ArmTrapFlag clears the trap-received latch before the trap-flag
// detector triggers the TF bit.
func ArmTrapFlag() {
	trapReceived.Store(false)
}

// TrapReceived reports whether a SIGTRAP has arrived since the latch
// was last armed.
func TrapReceived() bool {
	return trapReceived.Load()
}

// SetSegvReceived is called by the hardware-breakpoint detector after
// its own recover()-based fault handling (see primitives.ReadDR7),
// keeping the segv_received latch consistent with the rest of the
// signal-compatibility API even though that probe does not go through
// the notification channel.
func SetSegvReceived(v bool) {
	segvReceived.Store(v)
}

// SegvReceived reports the most recently latched SIGSEGV state.
func SegvReceived() bool {
	return segvReceived.Load()
}

// BusReceived reports whether a SIGBUS has arrived since Init.
func BusReceived() bool {
	return busReceived.Load()
}

// GDBCompatible reports whether ANTIDEBUG_GDB_COMPATIBLE is set to any
// non-empty value, disabling the trap-flag detector.
func GDBCompatible() bool {
	return os.Getenv("ANTIDEBUG_GDB_COMPATIBLE") != ""
}
