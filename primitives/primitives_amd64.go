//go:build linux && amd64

package primitives

import (
	"runtime/debug"
	"unsafe"
)

// SerializedRDTSC reads the time-stamp counter between two LFENCE
// fences, preventing reorder of surrounding memory operations across
// the timing window.
func SerializedRDTSC() uint64 {
	return serializedRDTSC()
}

func serializedRDTSC() uint64

// TriggerTrapFlag sets the trap flag, executes a single NOP, and
// clears the trap flag again. Whether the SIGTRAP raised after the NOP
// was delivered to this process's own signal handling (rather than
// swallowed by an attached tracer) is read afterward from
// signalcompat's trap_received latch, not from this function's return.
func TriggerTrapFlag() {
	triggerTrapFlagRaw()
}

func triggerTrapFlagRaw()

// readDR7Raw issues the privileged `mov rax, dr7`. See ReadDR7.
func readDR7Raw() uint64

// ReadDR7 attempts the forbidden debug-register read. On an honest
// Ring-3 CPU the instruction raises #GP, which the Go runtime — with
// debug.SetPanicOnFault enabled — converts into a recoverable panic in
// this goroutine rather than a process fault. Faulted is true in the
// native case (the fault occurred, as expected); it is false if the
// read instruction actually returned a value, which indicates the
// debug registers are not trapping (a virtualized or emulated CPU).
func ReadDR7() (faulted bool) {
	debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(false)
	defer func() {
		if recover() != nil {
			faulted = true
		}
	}()
	_ = readDR7Raw()
	return false
}

// MeasureNopJitter brackets 100 NOPs with serialized RDTSC reads.
func MeasureNopJitter() uint64 {
	return measureNopJitter()
}

func measureNopJitter() uint64

// MeasureMovJitter brackets 100 register-to-register MOVs with
// serialized RDTSC reads.
func MeasureMovJitter() uint64 {
	return measureMovJitter()
}

func measureMovJitter() uint64

// MeasureXorJitter brackets 100 self-XORs with serialized RDTSC reads.
func MeasureXorJitter() uint64 {
	return measureXorJitter()
}

func measureXorJitter() uint64

// MeasureAmplificationJitter brackets a 100-iteration inc/test/jz/jmp/
// dec/jnz loop designed to maximize per-instruction overhead under
// single-step, with serialized RDTSC reads.
func MeasureAmplificationJitter() uint64 {
	return measureAmplificationJitter()
}

func measureAmplificationJitter() uint64

func scanForInt3Raw(ptr *byte, length int) uint64

// ScanForInt3 counts 0xCC bytes in data via a linear byte scan. No
// disassembly, no instruction-length awareness.
func ScanForInt3(data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	return scanForInt3Raw((*byte)(unsafe.Pointer(&data[0])), len(data))
}
