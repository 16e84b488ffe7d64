// Package primitives implements the leaf-level x86 instruction
// sequences the detectors are built on: a serialized TSC read, the
// trap-flag trigger, the DR7 read attempt, four instruction-jitter
// microbenchmarks, and the INT3 byte scanner.
//
// ABI: every primitive in primitives_amd64.s is a leaf routine — it
// makes no calls, so there are no frame-pointer concerns. Each
// function's LFENCE fences (where required) are inside the primitive;
// callers never need to fence around a call to one of these.
// FaultingInstructionLen documents the one constant handler and
// emitter must agree on: the encoded length, in bytes, of the
// privileged `mov rax, dr7` instruction emitted by readDR7Raw.
package primitives

// FaultingInstructionLen is the length, in bytes, of the `mov rax, dr7`
// instruction (opcode bytes 0F 21 F8) emitted by readDR7Raw. A
// synchronous fault handler that wanted to skip past the faulting
// instruction rather than unwind out of it would advance the saved
// instruction pointer by exactly this many bytes.
const FaultingInstructionLen = 3
