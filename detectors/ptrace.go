package detectors

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/antidebug/probe/core"
	"github.com/antidebug/probe/evidence"
)

// Ptrace runs the two ptrace sub-probes, in order: TracerPid first,
// then PTRACE_TRACEME only if TracerPid was zero. It must run before
// every other detector, because a successful PTRACE_TRACEME is
// destructive — it self-traces the process — and would interfere with
// the signal-based detectors that run afterward.
func Ptrace(e *evidence.Engine, logger *core.Logger) {
	tracerPid, err := readTracerPid()
	if err != nil {
		logger.Warn("ptrace: failed to read TracerPid: %v", err)
		tracerPid = 0
	}

	if tracerPid != 0 {
		e.Add(evidence.Evidence{
			Source:     evidence.SourceTracerPid,
			Weight:     100,
			Confidence: 1.0,
			Details:    "TracerPid non-zero in /proc/self/status",
		})
		return
	}

	ret, _, errno := unix.Syscall(unix.SYS_PTRACE, unix.PTRACE_TRACEME, 0, 0)
	if int64(ret) == -1 {
		logger.Debug("ptrace: PTRACE_TRACEME denied: %v", errno)
		e.Add(evidence.Evidence{
			Source:     evidence.SourcePtrace,
			Weight:     100,
			Confidence: 1.0,
			Details:    "PTRACE_TRACEME returned -1, process is already traced",
		})
	}
}

func readTracerPid() (int, error) {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "TracerPid:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return 0, nil
		}
		pid, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, err
		}
		return pid, nil
	}
	return 0, scanner.Err()
}
