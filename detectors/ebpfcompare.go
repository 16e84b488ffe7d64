package detectors

import (
	"os"
	"strconv"
	"strings"

	"github.com/antidebug/probe/core"
	"github.com/antidebug/probe/evidence"
	"github.com/antidebug/probe/primitives"
)

const btfVmlinuxPath = "/sys/kernel/btf/vmlinux"

// EbpfCompare times a tight loop with the cycle counter and reads the
// scheduler's utime+stime accounting from /proc/self/stat before and
// after it. Evidence is emitted when the scheduler accounted any tick
// during the loop; the cycle count is only logged. It requires BTF support, root, and kernel
// 4.18+; any of those absent and it logs and returns, touching neither
// the engine nor emitting evidence — the spec leaves the unavailable
// case explicitly unscored.
func EbpfCompare(e *evidence.Engine, logger *core.Logger) {
	if !btfAvailable() {
		logger.Debug("ebpfcompare: no BTF support, skipping")
		return
	}
	if os.Geteuid() != 0 {
		logger.Debug("ebpfcompare: not running as root, skipping")
		return
	}
	ok, err := kernelAtLeast(4, 18)
	if err != nil {
		logger.Warn("ebpfcompare: failed to parse kernel version: %v", err)
		return
	}
	if !ok {
		logger.Debug("ebpfcompare: kernel older than 4.18, skipping")
		return
	}

	utime, stime, err := selfCPUTicks()
	if err != nil {
		logger.Warn("ebpfcompare: failed to read /proc/self/stat: %v", err)
		return
	}

	start := primitives.SerializedRDTSC()
	var x uint64
	for i := 0; i < 100000; i++ {
		x += uint64(i)
	}
	_ = x
	end := primitives.SerializedRDTSC()
	cycles := end - start

	utime2, stime2, err := selfCPUTicks()
	if err != nil {
		logger.Warn("ebpfcompare: failed to re-read /proc/self/stat: %v", err)
		return
	}

	ticksDelta := (utime2 - utime) + (stime2 - stime)
	logger.Debug("ebpfcompare: cycles=%d scheduler ticks delta=%d", cycles, ticksDelta)

	// A native run burns the loop's cycles without ever landing on a
	// scheduler tick boundary; a tracer single-stepping through it
	// accumulates enough wall-clock overhead to cross one.
	if ticksDelta > 0 {
		e.Add(evidence.Evidence{
			Source:     evidence.SourceEbpfCompare,
			Weight:     20,
			Confidence: 0.5,
			Details:    "scheduler tick accounted during a tight cycle-counted loop",
		})
	}
}

func btfAvailable() bool {
	_, err := os.Stat(btfVmlinuxPath)
	return err == nil
}

func kernelAtLeast(major, minor int) (bool, error) {
	data, err := os.ReadFile("/proc/sys/kernel/osrelease")
	if err != nil {
		return false, err
	}
	release := strings.TrimSpace(string(data))
	parts := strings.SplitN(release, ".", 3)
	if len(parts) < 2 {
		return false, nil
	}
	gotMajor, err := strconv.Atoi(parts[0])
	if err != nil {
		return false, err
	}
	gotMinor, err := strconv.Atoi(strings.TrimFunc(parts[1], func(r rune) bool {
		return r < '0' || r > '9'
	}))
	if err != nil {
		return false, err
	}
	if gotMajor != major {
		return gotMajor > major, nil
	}
	return gotMinor >= minor, nil
}

func selfCPUTicks() (utime, stime uint64, err error) {
	data, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, 0, err
	}
	// Fields after the closing paren of the comm field are
	// space-separated and position-stable; utime/stime are the 14th
	// and 15th fields overall (12th/13th after the paren).
	idx := strings.LastIndex(string(data), ")")
	if idx < 0 || idx+2 >= len(data) {
		return 0, 0, nil
	}
	fields := strings.Fields(string(data[idx+2:]))
	if len(fields) < 13 {
		return 0, 0, nil
	}
	utime, err = strconv.ParseUint(fields[11], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	stime, err = strconv.ParseUint(fields[12], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return utime, stime, nil
}
