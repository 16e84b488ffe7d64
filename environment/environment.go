// Package environment parses host signals (CPU governor, SMT state,
// hypervisor presence, load average) into an adjustment factor applied
// once to the evidence engine's score.
package environment

import (
	"os"
	"strconv"
	"strings"
)

// Snapshot captures the host conditions used to compute the
// environmental adjustment factor.
type Snapshot struct {
	Governor          string
	SMTActive         *bool
	HypervisorPresent bool
	LoadAverage       float64
}

const (
	smtActivePath       = "/sys/devices/system/cpu/smt/active"
	scalingGovernorPath = "/sys/devices/system/cpu/cpu0/cpufreq/scaling_governor"
	cpuinfoPath         = "/proc/cpuinfo"
	loadavgPath         = "/proc/loadavg"
)

// Detect builds a Snapshot from the current host. Every field degrades
// independently on I/O failure: a missing file yields a zero-ish
// default for that field rather than an error, per the probe's
// local-recovery error policy.
func Detect() Snapshot {
	return Snapshot{
		Governor:          detectGovernor(),
		SMTActive:         detectSMTActive(),
		HypervisorPresent: detectHypervisor(),
		LoadAverage:       detectLoadAverage(),
	}
}

func detectGovernor() string {
	data, err := os.ReadFile(scalingGovernorPath)
	if err != nil {
		return "unknown"
	}
	governor := strings.TrimSpace(string(data))
	if governor == "" {
		return "unknown"
	}
	return governor
}

func detectSMTActive() *bool {
	data, err := os.ReadFile(smtActivePath)
	if err != nil {
		return nil
	}
	value := strings.TrimSpace(string(data))
	active := value == "1"
	return &active
}

func detectHypervisor() bool {
	data, err := os.ReadFile(cpuinfoPath)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "flags") {
			continue
		}
		for _, flag := range strings.Fields(line) {
			if flag == "hypervisor" {
				return true
			}
		}
	}
	return false
}

func detectLoadAverage() float64 {
	data, err := os.ReadFile(loadavgPath)
	if err != nil {
		return 0
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0
	}
	load, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return load
}

// AdjustmentFactor computes the environmental adjustment factor per the
// governor/SMT/hypervisor/load-average rules, clamped to [0.30, 1.00].
func (s Snapshot) AdjustmentFactor() float64 {
	factor := 1.0

	switch s.Governor {
	case "schedutil", "ondemand":
		factor *= 0.85
	}

	if s.SMTActive != nil && *s.SMTActive {
		factor *= 0.80
	}

	if s.HypervisorPresent {
		factor *= 0.70
	}

	if s.LoadAverage > 2.0 {
		factor *= 0.75
	}

	if factor < 0.30 {
		factor = 0.30
	}
	if factor > 1.00 {
		factor = 1.00
	}
	return factor
}
