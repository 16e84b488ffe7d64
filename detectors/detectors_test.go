package detectors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antidebug/probe/core"
	"github.com/antidebug/probe/environment"
	"github.com/antidebug/probe/evidence"
	"github.com/antidebug/probe/signalcompat"
)

func TestPtrace_Smoke(t *testing.T) {
	e := evidence.NewEngine()
	logger := core.NewLogger(false)
	assert.NotPanics(t, func() {
		Ptrace(e, logger)
	})
}

func TestTiming_Smoke(t *testing.T) {
	e := evidence.NewEngine()
	cfg := core.DefaultConfig()
	logger := core.NewLogger(false)
	assert.NotPanics(t, func() {
		Timing(e, cfg, logger)
	})
}

func TestInt3_Smoke(t *testing.T) {
	e := evidence.NewEngine()
	cfg := core.DefaultConfig()
	logger := core.NewLogger(false)
	assert.NotPanics(t, func() {
		Int3(e, cfg, logger)
	})
}

func TestTrapFlag_Smoke(t *testing.T) {
	signalcompat.Init()
	defer signalcompat.Teardown()

	e := evidence.NewEngine()
	logger := core.NewLogger(false)
	assert.NotPanics(t, func() {
		TrapFlag(e, logger)
	})
}

func TestHardwareBp_Smoke(t *testing.T) {
	e := evidence.NewEngine()
	logger := core.NewLogger(false)
	assert.NotPanics(t, func() {
		HardwareBp(e, logger)
	})
}

func TestJitter_Smoke(t *testing.T) {
	e := evidence.NewEngine()
	cfg := core.DefaultConfig()
	logger := core.NewLogger(false)
	assert.NotPanics(t, func() {
		Jitter(e, cfg, logger)
	})
}

func TestRecordReplay_Smoke(t *testing.T) {
	e := evidence.NewEngine()
	logger := core.NewLogger(false)
	env := environment.Detect()
	assert.NotPanics(t, func() {
		RecordReplay(e, env, logger)
	})
}

func TestEbpfCompare_Smoke(t *testing.T) {
	e := evidence.NewEngine()
	logger := core.NewLogger(false)
	assert.NotPanics(t, func() {
		EbpfCompare(e, logger)
	})
}
