package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antidebug/probe/core"
)

func TestRun_Smoke(t *testing.T) {
	cfg := core.DefaultConfig()
	logger := core.NewLogger(false)

	assert.NotPanics(t, func() {
		res := Run(cfg, logger)
		assert.NotNil(t, res.Engine)
		assert.GreaterOrEqual(t, int(res.Verdict), 0)
	})
}

func TestRun_RespectsDetectorToggles(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Detectors = core.DetectorToggles{}
	logger := core.NewLogger(false)

	res := Run(cfg, logger)
	assert.Empty(t, res.Engine.History())
	assert.Equal(t, uint64(0), res.Engine.Score())
}
