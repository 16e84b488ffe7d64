package response

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antidebug/probe/core"
	"github.com/antidebug/probe/evidence"
)

func TestExitCodeForVerdict(t *testing.T) {
	cases := []struct {
		verdict evidence.Verdict
		want    int
	}{
		{evidence.VerdictClean, 0},
		{evidence.VerdictSuspicious, 10},
		{evidence.VerdictInstrumented, 20},
		{evidence.VerdictDeceptive, 30},
	}
	for _, tc := range cases {
		t.Run(tc.verdict.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCodeForVerdict(tc.verdict))
		})
	}
}

func TestApply_NoPanic(t *testing.T) {
	logger := core.NewLogger(false)
	assert.NotPanics(t, func() {
		Apply(evidence.VerdictClean, logger)
		Apply(evidence.VerdictSuspicious, logger)
		Apply(evidence.VerdictInstrumented, logger)
		Apply(evidence.VerdictDeceptive, logger)
	})
}
