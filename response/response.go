// Package response maps a derived Verdict to a process exit code and
// dispatches the corresponding action. The action payload itself — the
// protected functionality this probe gates — is explicitly out of
// scope (§1); this package only implements the verdict-to-action seam
// an external collaborator plugs into.
package response

import (
	"github.com/antidebug/probe/core"
	"github.com/antidebug/probe/evidence"
)

// ExitCodeForVerdict maps a Verdict to the process exit code the test
// harness expects.
func ExitCodeForVerdict(v evidence.Verdict) int {
	switch v {
	case evidence.VerdictClean:
		return 0
	case evidence.VerdictSuspicious:
		return 10
	case evidence.VerdictInstrumented:
		return 20
	case evidence.VerdictDeceptive:
		return 30
	default:
		return 20
	}
}

// Apply logs the verdict at the severity it deserves. It is the seam a
// real deployment replaces with its own gated action (unlocking a
// secret, refusing to start a sensitive workload, alerting); this
// probe's own scope ends at producing the verdict.
func Apply(v evidence.Verdict, logger *core.Logger) {
	switch v {
	case evidence.VerdictClean:
		logger.Info("response: verdict Clean, no action taken")
	case evidence.VerdictSuspicious:
		logger.Warn("response: verdict Suspicious, proceeding with caution")
	case evidence.VerdictInstrumented:
		logger.Warn("response: verdict Instrumented, sensitive functionality withheld")
	case evidence.VerdictDeceptive:
		logger.Error("response: verdict Deceptive, refusing to proceed")
	}
}
