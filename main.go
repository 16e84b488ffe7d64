package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/antidebug/probe/banner"
	"github.com/antidebug/probe/core"
	"github.com/antidebug/probe/orchestrator"
	"github.com/antidebug/probe/report"
	"github.com/antidebug/probe/response"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	debug := flag.Bool("debug", false, "enable verbose logging")
	noPersist := flag.Bool("no-persist", false, "skip writing a run report")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("antidebug-probe %s\n", version)
		os.Exit(0)
	}

	banner.PrintBanner()

	cfg, err := core.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Logging.Debug = true
	}

	logger := core.NewLogger(cfg.Logging.Debug)
	if cfg.Logging.File != "" {
		if err := logger.SetFile(cfg.Logging.File); err != nil {
			logger.Warn("failed to open log file: %v", err)
		}
	}

	result := orchestrator.Run(cfg, logger)

	fmt.Printf("Final Verdict: %s\n", result.Verdict)
	fmt.Printf("Cumulative Score: %d\n", result.Engine.Score())

	if cfg.Logging.Debug {
		fmt.Println(result.Engine.Summary())
	}

	if !*noPersist && cfg.Report.Enabled {
		persistReport(cfg, logger, result)
	}

	response.Apply(result.Verdict, logger)
	exitCode := response.ExitCodeForVerdict(result.Verdict)
	logger.Close()
	os.Exit(exitCode)
}

func persistReport(cfg *core.Config, logger *core.Logger, result *orchestrator.Result) {
	envJSON, err := report.MarshalJSON(result.Environment)
	if err != nil {
		logger.Warn("report: failed to marshal environment: %v", err)
		return
	}
	evidenceJSON, err := report.MarshalJSON(result.Engine.History())
	if err != nil {
		logger.Warn("report: failed to marshal evidence: %v", err)
		return
	}

	hostname, _ := os.Hostname()
	run := &report.Run{
		Hostname:        hostname,
		Verdict:         result.Verdict.String(),
		Score:           result.Engine.Score(),
		EnvironmentJSON: envJSON,
		EvidenceJSON:    evidenceJSON,
	}
	run.Fingerprint = report.Fingerprint(envJSON, evidenceJSON)

	if err := report.Store(cfg.Report.Path, run); err != nil {
		logger.Warn("report: failed to store run: %v", err)
	}
}
