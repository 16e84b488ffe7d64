package detectors

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unsafe"

	"github.com/antidebug/probe/core"
	"github.com/antidebug/probe/evidence"
	"github.com/antidebug/probe/primitives"
)

type mapRegion struct {
	start, end uintptr
	pathname   string
}

// Int3 scans every executable region of the process's own address
// space named in /proc/self/maps for the 0xCC software-breakpoint
// opcode, then classifies the findings into alignment-padding clusters
// and probable-breakpoint scattered singles.
func Int3(e *evidence.Engine, cfg *core.Config, logger *core.Logger) {
	regions, err := parseExecutableRegions()
	if err != nil {
		logger.Warn("int3: failed to parse /proc/self/maps: %v", err)
		return
	}

	var clusters, scattered int
	for _, r := range regions {
		size := int64(r.end - r.start)
		if size > cfg.Thresholds.Int3RegionCapBytes {
			logger.Debug("int3: skipping %s, region %d bytes exceeds cap", r.pathname, size)
			continue
		}

		data := unsafe.Slice((*byte)(unsafe.Pointer(r.start)), size)

		total := primitives.ScanForInt3(data)
		if total == 0 {
			continue
		}

		positions := findInt3Positions(data)
		if int(total) != len(positions) {
			logger.Debug("int3: primitive count %d disagrees with position count %d in %s", total, len(positions), r.pathname)
		}

		c, s := clusterAndScatter(positions, cfg.Thresholds.Int3ClusterMin, cfg.Thresholds.Int3SeparationBytes)
		clusters += c
		scattered += s
	}

	if clusters > 0 {
		weight := uint64(clusters)
		if weight > 5 {
			weight = 5
		}
		e.Add(evidence.Evidence{
			Source:     evidence.SourceInt3,
			Weight:     weight,
			Confidence: 0.3,
			Details:    fmt.Sprintf("%d alignment-padding cluster(s)", clusters),
		})
	}

	if scattered > 0 && scattered < cfg.Thresholds.Int3ScatteredMax {
		e.Add(evidence.Evidence{
			Source:     evidence.SourceInt3,
			Weight:     25,
			Confidence: 0.9,
			Details:    fmt.Sprintf("%d scattered 0xCC byte(s)", scattered),
		})
	}
}

func findInt3Positions(data []byte) []int {
	var positions []int
	for i, b := range data {
		if b == 0xCC {
			positions = append(positions, i)
		}
	}
	return positions
}

func parseExecutableRegions() ([]mapRegion, error) {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var regions []mapRegion
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 {
			continue
		}

		addrRange := fields[0]
		perms := fields[1]
		pathname := fields[5]

		if !strings.Contains(perms, "x") {
			continue
		}
		if pathname == "" || strings.HasPrefix(pathname, "[") {
			continue
		}

		parts := strings.SplitN(addrRange, "-", 2)
		if len(parts) != 2 {
			continue
		}
		start, err := strconv.ParseUint(parts[0], 16, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseUint(parts[1], 16, 64)
		if err != nil {
			continue
		}

		regions = append(regions, mapRegion{
			start:    uintptr(start),
			end:      uintptr(end),
			pathname: pathname,
		})
	}
	return regions, scanner.Err()
}
