//go:build !(linux && amd64)

package primitives

// SerializedRDTSC is unavailable outside linux/amd64; it returns 0 so
// callers on other platforms degrade rather than fail to link.
func SerializedRDTSC() uint64 { return 0 }

// TriggerTrapFlag is a no-op outside linux/amd64.
func TriggerTrapFlag() {}

// ReadDR7 always reports no fault outside linux/amd64.
func ReadDR7() (faulted bool) { return false }

// MeasureNopJitter returns 0 outside linux/amd64.
func MeasureNopJitter() uint64 { return 0 }

// MeasureMovJitter returns 0 outside linux/amd64.
func MeasureMovJitter() uint64 { return 0 }

// MeasureXorJitter returns 0 outside linux/amd64.
func MeasureXorJitter() uint64 { return 0 }

// MeasureAmplificationJitter returns 0 outside linux/amd64.
func MeasureAmplificationJitter() uint64 { return 0 }

// ScanForInt3 still performs the linear 0xCC scan in pure Go so the
// int3 detector has a real implementation on every platform.
func ScanForInt3(data []byte) uint64 {
	var count uint64
	for _, b := range data {
		if b == 0xCC {
			count++
		}
	}
	return count
}
