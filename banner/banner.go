package banner

import (
	"fmt"
	"math/rand"
	"time"
)

// PrintBanner prints a randomly-selected startup banner.
func PrintBanner() {
	fmt.Println(getRandomBanner())
}

func getRandomBanner() string {
	banners := []string{
		`
    ██████╗ ██████╗  ██████╗ ██████╗ ███████╗
    ██╔══██╗██╔══██╗██╔═══██╗██╔══██╗██╔════╝
    ██████╔╝██████╔╝██║   ██║██████╔╝█████╗
    ██╔══██╗██╔══██╗██║   ██║██╔══██╗██╔══╝
    ██║  ██║██║  ██║╚██████╔╝██████╔╝███████╗
    ╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝ ╚═════╝ ╚══════╝

    anti-analysis probe — x86_64 linux
`,
		`
    ┌─────────────────────────────────────┐
    │        ANTI-ANALYSIS PROBE           │
    │        ptrace · timing · int3        │
    │        trap-flag · dr7 · jitter      │
    └─────────────────────────────────────┘
`,
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return banners[r.Intn(len(banners))]
}
