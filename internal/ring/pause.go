package ring

import "github.com/lfring/mpmcbench/internal/pause"

func cpuPause() {
	pause.CPU(1)
}
