// Package feedback attaches to AFL++'s coverage shared-memory bitmap
// named by the __AFL_SHM_ID environment variable, grounded on
// original_source/afl_harness/src/Feedback.cpp. It is a no-op when the
// variable is absent, so the mutator runs standalone outside AFL++.
package feedback

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

const (
	shmEnvVar = "__AFL_SHM_ID"
	mapSize   = 65536
)

// Feedback owns (optionally) a SysV shared-memory segment used as an
// edge-hit-count bitmap.
type Feedback struct {
	area   []byte
	prevPC uint32
}

// Attach connects to AFL++'s shared memory segment, or returns a no-op
// Feedback if __AFL_SHM_ID is unset or the attach fails.
func Attach() *Feedback {
	idStr := os.Getenv(shmEnvVar)
	if idStr == "" {
		return &Feedback{}
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return &Feedback{}
	}

	area, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		return &Feedback{}
	}
	return &Feedback{area: area[:mapSize]}
}

// Active reports whether a real bitmap is attached.
func (f *Feedback) Active() bool {
	return f != nil && f.area != nil
}

// ReportEdge hashes the prev-pc -> pc transition (Knuth multiplicative
// hash) into the bitmap and bumps its hit counter, saturating at 255.
func (f *Feedback) ReportEdge(pc uint32) {
	if !f.Active() {
		return
	}
	edge := ((f.prevPC >> 1) ^ pc) * 0x9E3779B1
	idx := (edge >> 16) & 0xFFFF
	if f.area[idx] < 255 {
		f.area[idx]++
	}
	f.prevPC = pc
}

// Detach releases the shared-memory mapping, if any.
func (f *Feedback) Detach() {
	if f == nil || f.area == nil {
		return
	}
	unix.SysvShmDetach(f.area)
	f.area = nil
}
