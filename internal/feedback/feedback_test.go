package feedback_test

import (
	"testing"

	"github.com/robin3773/isa-mutator/internal/feedback"
	"github.com/stretchr/testify/require"
)

func TestAttachNoopWithoutShmID(t *testing.T) {
	t.Setenv("__AFL_SHM_ID", "")
	f := feedback.Attach()
	require.False(t, f.Active())
	// ReportEdge/Detach must be safe no-ops.
	f.ReportEdge(0x1000)
	f.Detach()
}

func TestAttachNoopOnInvalidID(t *testing.T) {
	t.Setenv("__AFL_SHM_ID", "not-a-number")
	f := feedback.Attach()
	require.False(t, f.Active())
}
