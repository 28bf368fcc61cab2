package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/opsim/sched-sim/sim"
	"github.com/opsim/sched-sim/sim/metadata"
)

func TestRenderPool_ShowsPreparedApplications(t *testing.T) {
	// GIVEN a parsed program with two applications and one stray record
	records, err := metadata.Parse([]byte(
		"S(start)0; A(start)0; P(run)4; O(printer)2; A(end)0; A(start)0; I(keyboard)1; A(end)0; S(end)0."))
	require.NoError(t, err)
	s, err := sim.NewSimulator(testConfig(sim.PolicySJF, 0), nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Prepare(records))

	// WHEN the pool is rendered
	var buf bytes.Buffer
	RenderPool(&buf, s)
	out := buf.String()

	// THEN the header line counts applications and discarded records
	assert.Contains(t, out, "Policy SJF: 2 applications, 2 records discarded\n")
	// THEN each application lists its operations
	assert.Contains(t, out, "processing action, printer output")
	assert.Contains(t, out, "keyboard input")
	// THEN SJF puts the one-cycle application first
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("keyboard input")), bytes.Index(buf.Bytes(), []byte("printer output")))
}
