package constraints_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/katalvlaran/assign/constraints"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGroup_StrictFailsOnHighPriority verifies that Strict groups return a
// *ViolationError listing every High/Critical violation, while soft
// violations alone do not fail.
func TestGroup_StrictFailsOnHighPriority(t *testing.T) {
	ctx := constraints.NewContext()

	g := constraints.NewGroup("pre_computation", constraints.Strict)
	require.NoError(t, g.Add(failing("soft", constraints.Low, 1)))
	require.NoError(t, g.Add(failing("hard-1", constraints.High, 2)))
	require.NoError(t, g.Add(failing("hard-2", constraints.Critical, 3)))

	res, err := g.Validate(ctx)

	var verr *constraints.ViolationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "pre_computation", verr.Group)
	assert.Equal(t, []string{"hard-1 (HIGH)", "hard-2 (CRITICAL)"}, verr.Violations,
		"all hard violations must be listed, soft ones excluded")

	// The result is still fully populated for reporting.
	assert.False(t, res.Valid)
	assert.Len(t, res.Violated, 3)
	assert.Equal(t, 6.0, res.TotalPenalty)

	// Soft-only strict group does not fail.
	soft := constraints.NewGroup("soft", constraints.Strict)
	require.NoError(t, soft.Add(failing("advisory", constraints.Medium, 1)))
	res, err = soft.Validate(ctx)
	assert.NoError(t, err)
	assert.False(t, res.Valid)
}

// TestGroup_RelaxedAndReportOnlyNeverError verifies the non-failing levels.
func TestGroup_RelaxedAndReportOnlyNeverError(t *testing.T) {
	ctx := constraints.NewContext()

	for _, level := range []constraints.ValidationLevel{constraints.Relaxed, constraints.ReportOnly} {
		g := constraints.NewGroup("g", level)
		require.NoError(t, g.Add(failing("critical", constraints.Critical, 10)))

		res, err := g.Validate(ctx)
		assert.NoError(t, err, "level %s must not error", level)
		assert.False(t, res.Valid)
		assert.Equal(t, 10.0, res.TotalPenalty)
	}
}

// TestValidator_GroupLifecycle covers EnsureGroup create-on-first-use,
// level conflicts and unknown-group errors.
func TestValidator_GroupLifecycle(t *testing.T) {
	v := constraints.NewValidator(0)

	g1, err := v.EnsureGroup("default", constraints.Relaxed)
	require.NoError(t, err)
	g2, err := v.EnsureGroup("default", constraints.Relaxed)
	require.NoError(t, err)
	assert.Same(t, g1, g2, "EnsureGroup must be idempotent")

	_, err = v.EnsureGroup("default", constraints.Strict)
	assert.ErrorIs(t, err, constraints.ErrGroupExists)

	_, err = v.ValidateGroup("missing", constraints.NewContext())
	assert.ErrorIs(t, err, constraints.ErrUnknownGroup)
}

// TestValidator_HistorySummarizesLargeObjects verifies that non-scalar
// context values are stored as "{TypeName} instance" and that snapshots are
// JSON-serializable.
func TestValidator_HistorySummarizesLargeObjects(t *testing.T) {
	v := constraints.NewValidator(0)
	g, err := v.EnsureGroup("post_computation", constraints.ReportOnly)
	require.NoError(t, err)
	require.NoError(t, g.Add(failing("always", constraints.Low, 1)))

	ctx := constraints.NewContext()
	ctx["total_cost"] = 12.5
	ctx["assignments"] = []int{1, 2, 3}

	_, err = v.ValidateGroup("post_computation", ctx)
	require.NoError(t, err)

	hist := v.History()
	require.Len(t, hist, 1)
	assert.Equal(t, 12.5, hist[0].Context["total_cost"], "scalars pass through")
	assert.Equal(t, "{[]int} instance", hist[0].Context["assignments"],
		"large objects are summarized, not copied")

	_, err = json.Marshal(hist)
	assert.NoError(t, err, "history must be JSON-serializable")
}

// TestValidator_HistoryCap verifies oldest-first eviction at the cap.
func TestValidator_HistoryCap(t *testing.T) {
	v := constraints.NewValidator(3)
	g, err := v.EnsureGroup("g", constraints.ReportOnly)
	require.NoError(t, err)
	require.NoError(t, g.Add(passing("noop")))

	for i := 0; i < 5; i++ {
		ctx := constraints.NewContext()
		ctx["iteration"] = i
		_, err = v.ValidateGroup("g", ctx)
		require.NoError(t, err)
	}

	hist := v.History()
	require.Len(t, hist, 3, "history must be capped")
	assert.Equal(t, 2, hist[0].Context["iteration"], "oldest entries dropped first")
	assert.Equal(t, 4, hist[2].Context["iteration"])
	assert.Equal(t, 5, v.Validations(), "counters keep counting past the cap")
}

// TestValidator_ValidateAllAndReport verifies deterministic all-group
// validation and the report contents.
func TestValidator_ValidateAllAndReport(t *testing.T) {
	v := constraints.NewValidator(0)

	pre, err := v.EnsureGroup("pre_computation", constraints.Strict)
	require.NoError(t, err)
	require.NoError(t, pre.Add(failing("capacity", constraints.High, 2)))

	post, err := v.EnsureGroup("post_computation", constraints.Relaxed)
	require.NoError(t, err)
	require.NoError(t, post.Add(failing("budget", constraints.Medium, 1)))

	results, err := v.ValidateAll(constraints.NewContext())

	var verr *constraints.ViolationError
	require.True(t, errors.As(err, &verr), "strict failure must surface from ValidateAll")
	assert.Len(t, results, 2, "all groups run to completion despite the failure")

	rep := v.GenerateReport()
	require.Len(t, rep.Groups, 2)
	assert.Equal(t, "pre_computation", rep.Groups[0].Name, "creation order preserved")
	assert.Equal(t, "STRICT", rep.Groups[0].Level)
	assert.Equal(t, 2, rep.Validations)
	assert.Equal(t, 2, rep.Violations)
	assert.Len(t, rep.RecentHistory, 2)
}
