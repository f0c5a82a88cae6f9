package decorator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/betula/pkg/model"
	"github.com/dukex/betula/pkg/nodes/decorator"
	"github.com/dukex/betula/pkg/tree"
)

// setRetryInterval configures a Retry node the way applySetConfig does:
// SetConfig followed by Reset, so a hot reconfigure restarts the streak.
func setRetryInterval(t *testing.T, tr *tree.Tree, id model.NodeId, interval time.Duration) {
	t.Helper()

	node, ok := tr.Node(id)
	require.True(t, ok)

	require.NoError(t, node.SetConfig(decorator.RetryConfig{Interval: interval}))
	node.Reset()
}

func buildRetryOverFail(t *testing.T, interval time.Duration) (*tree.Tree, model.NodeId) {
	t.Helper()

	tr := tree.New()

	retryID := model.NewNodeId()
	require.NoError(t, tr.AddNode(retryID, decorator.RetryType, decorator.NewRetry(retryID)))
	setRetryInterval(t, tr, retryID, interval)

	childID := model.NewNodeId()
	require.NoError(t, tr.AddNode(childID, decorator.FailType, decorator.NewFail(childID)))

	require.NoError(t, tr.SetChildren(retryID, []model.NodeId{childID}))
	require.NoError(t, tr.SetRoot(&retryID))

	return tr, retryID
}

// TestRetryMasksFailureAsRunningThenReportsFailure walks the timing shape
// of the interval-gating scenario: a persistently failing child is masked
// as Running for the configured window, then the real Failure comes
// through once the window elapses, and a fresh streak starts right after.
func TestRetryMasksFailureAsRunningThenReportsFailure(t *testing.T) {
	tr, _ := buildRetryOverFail(t, 40*time.Millisecond)

	status, _, err := tr.Tick()
	require.NoError(t, err)
	assert.Equal(t, model.StatusRunning, status, "first failure in the streak must be masked")

	time.Sleep(15 * time.Millisecond)

	status, _, err = tr.Tick()
	require.NoError(t, err)
	assert.Equal(t, model.StatusRunning, status, "still within the interval")

	time.Sleep(40 * time.Millisecond)

	status, _, err = tr.Tick()
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailure, status, "interval elapsed, the real failure comes through")

	status, _, err = tr.Tick()
	require.NoError(t, err)
	assert.Equal(t, model.StatusRunning, status, "a fresh failure streak starts right after")
}

// TestRetryPassesChildSuccessThrough confirms a child's Success is
// reported as-is on the first tick, neither masked nor delayed.
func TestRetryPassesChildSuccessThrough(t *testing.T) {
	tr := tree.New()

	retryID := model.NewNodeId()
	require.NoError(t, tr.AddNode(retryID, decorator.RetryType, decorator.NewRetry(retryID)))
	setRetryInterval(t, tr, retryID, time.Hour)

	childID := model.NewNodeId()
	require.NoError(t, tr.AddNode(childID, decorator.SucceedType, decorator.NewSucceed(childID)))

	require.NoError(t, tr.SetChildren(retryID, []model.NodeId{childID}))
	require.NoError(t, tr.SetRoot(&retryID))

	status, _, err := tr.Tick()
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, status)
}

// TestRetrySetConfigMidStreakResetsClockAgainstNewInterval exercises a
// hot reconfigure arriving mid-Running: a hefty interval masks the first
// failure, then SetConfig narrows the interval before the child fails
// again. The streak must restart cleanly and be judged against the new,
// shorter interval rather than the stale one.
func TestRetrySetConfigMidStreakResetsClockAgainstNewInterval(t *testing.T) {
	tr, retryID := buildRetryOverFail(t, time.Hour)

	status, _, err := tr.Tick()
	require.NoError(t, err)
	assert.Equal(t, model.StatusRunning, status, "masked under the original hour-long interval")

	setRetryInterval(t, tr, retryID, 20*time.Millisecond)

	status, _, err = tr.Tick()
	require.NoError(t, err)
	assert.Equal(t, model.StatusRunning, status, "streak restarted, still within the new interval")

	time.Sleep(30 * time.Millisecond)

	status, _, err = tr.Tick()
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailure, status, "new interval elapsed since the reconfigure")
}
