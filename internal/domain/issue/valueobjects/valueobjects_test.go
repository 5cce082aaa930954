package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_Ordering(t *testing.T) {
	for i := 1; i < len(AllSeverities); i++ {
		assert.Greater(t, AllSeverities[i].Rank(), AllSeverities[i-1].Rank())
	}
	assert.True(t, SeverityCritical.AtLeast(SeverityHigh))
	assert.True(t, SeverityHigh.AtLeast(SeverityHigh))
	assert.False(t, SeverityMedium.AtLeast(SeverityHigh))
	assert.False(t, Severity("urgent").AtLeast(SeverityLow))
}

func TestNewSeverity(t *testing.T) {
	s, err := NewSeverity("medium")
	require.NoError(t, err)
	assert.Equal(t, SeverityMedium, s)

	_, err = NewSeverity("urgent")
	assert.Error(t, err)
}

func TestIssueStatus_ForwardTransitions(t *testing.T) {
	tests := []struct {
		from IssueStatus
		to   IssueStatus
		want bool
	}{
		{StatusOpen, StatusInProgress, true},
		{StatusOpen, StatusResolved, true},
		{StatusInProgress, StatusOpen, false},
		{StatusResolved, StatusClosed, true},
		{StatusClosed, StatusOpen, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.IsForwardTransition(tt.to))
		})
	}
	assert.Empty(t, StatusClosed.ForwardTransitions())
}

func TestIssueStatus_IsDone(t *testing.T) {
	assert.False(t, StatusOpen.IsDone())
	assert.False(t, StatusInProgress.IsDone())
	assert.True(t, StatusResolved.IsDone())
	assert.True(t, StatusClosed.IsDone())
}

func TestUpdateType_IsValid(t *testing.T) {
	_, err := NewUpdateType("comment")
	assert.NoError(t, err)
	_, err = NewUpdateType("escalation")
	assert.Error(t, err)
}
