package courses

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplyGrade_TransitionsToGraded(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s := Submission{Status: StatusSubmitted, SubmittedAt: now.Add(-time.Hour)}

	s.ApplyGrade(87.5, now)

	require.Equal(t, StatusGraded, s.Status)
	require.NotNil(t, s.Grade)
	require.Equal(t, 87.5, *s.Grade)
	require.NotNil(t, s.GradedAt)
	require.True(t, s.GradedAt.Equal(now))
}

func TestApplyGrade_RegradeKeepsStatusGraded(t *testing.T) {
	first := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	s := Submission{Status: StatusSubmitted}
	s.ApplyGrade(70, first)
	s.ApplyGrade(92, second)

	require.Equal(t, StatusGraded, s.Status, "status never regresses once graded")
	require.Equal(t, 92.0, *s.Grade)
	require.True(t, s.GradedAt.Equal(second), "graded_at follows the latest grade")
}
