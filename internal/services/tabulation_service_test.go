package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voting-service/internal/models"
)

func threeOptions() []models.VotingOption {
	return []models.VotingOption{
		{Model: gormModel(1), SessionID: 1, Text: "Option A"},
		{Model: gormModel(2), SessionID: 1, Text: "Option B"},
		{Model: gormModel(3), SessionID: 1, Text: "Option C"},
	}
}

func TestTabulateMajorityWithQuorum(t *testing.T) {
	session := &models.VotingSession{
		Model:                  gormModel(1),
		Title:                  "Board resolution",
		RequiresQuorum:         true,
		QuorumThresholdPercent: 50,
		TotalEligibleVoters:    10,
	}
	counts := map[uint]int64{1: 4, 2: 1, 3: 1}

	results := Tabulate(session, threeOptions(), counts, 6, 6)

	require.Len(t, results.Results, 3)
	assert.Equal(t, int64(4), results.Results[0].VoteCount)
	assert.Equal(t, 66.7, results.Results[0].Percentage)
	assert.Equal(t, 16.7, results.Results[1].Percentage)
	assert.Equal(t, 16.7, results.Results[2].Percentage)

	assert.Equal(t, int64(6), results.Statistics.TotalVotes)
	assert.Equal(t, 60.0, results.Statistics.TurnoutPercentage)
	assert.True(t, results.Statistics.QuorumMet)

	require.NotNil(t, results.Winner)
	assert.Equal(t, "Option A", results.Winner.OptionText)
	assert.False(t, results.Tie)
}

func TestTabulateZeroFillsUnvotedOptions(t *testing.T) {
	session := &models.VotingSession{Model: gormModel(1), TotalEligibleVoters: 10}
	counts := map[uint]int64{1: 2}

	results := Tabulate(session, threeOptions(), counts, 2, 2)

	require.Len(t, results.Results, 3)
	assert.Equal(t, int64(0), results.Results[1].VoteCount)
	assert.Equal(t, 0.0, results.Results[1].Percentage)
	assert.Equal(t, int64(0), results.Results[2].VoteCount)
}

func TestTabulateTieWithholdsWinner(t *testing.T) {
	session := &models.VotingSession{Model: gormModel(1), TotalEligibleVoters: 10}
	counts := map[uint]int64{1: 3, 2: 3, 3: 1}

	results := Tabulate(session, threeOptions(), counts, 7, 7)

	assert.Nil(t, results.Winner)
	assert.True(t, results.Tie)
	assert.Equal(t, int64(3), results.Results[0].VoteCount)
	assert.Equal(t, int64(3), results.Results[1].VoteCount)
}

func TestTabulateQuorumNotMetWithholdsWinner(t *testing.T) {
	session := &models.VotingSession{
		Model:                  gormModel(1),
		RequiresQuorum:         true,
		QuorumThresholdPercent: 50,
		TotalEligibleVoters:    100,
	}
	counts := map[uint]int64{1: 5, 2: 2}

	results := Tabulate(session, threeOptions(), counts, 7, 7)

	assert.False(t, results.Statistics.QuorumMet)
	assert.Equal(t, 7.0, results.Statistics.TurnoutPercentage)
	assert.Nil(t, results.Winner)
	assert.False(t, results.Tie)
	// counts stay factual even without a declared winner
	assert.Equal(t, int64(5), results.Results[0].VoteCount)
}

func TestTabulateNoVotes(t *testing.T) {
	session := &models.VotingSession{Model: gormModel(1), TotalEligibleVoters: 10}

	results := Tabulate(session, threeOptions(), map[uint]int64{}, 0, 0)

	assert.Nil(t, results.Winner)
	assert.False(t, results.Tie)
	assert.Equal(t, 0.0, results.Statistics.TurnoutPercentage)
	require.Len(t, results.Results, 3)
	for _, row := range results.Results {
		assert.Equal(t, int64(0), row.VoteCount)
		assert.Equal(t, 0.0, row.Percentage)
	}
}

func TestTabulateZeroEligibleVoters(t *testing.T) {
	session := &models.VotingSession{Model: gormModel(1), TotalEligibleVoters: 0}
	counts := map[uint]int64{1: 2}

	results := Tabulate(session, threeOptions(), counts, 2, 2)

	assert.Equal(t, 0.0, results.Statistics.TurnoutPercentage)
}

func TestComputeResultsBeforeCloseReturnsPending(t *testing.T) {
	audit := newFakeAuditStore()
	sessions := newFakeSessionStore(audit)
	end := time.Now().Add(time.Hour)
	sessions.add(&models.VotingSession{
		Model:            gormModel(1),
		OrganizationID:   "org-1",
		Status:           models.StatusActive,
		ScheduledEndTime: &end,
	})
	votes := newFakeVoteStore(audit)
	svc := NewTabulationService(sessions, newFakeOptionStore(), votes, NewAuditService(sessions, audit, nil))

	results, pending, err := svc.ComputeResults(context.Background(), 1)

	assert.ErrorIs(t, err, models.ErrResultsNotReady)
	assert.Nil(t, results)
	require.NotNil(t, pending)
	assert.Equal(t, models.StatusActive, pending.Status)
	require.NotNil(t, pending.ScheduledEndTime)
}

func TestComputeResultsAfterScheduledEnd(t *testing.T) {
	// Session still stored as active but past its scheduled end: results
	// must be available without waiting for the close sweep.
	audit := newFakeAuditStore()
	sessions := newFakeSessionStore(audit)
	end := time.Now().Add(-time.Hour)
	sessions.add(&models.VotingSession{
		Model:            gormModel(1),
		OrganizationID:   "org-1",
		Title:            "Strike authorization",
		Status:           models.StatusActive,
		ScheduledEndTime: &end,
	})
	options := newFakeOptionStore()
	require.NoError(t, options.Create(context.Background(), &models.VotingOption{SessionID: 1, Text: "Yes"}))
	votes := newFakeVoteStore(audit)
	svc := NewTabulationService(sessions, options, votes, NewAuditService(sessions, audit, nil))

	results, pending, err := svc.ComputeResults(context.Background(), 1)

	require.NoError(t, err)
	assert.Nil(t, pending)
	require.NotNil(t, results)
	assert.Equal(t, "Strike authorization", results.Title)
	assert.True(t, results.Audit.ChainIntact)
}

func TestComputeResultsUnknownSession(t *testing.T) {
	audit := newFakeAuditStore()
	sessions := newFakeSessionStore(audit)
	svc := NewTabulationService(sessions, newFakeOptionStore(), newFakeVoteStore(audit), NewAuditService(sessions, audit, nil))

	_, _, err := svc.ComputeResults(context.Background(), 42)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}
