package services

import (
	"context"
	"math"
	"time"

	"voting-service/internal/models"
)

// TabulationService aggregates votes into results once a session is
// effectively closed.
type TabulationService struct {
	sessions SessionStore
	options  OptionStore
	votes    VoteStore
	audit    *AuditService
}

func NewTabulationService(sessions SessionStore, options OptionStore, votes VoteStore, audit *AuditService) *TabulationService {
	return &TabulationService{sessions: sessions, options: options, votes: votes, audit: audit}
}

// ComputeResults tabulates a session. Before the session is effectively
// closed it returns ErrResultsNotReady together with a pending payload
// carrying the scheduled availability time.
func (s *TabulationService) ComputeResults(ctx context.Context, sessionID uint) (*models.Results, *models.ResultsPending, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, models.ErrSessionNotFound
	}
	if session.EffectiveStatus(time.Now()) != models.StatusClosed {
		pending := &models.ResultsPending{
			Status:           session.Status,
			ScheduledEndTime: session.ScheduledEndTime,
		}
		return nil, pending, models.ErrResultsNotReady
	}

	options, err := s.options.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	counts, err := s.votes.CountsByOption(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	totalVotes, err := s.votes.TotalVotes(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	uniqueVoters, err := s.votes.UniqueVoterCount(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	chain, err := s.audit.VerifyChain(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	results := Tabulate(session, options, counts, totalVotes, uniqueVoters)
	results.Audit = models.AuditSummary{ChainIntact: chain.ChainIntact}
	return results, nil, nil
}

// Tabulate is the pure aggregation step. Every option appears in the output
// even with zero votes; the winner is withheld on a tie or a failed quorum
// while the counts stay factual.
func Tabulate(
	session *models.VotingSession,
	options []models.VotingOption,
	counts map[uint]int64,
	totalVotes int64,
	uniqueVoters int64,
) *models.Results {
	rows := make([]models.OptionResult, 0, len(options))
	for _, opt := range options {
		count := counts[opt.ID]
		pct := 0.0
		if totalVotes > 0 {
			pct = round1(float64(count) / float64(totalVotes) * 100)
		}
		rows = append(rows, models.OptionResult{
			OptionID:   opt.ID,
			OptionText: opt.Text,
			VoteCount:  count,
			Percentage: pct,
		})
	}

	turnout := 0.0
	if session.TotalEligibleVoters > 0 {
		turnout = round2(float64(uniqueVoters) / float64(session.TotalEligibleVoters) * 100)
	}
	quorumMet := true
	if session.RequiresQuorum {
		quorumMet = turnout >= session.QuorumThresholdPercent
	}

	var winner *models.OptionResult
	tie := false
	if totalVotes > 0 {
		var top int64 = -1
		topCount := 0
		var topRow models.OptionResult
		for _, row := range rows {
			if row.VoteCount > top {
				top = row.VoteCount
				topCount = 1
				topRow = row
			} else if row.VoteCount == top {
				topCount++
			}
		}
		if topCount == 1 {
			winner = &topRow
		} else {
			// counts are still reported; declaring a winner from a tie
			// would be arbitrary
			tie = true
		}
	}
	if !quorumMet {
		winner = nil
	}

	return &models.Results{
		SessionID: session.ID,
		Title:     session.Title,
		Results:   rows,
		Statistics: models.ResultStatistics{
			TotalVotes:        totalVotes,
			UniqueVoters:      uniqueVoters,
			TurnoutPercentage: turnout,
			QuorumMet:         quorumMet,
		},
		Winner: winner,
		Tie:    tie,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
