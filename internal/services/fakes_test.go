package services

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"voting-service/internal/models"
)

func gormModel(id uint) gorm.Model {
	return gorm.Model{ID: id}
}

// In-memory store fakes shared by the service tests. The vote store mirrors
// the transactional semantics of the postgres repository: duplicate checks
// and chain linking happen under one lock.

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[uint]*models.VotingSession
	entries  *fakeAuditStore
	nextID   uint
}

func newFakeSessionStore(audit *fakeAuditStore) *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uint]*models.VotingSession), entries: audit, nextID: 1}
}

func (f *fakeSessionStore) add(s *models.VotingSession) *models.VotingSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == 0 {
		s.ID = f.nextID
		f.nextID++
	}
	f.sessions[s.ID] = s
	return s
}

func (f *fakeSessionStore) Create(ctx context.Context, session *models.VotingSession) error {
	f.add(session)
	return nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id uint) (*models.VotingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionStore) ListByOrganization(ctx context.Context, organizationID string) ([]models.VotingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.VotingSession
	for _, s := range f.sessions {
		if s.OrganizationID == organizationID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) ListOverdue(ctx context.Context, now time.Time) ([]models.VotingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.VotingSession
	for _, s := range f.sessions {
		if s.Status == models.StatusActive && s.ScheduledEndTime != nil && s.ScheduledEndTime.Before(now) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) UpdateDraft(ctx context.Context, session *models.VotingSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeSessionStore) DeleteDraft(ctx context.Context, sessionID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeSessionStore) Transition(
	ctx context.Context,
	sessionID uint,
	apply func(s *models.VotingSession) error,
	buildEntry func(prev *models.AuditLogEntry) (*models.AuditLogEntry, error),
) (*models.VotingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	if err := apply(session); err != nil {
		return nil, err
	}
	entry, err := buildEntry(f.entries.latest(sessionID))
	if err != nil {
		return nil, err
	}
	f.entries.append(entry)
	copied := *session
	return &copied, nil
}

type fakeOptionStore struct {
	mu      sync.Mutex
	options map[uint]*models.VotingOption
	nextID  uint
}

func newFakeOptionStore() *fakeOptionStore {
	return &fakeOptionStore{options: make(map[uint]*models.VotingOption), nextID: 1}
}

func (f *fakeOptionStore) Create(ctx context.Context, option *models.VotingOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if option.ID == 0 {
		option.ID = f.nextID
		f.nextID++
	}
	f.options[option.ID] = option
	return nil
}

func (f *fakeOptionStore) GetByID(ctx context.Context, id uint) (*models.VotingOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.options[id]
	if !ok {
		return nil, nil
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOptionStore) Update(ctx context.Context, option *models.VotingOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *option
	f.options[option.ID] = &copied
	return nil
}

func (f *fakeOptionStore) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.options, id)
	return nil
}

func (f *fakeOptionStore) ListBySession(ctx context.Context, sessionID uint) ([]models.VotingOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.VotingOption
	for id := uint(1); id < f.nextID; id++ {
		if o, ok := f.options[id]; ok && o.SessionID == sessionID {
			out = append(out, *o)
		}
	}
	return out, nil
}

type fakeEligibilityStore struct {
	mu   sync.Mutex
	rows map[uint]map[string]*models.VoterEligibility
}

func newFakeEligibilityStore() *fakeEligibilityStore {
	return &fakeEligibilityStore{rows: make(map[uint]map[string]*models.VoterEligibility)}
}

func (f *fakeEligibilityStore) Upsert(ctx context.Context, e *models.VoterEligibility) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows[e.SessionID] == nil {
		f.rows[e.SessionID] = make(map[string]*models.VoterEligibility)
	}
	f.rows[e.SessionID][e.VoterID] = e
	return nil
}

func (f *fakeEligibilityStore) Get(ctx context.Context, sessionID uint, voterID string) (*models.VoterEligibility, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.rows[sessionID][voterID]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEligibilityStore) ListBySession(ctx context.Context, sessionID uint) ([]models.VoterEligibility, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.VoterEligibility
	for _, e := range f.rows[sessionID] {
		out = append(out, *e)
	}
	return out, nil
}

type fakeVoteStore struct {
	mu      sync.Mutex
	votes   []models.Vote
	entries *fakeAuditStore
}

func newFakeVoteStore(audit *fakeAuditStore) *fakeVoteStore {
	return &fakeVoteStore{entries: audit}
}

func (f *fakeVoteStore) CastVote(
	ctx context.Context,
	vote *models.Vote,
	allowMultiple bool,
	buildEntry func(prev *models.AuditLogEntry) (*models.AuditLogEntry, error),
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !allowMultiple {
		for _, v := range f.votes {
			if v.SessionID != vote.SessionID {
				continue
			}
			if vote.VoterID != nil && v.VoterID != nil && *v.VoterID == *vote.VoterID {
				return models.ErrDuplicateVote
			}
			if vote.VoterID == nil && v.IsAnonymous && v.IPAddress == vote.IPAddress {
				return models.ErrDuplicateVote
			}
		}
	}
	f.votes = append(f.votes, *vote)
	entry, err := buildEntry(f.entries.latest(vote.SessionID))
	if err != nil {
		return err
	}
	f.entries.append(entry)
	return nil
}

func (f *fakeVoteStore) GetByReceipt(ctx context.Context, receiptID string) (*models.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.votes {
		if f.votes[i].ReceiptID == receiptID {
			copied := f.votes[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeVoteStore) HasVoted(ctx context.Context, sessionID uint, voterID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.votes {
		if v.SessionID == sessionID && v.VoterID != nil && *v.VoterID == voterID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeVoteStore) CountsByOption(ctx context.Context, sessionID uint) (map[uint]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[uint]int64)
	for _, v := range f.votes {
		if v.SessionID == sessionID {
			counts[v.OptionID]++
		}
	}
	return counts, nil
}

func (f *fakeVoteStore) TotalVotes(ctx context.Context, sessionID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, v := range f.votes {
		if v.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (f *fakeVoteStore) UniqueVoterCount(ctx context.Context, sessionID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	for _, v := range f.votes {
		if v.SessionID != sessionID {
			continue
		}
		if v.VoterID != nil {
			seen[*v.VoterID] = true
		} else {
			seen[v.IPAddress] = true
		}
	}
	return int64(len(seen)), nil
}

type fakeAuditStore struct {
	mu      sync.Mutex
	entries []models.AuditLogEntry
}

func newFakeAuditStore() *fakeAuditStore {
	return &fakeAuditStore{}
}

func (f *fakeAuditStore) append(entry *models.AuditLogEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
}

func (f *fakeAuditStore) latest(sessionID uint) *models.AuditLogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].SessionID == sessionID {
			copied := f.entries[i]
			return &copied
		}
	}
	return nil
}

func (f *fakeAuditStore) ListBySession(ctx context.Context, sessionID uint) ([]models.AuditLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AuditLogEntry
	for _, e := range f.entries {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAuditStore) GetByReceipt(ctx context.Context, receiptID string) (*models.AuditLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].ReceiptID == receiptID {
			copied := f.entries[i]
			return &copied, nil
		}
	}
	return nil, nil
}

// tamper replaces a stored entry field in place, bypassing every guard.
func (f *fakeAuditStore) tamper(mutate func(entries []models.AuditLogEntry)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	mutate(f.entries)
}

type fakeAlerter struct {
	mu     sync.Mutex
	alerts []models.IntegrityAlert
}

func (f *fakeAlerter) PublishIntegrityAlert(ctx context.Context, alert models.IntegrityAlert) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, alert)
}

func (f *fakeAlerter) published() []models.IntegrityAlert {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.IntegrityAlert{}, f.alerts...)
}

var (
	_ SessionStore     = (*fakeSessionStore)(nil)
	_ OptionStore      = (*fakeOptionStore)(nil)
	_ EligibilityStore = (*fakeEligibilityStore)(nil)
	_ VoteStore        = (*fakeVoteStore)(nil)
	_ AuditStore       = (*fakeAuditStore)(nil)
	_ Alerter          = (*fakeAlerter)(nil)
)
