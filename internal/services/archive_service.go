package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"voting-service/internal/models"
)

// ObjectStore is the slice of object storage the archive needs.
type ObjectStore interface {
	PutObject(ctx context.Context, objectName string, data []byte, contentType string) error
}

// ArchiveService exports a closed session's full audit chain to object
// storage as a JSONL evidence bundle for out-of-band retention. The ledger
// in Postgres stays authoritative; the bundle is for operators and external
// auditors.
type ArchiveService struct {
	store ObjectStore
}

func NewArchiveService(store ObjectStore) *ArchiveService {
	if store == nil {
		return nil
	}
	return &ArchiveService{store: store}
}

// ArchiveChain writes one JSON line per ledger entry and returns the object
// name. A nil service (archive disabled) is a no-op.
func (s *ArchiveService) ArchiveChain(ctx context.Context, session *models.VotingSession, entries []models.AuditLogEntry) (string, error) {
	if s == nil {
		return "", nil
	}
	var buf bytes.Buffer
	for i := range entries {
		line, err := json.Marshal(&entries[i])
		if err != nil {
			return "", fmt.Errorf("failed to encode audit entry: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	objectName := fmt.Sprintf("sessions/%d/audit-chain-%s.jsonl",
		session.ID, time.Now().UTC().Format("20060102T150405Z"))
	if err := s.store.PutObject(ctx, objectName, buf.Bytes(), "application/x-ndjson"); err != nil {
		return "", err
	}
	return objectName, nil
}
