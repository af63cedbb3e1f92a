package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"voting-service/internal/config"
	"voting-service/internal/database"
	"voting-service/internal/models"
	"voting-service/internal/repositories/postgres"
)

func main() {
	cfg := config.Load()

	slog.Info("Starting database seeding...")

	db, err := database.NewPostgresConnection(cfg.Database.URI, nil)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	ctx := context.Background()
	sessionRepo := postgres.NewSessionRepository(db)
	optionRepo := postgres.NewOptionRepository(db)
	eligibilityRepo := postgres.NewEligibilityRepository(db)

	slog.Info("Creating demo session...")

	session := &models.VotingSession{
		OrganizationID:         "org-demo",
		Title:                  "2026 Contract Ratification",
		Description:            "Ratification vote on the tentative agreement",
		Type:                   models.TypeRatification,
		Status:                 models.StatusDraft,
		RequireAuthentication:  true,
		RequiresQuorum:         true,
		QuorumThresholdPercent: 50,
		TotalEligibleVoters:    5,
	}
	if err := sessionRepo.Create(ctx, session); err != nil {
		log.Fatal("Failed to create demo session:", err)
	}
	slog.Info("Created demo session", "id", session.ID)

	options := []string{"Ratify the agreement", "Reject the agreement", "Abstain"}
	for i, text := range options {
		option := &models.VotingOption{
			SessionID:  session.ID,
			Text:       text,
			OrderIndex: i,
		}
		if err := optionRepo.Create(ctx, option); err != nil {
			log.Fatal("Failed to create option:", err)
		}
	}
	slog.Info("Created options", "count", len(options))

	for i := 1; i <= 5; i++ {
		elig := &models.VoterEligibility{
			SessionID: session.ID,
			VoterID:   fmt.Sprintf("member-%03d", i),
		}
		if err := eligibilityRepo.Upsert(ctx, elig); err != nil {
			log.Fatal("Failed to add voter to roster:", err)
		}
	}
	slog.Info("Seeded voter roster", "voters", 5)

	slog.Info("Database seeding completed successfully!")
}
