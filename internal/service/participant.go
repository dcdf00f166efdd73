package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yizeng/gab/gin/gorm/chat-room/internal/domain"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/repository"
)

var (
	ErrParticipantNameTaken = repository.ErrParticipantNameTaken
	ErrParticipantNotFound  = repository.ErrParticipantNotFound
)

type ParticipantRepository interface {
	Create(ctx context.Context, participant domain.Participant, announcement domain.Message) (domain.Participant, error)
	FindAll(ctx context.Context) ([]domain.Participant, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	UpdateLastSeen(ctx context.Context, name string, seenAt time.Time) error
}

type ParticipantService struct {
	repo ParticipantRepository
}

func NewParticipantService(repo ParticipantRepository) *ParticipantService {
	return &ParticipantService{
		repo: repo,
	}
}

// Register creates the participant together with its broadcast join notice.
// A duplicate name surfaces as ErrParticipantNameTaken.
func (s *ParticipantService) Register(ctx context.Context, name string) (domain.Participant, error) {
	now := time.Now()

	created, err := s.repo.Create(ctx, domain.Participant{
		Name:     name,
		LastSeen: now,
	}, domain.JoinAnnouncement(name, now))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *ParticipantService) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	participants, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return participants, nil
}

// Heartbeat refreshes the participant's last-seen stamp. Idempotent.
func (s *ParticipantService) Heartbeat(ctx context.Context, name string) error {
	if err := s.repo.UpdateLastSeen(ctx, name, time.Now()); err != nil {
		return fmt.Errorf("s.repo.UpdateLastSeen -> %w", err)
	}

	return nil
}

// Exists is the authorization predicate used by the identity guard.
func (s *ParticipantService) Exists(ctx context.Context, name string) (bool, error) {
	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return false, fmt.Errorf("s.repo.ExistsByName -> %w", err)
	}

	return exists, nil
}
