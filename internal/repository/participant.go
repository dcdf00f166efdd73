package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yizeng/gab/gin/gorm/chat-room/internal/domain"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/repository/dao"
)

var (
	ErrParticipantNameTaken = dao.ErrParticipantNameTaken
	ErrParticipantNotFound  = dao.ErrParticipantNotFound
)

type ParticipantDAO interface {
	Insert(ctx context.Context, participant dao.Participant, announcement dao.Message) (dao.Participant, error)
	FindAll(ctx context.Context) ([]dao.Participant, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	UpdateLastSeen(ctx context.Context, name string, seenAt time.Time) error
	FindStale(ctx context.Context, olderThan time.Time) ([]dao.Participant, error)
	Expire(ctx context.Context, participant dao.Participant, announcement dao.Message) error
}

type ParticipantRepository struct {
	dao ParticipantDAO
}

func NewParticipantRepository(dao ParticipantDAO) *ParticipantRepository {
	return &ParticipantRepository{
		dao: dao,
	}
}

func (r *ParticipantRepository) Create(ctx context.Context, participant domain.Participant, announcement domain.Message) (domain.Participant, error) {
	created, err := r.dao.Insert(ctx, dao.Participant{
		Name:     participant.Name,
		LastSeen: participant.LastSeen,
	}, messageDomainToDAO(announcement))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ParticipantRepository) FindAll(ctx context.Context) ([]domain.Participant, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	participants := make([]domain.Participant, 0, len(found))
	for _, p := range found {
		participants = append(participants, r.daoToDomain(p))
	}

	return participants, nil
}

func (r *ParticipantRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	exists, err := r.dao.ExistsByName(ctx, name)
	if err != nil {
		return false, fmt.Errorf("r.dao.ExistsByName -> %w", err)
	}

	return exists, nil
}

func (r *ParticipantRepository) UpdateLastSeen(ctx context.Context, name string, seenAt time.Time) error {
	if err := r.dao.UpdateLastSeen(ctx, name, seenAt); err != nil {
		return fmt.Errorf("r.dao.UpdateLastSeen -> %w", err)
	}

	return nil
}

func (r *ParticipantRepository) FindStale(ctx context.Context, olderThan time.Time) ([]domain.Participant, error) {
	found, err := r.dao.FindStale(ctx, olderThan)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindStale -> %w", err)
	}

	participants := make([]domain.Participant, 0, len(found))
	for _, p := range found {
		participants = append(participants, r.daoToDomain(p))
	}

	return participants, nil
}

func (r *ParticipantRepository) Expire(ctx context.Context, participant domain.Participant, announcement domain.Message) error {
	err := r.dao.Expire(ctx, dao.Participant{
		Name:     participant.Name,
		LastSeen: participant.LastSeen,
	}, messageDomainToDAO(announcement))
	if err != nil {
		return fmt.Errorf("r.dao.Expire -> %w", err)
	}

	return nil
}

func (r *ParticipantRepository) daoToDomain(p dao.Participant) domain.Participant {
	return domain.Participant{
		Name:     p.Name,
		LastSeen: p.LastSeen,
	}
}
