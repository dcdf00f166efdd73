package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrParticipantNameTaken = errors.New("participant name already taken")
	ErrParticipantNotFound  = errors.New("participant not found")

	// errParticipantRefreshed aborts an expiry transaction when the row's
	// last_seen moved between the stale scan and the delete.
	errParticipantRefreshed = errors.New("participant refreshed during expiry")
)

type Participant struct {
	ID uint `gorm:"primaryKey"`

	Name     string    `gorm:"unique;not null"`
	LastSeen time.Time `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ParticipantDAO struct {
	db *gorm.DB
}

func NewParticipantDAO(db *gorm.DB) *ParticipantDAO {
	return &ParticipantDAO{
		db: db,
	}
}

// Insert creates the participant and its join announcement in one
// transaction. Name uniqueness is enforced by the unique constraint, so two
// racing registrations cannot both succeed.
func (d *ParticipantDAO) Insert(ctx context.Context, participant Participant, announcement Message) (Participant, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&participant).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) &&
				pgErr.Code == pgerrcode.UniqueViolation &&
				strings.Contains(pgErr.Message, `unique constraint "uni_participants_name"`) {
				return ErrParticipantNameTaken
			}

			return err
		}

		announcement.ID = newMessageID()

		return tx.Create(&announcement).Error
	})
	if err != nil {
		return Participant{}, err
	}

	return participant, nil
}

func (d *ParticipantDAO) FindAll(ctx context.Context) ([]Participant, error) {
	var participants []Participant

	result := d.db.WithContext(ctx).Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}

	return participants, nil
}

func (d *ParticipantDAO) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Participant{}).Where("name = ?", name).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *ParticipantDAO) UpdateLastSeen(ctx context.Context, name string, seenAt time.Time) error {
	result := d.db.WithContext(ctx).
		Model(&Participant{}).
		Where("name = ?", name).
		Update("last_seen", seenAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipantNotFound
	}

	return nil
}

func (d *ParticipantDAO) FindStale(ctx context.Context, olderThan time.Time) ([]Participant, error) {
	var participants []Participant

	result := d.db.WithContext(ctx).Where("last_seen < ?", olderThan).Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}

	return participants, nil
}

// Expire records the leave announcement and deletes the participant in one
// transaction. The delete is guarded on last_seen so a heartbeat that lands
// mid-sweep keeps the participant and rolls the announcement back.
func (d *ParticipantDAO) Expire(ctx context.Context, participant Participant, announcement Message) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		announcement.ID = newMessageID()

		if err := tx.Create(&announcement).Error; err != nil {
			return err
		}

		result := tx.
			Where("name = ? AND last_seen = ?", participant.Name, participant.LastSeen).
			Delete(&Participant{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errParticipantRefreshed
		}

		return nil
	})
	if errors.Is(err, errParticipantRefreshed) {
		// Not an error for the sweep; the participant came back.
		return nil
	}

	return err
}
