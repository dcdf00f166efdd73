package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB starts a disposable Postgres container. Skipped when Docker
// is not available so the unit suites still run everywhere.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not construct docker pool: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=chat_room_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})
	_ = resource.Expire(180)

	dsn := fmt.Sprintf("postgres://postgres:secret@%v/chat_room_test?sslmode=disable",
		resource.GetHostPort("5432/tcp"))

	var db *gorm.DB
	pool.MaxWait = 2 * time.Minute
	err = pool.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if openErr != nil {
			return openErr
		}

		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return dbErr
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, InitTables(db))

	return db
}

func TestParticipantDAO_Insert(t *testing.T) {
	db := setupTestDB(t)
	participantDAO := NewParticipantDAO(db)
	ctx := context.Background()

	created, err := participantDAO.Insert(ctx, Participant{
		Name:     "Maria",
		LastSeen: time.Now(),
	}, Message{
		Sender:    "Maria",
		Recipient: "Todos",
		Text:      "joins the room",
		Type:      "status",
		Time:      "10:00:00",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	// The join announcement lands in the same transaction.
	var count int64
	require.NoError(t, db.Model(&Message{}).Where("sender = ?", "Maria").Count(&count).Error)
	require.EqualValues(t, 1, count)

	// Racing duplicate hits the unique constraint.
	_, err = participantDAO.Insert(ctx, Participant{
		Name:     "Maria",
		LastSeen: time.Now(),
	}, Message{
		Sender:    "Maria",
		Recipient: "Todos",
		Text:      "joins the room",
		Type:      "status",
		Time:      "10:00:01",
	})
	require.ErrorIs(t, err, ErrParticipantNameTaken)

	// The duplicate's announcement must have been rolled back.
	require.NoError(t, db.Model(&Message{}).Where("sender = ?", "Maria").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestParticipantDAO_UpdateLastSeen(t *testing.T) {
	db := setupTestDB(t)
	participantDAO := NewParticipantDAO(db)
	ctx := context.Background()

	start := time.Now().Add(-time.Minute)
	_, err := participantDAO.Insert(ctx, Participant{Name: "Maria", LastSeen: start}, statusMessage("Maria"))
	require.NoError(t, err)

	require.NoError(t, participantDAO.UpdateLastSeen(ctx, "Maria", time.Now()))

	stale, err := participantDAO.FindStale(ctx, time.Now().Add(-10*time.Second))
	require.NoError(t, err)
	require.Empty(t, stale)

	err = participantDAO.UpdateLastSeen(ctx, "Ghost", time.Now())
	require.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestParticipantDAO_Expire(t *testing.T) {
	db := setupTestDB(t)
	participantDAO := NewParticipantDAO(db)
	ctx := context.Background()

	lastSeen := time.Now().Add(-time.Minute).Truncate(time.Microsecond)
	_, err := participantDAO.Insert(ctx, Participant{Name: "Maria", LastSeen: lastSeen}, statusMessage("Maria"))
	require.NoError(t, err)

	stale, err := participantDAO.FindStale(ctx, time.Now().Add(-10*time.Second))
	require.NoError(t, err)
	require.Len(t, stale, 1)

	err = participantDAO.Expire(ctx, stale[0], Message{
		Sender:    "Maria",
		Recipient: "Todos",
		Text:      "leaves the room",
		Type:      "status",
		Time:      "10:05:00",
	})
	require.NoError(t, err)

	exists, err := participantDAO.ExistsByName(ctx, "Maria")
	require.NoError(t, err)
	require.False(t, exists)

	var count int64
	require.NoError(t, db.Model(&Message{}).Where("text = ?", "leaves the room").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestParticipantDAO_Expire_RefreshedMidSweep(t *testing.T) {
	db := setupTestDB(t)
	participantDAO := NewParticipantDAO(db)
	ctx := context.Background()

	lastSeen := time.Now().Add(-time.Minute).Truncate(time.Microsecond)
	_, err := participantDAO.Insert(ctx, Participant{Name: "Maria", LastSeen: lastSeen}, statusMessage("Maria"))
	require.NoError(t, err)

	stale, err := participantDAO.FindStale(ctx, time.Now().Add(-10*time.Second))
	require.NoError(t, err)
	require.Len(t, stale, 1)

	// A heartbeat lands between the scan and the delete.
	require.NoError(t, participantDAO.UpdateLastSeen(ctx, "Maria", time.Now()))

	require.NoError(t, participantDAO.Expire(ctx, stale[0], Message{
		Sender:    "Maria",
		Recipient: "Todos",
		Text:      "leaves the room",
		Type:      "status",
		Time:      "10:05:00",
	}))

	// The participant survived and no departure was announced.
	exists, err := participantDAO.ExistsByName(ctx, "Maria")
	require.NoError(t, err)
	require.True(t, exists)

	var count int64
	require.NoError(t, db.Model(&Message{}).Where("text = ?", "leaves the room").Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestMessageDAO_FindVisibleTo(t *testing.T) {
	db := setupTestDB(t)
	messageDAO := NewMessageDAO(db)
	ctx := context.Background()

	insert := func(sender, recipient, text string) {
		_, err := messageDAO.Insert(ctx, Message{
			Sender:    sender,
			Recipient: recipient,
			Text:      text,
			Type:      "private",
			Time:      "10:00:00",
		})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond) // distinct created_at for stable ordering
	}

	insert("Maria", "Todos", "hi everyone")
	insert("Maria", "Joao", "just for you")
	insert("Joao", "Maria", "right back")
	insert("Carla", "Joao", "third party exchange")

	// Maria never sees the Carla/Joao message.
	visible, err := messageDAO.FindVisibleTo(ctx, "Maria", "Todos", 0)
	require.NoError(t, err)
	require.Len(t, visible, 3)
	require.Equal(t, "right back", visible[0].Text)
	require.Equal(t, "just for you", visible[1].Text)
	require.Equal(t, "hi everyone", visible[2].Text)

	// Tail-limit keeps the newest entries.
	limited, err := messageDAO.FindVisibleTo(ctx, "Maria", "Todos", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, visible[:2], limited)
}

func TestMessageDAO_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	messageDAO := NewMessageDAO(db)
	ctx := context.Background()

	created, err := messageDAO.Insert(ctx, Message{
		Sender:    "Maria",
		Recipient: "Joao",
		Text:      "helo",
		Type:      "private",
		Time:      "10:00:00",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	created.Text = "hello"
	created.Time = "10:00:05"
	updated, err := messageDAO.Update(ctx, created)
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "hello", updated.Text)
	require.Equal(t, "10:00:05", updated.Time)

	require.NoError(t, messageDAO.Delete(ctx, created.ID))

	_, err = messageDAO.FindByID(ctx, created.ID)
	require.ErrorIs(t, err, ErrMessageNotFound)

	err = messageDAO.Delete(ctx, created.ID)
	require.ErrorIs(t, err, ErrMessageNotFound)
}

func statusMessage(name string) Message {
	return Message{
		Sender:    name,
		Recipient: "Todos",
		Text:      "joins the room",
		Type:      "status",
		Time:      "10:00:00",
	}
}
