package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yizeng/gab/gin/gorm/chat-room/internal/api"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/config"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/db"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/logger"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/repository"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/repository/dao"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/service"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reaper := service.NewPresenceReaper(
		repository.NewParticipantRepository(dao.NewParticipantDAO(postgresDB)),
		conf.Presence.SweepInterval,
		conf.Presence.ExpiryWindow,
	)
	go func() {
		_ = reaper.Run(ctx)
	}()

	s := api.NewServer(conf, postgresDB)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
