package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/yizeng/gab/gin/gorm/chat-room/docs"
	v1 "github.com/yizeng/gab/gin/gorm/chat-room/internal/api/handler/v1"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/config"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/repository"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/repository/dao"
	"github.com/yizeng/gab/gin/gorm/chat-room/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	participantSvc := initParticipantService(db)
	participantHandler := v1.NewParticipantHandler(participantSvc)
	messageHandler := s.initMessageHandler(db)
	guard := middleware.NewIdentityGuard(participantSvc)
	s.MountHandlers(guard, participantHandler, messageHandler)

	return s
}

func initParticipantService(db *gorm.DB) *service.ParticipantService {
	participantDAO := dao.NewParticipantDAO(db)
	repo := repository.NewParticipantRepository(participantDAO)

	return service.NewParticipantService(repo)
}

func (s *Server) initMessageHandler(db *gorm.DB) *v1.MessageHandler {
	messageDAO := dao.NewMessageDAO(db)
	repo := repository.NewMessageRepository(messageDAO)
	svc := service.NewMessageService(repo)

	return v1.NewMessageHandler(svc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(guard *middleware.IdentityGuard, participantHandler *v1.ParticipantHandler, messageHandler *v1.MessageHandler) {
	// Registration, listing and heartbeat resolve identity themselves;
	// everything touching messages goes through the guard first.
	participants := s.Router.Group("")
	{
		participants.POST("/participants", participantHandler.HandleRegisterParticipant)
		participants.GET("/participants", participantHandler.HandleGetParticipants)
		participants.POST("/status", participantHandler.HandleHeartbeat)
	}

	messages := s.Router.Group("", guard.RequireParticipant())
	{
		messages.POST("/messages", messageHandler.HandleSendMessage)
		messages.GET("/messages", messageHandler.HandleGetMessages)
		messages.PUT("/messages/:messageID", messageHandler.HandleUpdateMessage)
		messages.DELETE("/messages/:messageID", messageHandler.HandleDeleteMessage)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Title = "API for gin/chat-room"
	docs.SwaggerInfo.Description = "A chat-room backend with presence tracking."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
