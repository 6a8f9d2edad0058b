package bootstrap

import (
	"context"
	"log"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/config"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/controller"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/logger"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/mailer"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/implementation"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/service"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/socket"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/memory"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/quiz"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/retrieval"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/embedding"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/genai/live"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/llm/factory"

	pktNats "github.com/Divyapahuja31/ASKMYNOTES/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const askCompletedTopic = "ask.completed"

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	SubjectController controller.ISubjectController
	AskController     controller.IAskController
	QuizController    controller.IQuizController

	// WebSocket entrypoint (ask streaming + voice bridge)
	SocketHandler *socket.Handler

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, "")
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3.5 Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 4. Repositories
	userRepo := implementation.NewUserRepository(db)
	subjectRepo := implementation.NewSubjectRepository(db)
	chunkRepo := implementation.NewNoteChunkRepository(db)
	memoryRepo := implementation.NewMemoryTurnRepository(db)
	quizRepo := implementation.NewQuizRepository(db)
	usageRepo := implementation.NewUsageRecordRepository(db)

	// 5. Ask pipeline
	retriever := retrieval.NewRetriever(embeddingProvider, chunkRepo, cfg.Crag.TopK)
	reranker := retrieval.NewReranker(cfg.Crag.RerankTopN)
	memoryStore := memory.NewStore(memoryRepo)
	pipeline := crag.NewPipeline(
		retriever,
		reranker,
		memoryStore,
		llmProvider,
		sysLogger,
		cfg.Crag.NotFoundThreshold,
	)
	quizGenerator := quiz.NewGenerator(chunkRepo, llmProvider, sysLogger)

	// 6. Services
	accessVerifier := service.NewAccessVerifier(subjectRepo, rdb, cfg.Crag.DailyAskLimit, sysLogger)
	publisherService := service.NewPublisherService(askCompletedTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, askCompletedTopic, usageRepo, sysLogger)

	authService := service.NewAuthService(userRepo, emailService, natsPub, cfg)
	subjectService := service.NewSubjectService(subjectRepo, accessVerifier)
	askService := service.NewAskService(pipeline, accessVerifier, publisherService, natsPub, sysLogger)
	quizService := service.NewQuizService(quizGenerator, quizRepo, accessVerifier, sysLogger)

	// 7. WebSocket entrypoint
	wsLogger := logger.NewIsolatedLogger("logs/socket.log")
	socketHandler := socket.NewHandler(
		askService,
		accessVerifier,
		live.NewGeminiDialer(),
		live.Config{
			Endpoint: cfg.Voice.LiveEndpoint,
			APIKey:   cfg.Keys.GoogleGemini,
			Model:    cfg.Voice.LiveModel,
			Voice:    cfg.Voice.LiveVoice,
		},
		wsLogger,
	)

	return &Container{
		AuthController:    controller.NewAuthController(authService, cfg.App.ClientURL),
		SubjectController: controller.NewSubjectController(subjectService),
		AskController:     controller.NewAskController(askService),
		QuizController:    controller.NewQuizController(quizService),

		SocketHandler: socketHandler,

		ConsumerService: consumerService,
	}
}
