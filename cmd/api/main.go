package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"campusbooks/internal/adapter/api"
	"campusbooks/internal/adapter/api/handler"
	apimiddleware "campusbooks/internal/adapter/api/middleware"
	"campusbooks/internal/adapter/api/router"
	"campusbooks/internal/adapter/repository"
	"campusbooks/internal/domain/service"
	"campusbooks/internal/infrastructure/firebase"
	"campusbooks/internal/infrastructure/ratelimit"
	"campusbooks/internal/infrastructure/websocket"
	"campusbooks/internal/usecase"
	"campusbooks/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption

	// Service account JSON in the environment wins; a file path is the local
	// development fallback. With neither set, application default credentials
	// apply.
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	bookRepo := repository.NewFirestoreBookRepository(firestoreClient)
	interestRepo := repository.NewFirestoreInterestRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)
	conversationRepo := repository.NewFirestoreConversationRepository(firestoreClient)
	userRepo := repository.NewFirestoreUserRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	coverArt := service.NewCoverArtService(cfg.CoverArtBaseURL)

	authUseCase := usecase.NewAuthUseCase(firebaseAuthClient, userRepo)
	notifierUseCase := usecase.NewNotifierUseCase(bookRepo, interestRepo, notificationRepo)
	bookUseCase := usecase.NewBookUseCase(bookRepo, notifierUseCase, coverArt)
	interestUseCase := usecase.NewInterestUseCase(interestRepo, rateLimiter)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, wsManager)
	messageUseCase := usecase.NewMessageUseCase(conversationRepo, userRepo, wsManager, rateLimiter)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authUseCase),
		Book:         handler.NewBookHandler(bookUseCase),
		Interest:     handler.NewInterestHandler(interestUseCase),
		Notification: handler.NewNotificationHandler(notificationUseCase, wsManager),
		Message:      handler.NewMessageHandler(messageUseCase, wsManager),
		WebSocket:    handler.NewWebSocketHandler(wsManager, authMiddleware, notificationUseCase, messageUseCase),
	}

	router.Setup(e, handlers, authMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
