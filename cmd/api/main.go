package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postulate-api/config"
	"postulate-api/controllers"
	"postulate-api/models"
	"postulate-api/mq"
	"postulate-api/obs"
	"postulate-api/repository"
	"postulate-api/routes"
	"postulate-api/services"

	"github.com/gin-gonic/gin"
)

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	logFile, logWriter := config.InitLogging(settings.LogFile())
	if logFile != nil {
		defer logFile.Close()
	}
	gin.DefaultWriter = logWriter
	gin.DefaultErrorWriter = logWriter
	if err := settings.CheckServer(); err != nil {
		log.Fatalf("❌ %v", err)
	}
	if settings.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, settings.ServiceName, settings.OTLPEndpoint, settings.Environment)
	if err != nil {
		log.Printf("Warning: tracing disabled: %v", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	db, err := config.OpenDB(settings)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("❌ Failed to get database handle: %v", err)
	}
	defer sqlDB.Close()

	if settings.AutoMigrate {
		if err := models.AutoMigrate(db); err != nil {
			log.Fatalf("❌ Migration failed: %v", err)
		}
	}

	var publisher *mq.Publisher
	var events services.EventPublisher
	if settings.RabbitURL != "" {
		publisher, err = mq.NewPublisher(settings.RabbitURL, settings.RabbitExchange, settings.ServiceName)
		if err != nil {
			log.Printf("Warning: event publishing disabled: %v", err)
		} else {
			events = publisher
		}
	}

	mailer := config.NewMailer(settings)
	var notifiers services.MultiNotifier
	var mailNotifier *services.MailNotifier
	if settings.MailConfigured() {
		mailNotifier = services.NewMailNotifier(mailer, settings.NotificationEmail, settings.FrontendURL)
		notifiers = append(notifiers, mailNotifier)
	} else {
		notifiers = append(notifiers, services.LogNotifier{})
	}
	var eventNotifier *services.EventNotifier
	if events != nil {
		eventNotifier = services.NewEventNotifier(events)
		notifiers = append(notifiers, eventNotifier)
	}

	users := repository.NewUserRepo(db)
	tokens := services.NewTokenService(settings.JWTSecret, settings.TokenTTL())
	authService := services.NewAuthService(users, tokens, settings.BcryptCost)
	ideaService := services.NewIdeaService(repository.NewIdeaRepo(db), events)
	waitlistService := services.NewWaitlistService(users, repository.NewWaitlistRepo(db), notifiers)

	router := routes.NewRouter(routes.Handlers{
		Auth:           controllers.NewAuthController(authService),
		Ideas:          controllers.NewIdeaController(ideaService),
		Waitlist:       controllers.NewWaitlistController(waitlistService),
		Health:         controllers.NewHealthController(sqlDB),
		Tokens:         tokens,
		AllowedOrigins: settings.AllowedOrigins(),
		ServiceName:    settings.ServiceName,
		Version:        obs.Version,
		LogFile:        settings.LogFile(),
	})

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	log.Printf("🚀 Server running on port %s", settings.Port)
	log.Printf("📡 Environment: %s", settings.Environment)
	log.Printf("📊 Database connected (%s)", config.DriverName(settings))
	log.Printf("🌐 CORS enabled for: %v", settings.AllowedOrigins())
	if !settings.MailConfigured() {
		log.Printf("✉️  SMTP not configured, waitlist emails are logged only")
	}

	<-ctx.Done()
	log.Printf("🛑 Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: server shutdown: %v", err)
	}
	if mailNotifier != nil {
		mailNotifier.Wait()
	}
	ideaService.Wait()
	if eventNotifier != nil {
		eventNotifier.Wait()
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Printf("Warning: close publisher: %v", err)
		}
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Printf("Warning: tracer shutdown: %v", err)
	}
}
