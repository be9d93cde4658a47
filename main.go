package main

import (
	"context"
	"errors"
	"intake/auth"
	"intake/config"
	"intake/database"
	"intake/handlers"
	"intake/notify"
	"intake/service"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// store is what both the project service and the notification
// dispatcher need from persistence.
type store interface {
	service.Store
	notify.Recorder
}

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	var projects store
	if cfg.DatabaseURL == "memory" {
		log.Println("DATABASE_URL=memory: using in-memory store, data is lost on exit")
		projects = database.NewMemoryStore()
	} else {
		// Create context with timeout for initial connection
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := database.Connect(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to database: ", err)
		}
		defer db.Close()
		projects = db
	}

	var sender notify.Sender = notify.LogSender{}
	if cfg.Mail.Enabled() {
		sender = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.Mail.SMTPHost,
			Port:     cfg.Mail.SMTPPort,
			Username: cfg.Mail.SMTPUsername,
			Password: cfg.Mail.SMTPPassword,
			From:     cfg.Mail.From,
			Timeout:  cfg.Mail.Timeout,
		})
		log.Printf("Mail: smtp host=%s port=%d from=%s", cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.From)
	} else {
		log.Println("Mail: SMTP_HOST not set, decision emails are logged only")
	}
	dispatcher := notify.NewDispatcher(sender, projects, cfg.Mail.Timeout)

	authn := auth.NewAuthenticator(
		auth.Credentials{Email: cfg.AdminEmail, Password: cfg.AdminPassword},
		auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.TokenTTL),
	)

	router := handlers.NewRouter(handlers.RouterConfig{
		Projects:      service.NewProjectService(projects, dispatcher),
		Authenticator: authn,
		AllowOrigins:  cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("Server starting on :%s (token ttl %s)", cfg.Port, cfg.TokenTTL)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("Shutting down")

	shutCtx, cancelShut := context.WithTimeout(context.Background(), cfg.Mail.Timeout+5*time.Second)
	defer cancelShut()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := dispatcher.Wait(shutCtx); err != nil {
		log.Printf("Pending notifications abandoned: %v", err)
	}
}
