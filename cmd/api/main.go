package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drehill/site-api/internal/application/auth"
	"github.com/drehill/site-api/internal/config"
	"github.com/drehill/site-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/drehill/site-api/internal/infrastructure/jwt"
	"github.com/drehill/site-api/internal/infrastructure/memory"
	s3infra "github.com/drehill/site-api/internal/infrastructure/s3"
	"github.com/drehill/site-api/internal/infrastructure/smtp"
	"github.com/drehill/site-api/internal/infrastructure/sns"
	transporthttp "github.com/drehill/site-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Session token secret. Tokens sign the single admin identity, so an
	// unset secret is a hard failure unless the ephemeral fallback is
	// explicitly enabled — in that mode every restart invalidates all
	// outstanding sessions.
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		if !cfg.JWTAllowEphemeral {
			log.Fatal("JWT_SECRET is not set; refusing to start (set JWT_ALLOW_EPHEMERAL_SECRET=true to generate a throwaway secret)")
		}
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("generate ephemeral secret: %v", err)
		}
		log.Println("WARN: JWT_SECRET is not set; using an ephemeral secret — all sessions die on restart")
	}
	jwtProvider, err := jwtinfra.NewProvider(secret, cfg.JWTExpiry)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	// S3 store.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional — graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	// Pending OTP codes live in memory by default; the dynamo store
	// survives restarts and works across replicas.
	var otpStore auth.OTPStore
	switch cfg.OTPStore {
	case "dynamo":
		otpStore = dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPCodes)
	default:
		otpStore = memory.NewOTPStore()
	}

	deps := &transporthttp.Deps{
		PostRepo:       dynamo.NewPostRepo(dynamoClient, cfg.DynamoTables.Posts),
		SubmissionRepo: dynamo.NewSubmissionRepo(dynamoClient, cfg.DynamoTables.Submissions),
		SubscriberRepo: dynamo.NewSubscriberRepo(dynamoClient, cfg.DynamoTables.Subscribers),
		OTPStore:       otpStore,
		S3Store:        s3Store,
		Mailer:         mailer,
		SMSSender:      smsSender,
		JWTProvider:    jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
