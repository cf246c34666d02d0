package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/parisxmas/formbox/internal/config"
	"github.com/parisxmas/formbox/internal/db"
	"github.com/parisxmas/formbox/internal/gelf"
	"github.com/parisxmas/formbox/internal/handler"
	"github.com/parisxmas/formbox/internal/repository"
	"github.com/parisxmas/formbox/internal/router"
	"github.com/parisxmas/formbox/internal/service"
)

func main() {
	cfg := config.Load()

	// GELF UDP logging
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr)
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	var (
		formStore repository.FormStore
		subStore  repository.SubmissionStore
		userStore repository.UserStore
		fileStore repository.FileStore
	)

	if cfg.Store == "memory" {
		mem := repository.NewMemoryStore()
		formStore = mem
		subStore = mem.Submissions()
		userStore = mem.Users()
		fileStore = mem.Files()
		if cfg.SeedDemo {
			if err := repository.SeedDemo(mem); err != nil {
				log.Printf("Warning: demo seed failed: %v", err)
			} else {
				log.Printf("Seeded demo form and submissions")
			}
		}
		log.Printf("Using in-memory store")
	} else {
		mongo, err := db.Connect(cfg.MongoURI, cfg.MongoDB, 10*time.Second)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongo.Close()
		log.Printf("Connected to MongoDB at %s (db %s)", cfg.MongoURI, cfg.MongoDB)

		formRepo := repository.NewFormRepo(mongo)
		subRepo := repository.NewSubmissionRepo(mongo)
		userRepo := repository.NewUserRepo(mongo)
		fileRepo, err := repository.NewFileRepo(mongo)
		if err != nil {
			log.Fatalf("Failed to open file bucket: %v", err)
		}
		formStore, subStore, userStore, fileStore = formRepo, subRepo, userRepo, fileRepo

		// Index builds can take a while on populated collections, so they
		// run in background while the server starts answering.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			log.Printf("Background init: creating indexes...")
			// Small collections first; the submission index build can take
			// minutes on a populated deployment.
			steps := []struct {
				name   string
				ensure func(context.Context) error
			}{
				{"users", userRepo.EnsureIndexes},
				{"forms", formRepo.EnsureIndexes},
				{"files", fileRepo.EnsureIndexes},
				{"submissions", subRepo.EnsureIndexes},
			}
			for _, step := range steps {
				if err := step.ensure(ctx); err != nil {
					log.Printf("Warning: %s index creation failed: %v", step.name, err)
				}
			}
			log.Printf("Background init: indexes ready")
		}()
	}

	// Services
	authSvc := service.NewAuthService(userStore, cfg.JWTSecret)
	formSvc := service.NewFormService(formStore, subStore)
	subSvc := service.NewSubmissionService(subStore, formStore)
	analyticsSvc := service.NewAnalyticsService(formStore, subStore)
	exportSvc := service.NewExportService(formStore, subStore)
	searchSvc := service.NewSearchService(formStore, subStore)
	fileSvc := service.NewFileService(fileStore, formStore)

	if cfg.AuthEnabled() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := authSvc.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPass); err != nil {
				log.Printf("Warning: failed to seed admin: %v", err)
			}
		}()
	} else {
		log.Printf("No JWT secret configured, API is open")
	}

	// Router
	r := router.New(cfg.JWTSecret, router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Form:       handler.NewFormHandler(formSvc),
		Submission: handler.NewSubmissionHandler(subSvc, fileSvc),
		Analytics:  handler.NewAnalyticsHandler(analyticsSvc, exportSvc),
		Search:     handler.NewSearchHandler(searchSvc),
		Dashboard:  handler.NewDashboardHandler(formSvc, subSvc),
		File:       handler.NewFileHandler(fileSvc),
		Admin:      handler.NewAdminHandler(formStore, subStore, fileStore),
	})

	log.Printf("formbox server starting on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
