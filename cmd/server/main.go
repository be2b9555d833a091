package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/valora-mx/estimator-api/internal/business/estimator"
	"github.com/valora-mx/estimator-api/internal/business/wizard"
	"github.com/valora-mx/estimator-api/internal/platform/config"
	firestoreclient "github.com/valora-mx/estimator-api/internal/platform/firestore"
	"github.com/valora-mx/estimator-api/internal/platform/geocode"
	apirouter "github.com/valora-mx/estimator-api/internal/platform/http"
	sheetsclient "github.com/valora-mx/estimator-api/internal/platform/sheets"
	"github.com/valora-mx/estimator-api/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	firestoreClient, credsSource, err := firestoreclient.New(ctx, cfg)
	if err != nil {
		log.Fatalf("firestore init: %v", err)
	}
	defer firestoreClient.Close()

	if err := firestoreclient.Ping(ctx, firestoreClient); err != nil {
		log.Fatalf("firestore ping: %v", err)
	}
	log.Printf("connected to Firestore project %s using %s credentials", cfg.FirebaseProjectID, credsSource)

	creds, _, err := cfg.GoogleCredentialsJSON()
	if err != nil {
		log.Fatalf("google credentials: %v", err)
	}
	sheetClient, err := sheetsclient.New(ctx, creds, cfg.SpreadsheetID, cfg.SheetName)
	if err != nil {
		log.Fatalf("sheets init: %v", err)
	}

	leadRepo := repository.NewLeadRepository(firestoreClient)
	statsRepo := repository.NewStatsRepository(firestoreClient)

	geocoder := geocode.New(nil, geocode.Config{
		BaseURL:   cfg.GeocodeBaseURL,
		UserAgent: cfg.GeocodeUserAgent,
		Country:   cfg.GeocodeCountry,
		Mock:      cfg.GeocodeMock,
	})

	loader := estimator.NewLoader(cfg.ModelDir)
	estimateSvc := estimator.NewService(loader, cfg.PriceDampening)
	if cfg.PriceDampening != 1.0 {
		log.Printf("price dampening enabled: %g", cfg.PriceDampening)
	}

	sessions := wizard.NewStore()
	router := apirouter.NewRouter(sessions, geocoder, estimateSvc, leadRepo, statsRepo, sheetClient, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on :%s", cfg.Port)

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	log.Println("server exited")
}
