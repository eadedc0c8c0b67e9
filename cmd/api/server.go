package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/api/handlers/statements"
	mw "github.com/Ajith-te/Bank-Statement-upload-DB/internal/api/middlewares"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/api/routers"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/banks"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/config"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/repositories/sqlconnect"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/repositories/statementstore"
	"github.com/Ajith-te/Bank-Statement-upload-DB/internal/services"
	ingest "github.com/Ajith-te/Bank-Statement-upload-DB/internal/statements"
	"github.com/Ajith-te/Bank-Statement-upload-DB/pkg/cron"
	"github.com/Ajith-te/Bank-Statement-upload-DB/pkg/utils"
)

//	@title						Bank Statements API
//	@version					0.2
//	@description				Uploads HDFC, ICICI and SBI statement workbooks and stores their new transactions.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				"Bearer <token>"; ignored when AUTH_MODE=none.
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		utils.Logger.Warnf("Failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		utils.Logger.Fatal("Invalid configuration: ", err)
	}

	utils.InitLogger(cfg.App.LogLevel, cfg.App.Env)

	registry, err := banks.Load(cfg.Banks.Profiles)
	if err != nil {
		utils.Logger.Fatal("Bank profiles failed to load: ", err)
	}

	err = sqlconnect.ConnectDb(cfg.DB)
	if err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}
	defer sqlconnect.DB.Close()

	if cfg.DB.Migrate {
		if err := sqlconnect.RunMigrations(sqlconnect.DB); err != nil {
			utils.Logger.Fatal(utils.ErrorHandler(err, "DB migration failed"))
		}
	}

	verifier, err := services.NewTokenVerifier(cfg.Auth)
	if err != nil {
		utils.Logger.Fatal("Auth setup failed: ", err)
	}

	store := statementstore.New(sqlconnect.DB,
		statementstore.WithLockWait(cfg.Store.LockWait),
		statementstore.WithChunkSize(cfg.Store.ChunkSize),
	)

	handler := &statements.Handler{
		Banks:     registry,
		Ingester:  ingest.NewIngestor(store),
		Lister:    store,
		MaxUpload: cfg.Server.MaxUploadMB << 20,
		Timeout:   cfg.Server.RequestTimeout,
	}

	digest := &cron.UploadDigest{
		Banks:  registry,
		Source: store,
		To:     cfg.Digest.To,
	}
	mailer := utils.Mailer{Host: cfg.SMTP.Host, Port: cfg.SMTP.Port, From: cfg.SMTP.Email, Password: cfg.SMTP.Pass}
	if mailer.Enabled() {
		digest.Mailer = mailer
	}
	scheduler, err := cron.StartCronJob(cfg.Digest.Schedule, digest)
	if err != nil {
		utils.Logger.Fatal(err)
	}
	defer scheduler.Stop()

	router := routers.MainRouter(handler, store)
	authMiddleware := mw.MiddlewaresExcludePaths(mw.AuthMiddleware(verifier), "/", "/healthz", "/swagger/*")

	secureMux := utils.ApplyMiddlewares(router, mw.RequestID, mw.Cors, mw.SecurityHeaders, authMiddleware)

	server := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           secureMux,
		ReadHeaderTimeout: 10 * time.Second,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	go func() {
		utils.Logger.Infof("Server is running on port %s (auth=%s, banks=%v)", cfg.Server.Port, cfg.Auth.Mode, registry.Codes())
		var serveErr error
		if cfg.Server.TLS() {
			serveErr = server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
		} else {
			serveErr = server.ListenAndServe()
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			utils.Logger.Fatal("Error starting the server: ", serveErr)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		utils.Logger.Errorf("Server shutdown failed: %v", err)
	}
	utils.Logger.Info("Server stopped")
}
