package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/lawease/lawease/internal/blob"
	"github.com/lawease/lawease/internal/config"
	"github.com/lawease/lawease/internal/handler"
	"github.com/lawease/lawease/internal/queue"
	"github.com/lawease/lawease/internal/router"
	"github.com/lawease/lawease/internal/store"
	"github.com/lawease/lawease/internal/store/jsonfile"
	"github.com/lawease/lawease/internal/store/mysql"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	st, err := newStore(cfg)
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}
	defer st.Close()

	blobStore, err := newBlobStore(cfg)
	if err != nil {
		log.Fatalf("blob store init failed: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}

	var pub *queue.Publisher
	if cfg.RabbitURL != "" {
		pub = queue.NewPublisher(cfg.RabbitURL)
		defer pub.Close()
		go func() {
			if err := queue.StartAuditConsumer(cfg.RabbitURL); err != nil {
				log.Printf("audit consumer not started: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.Register(e, router.Deps{
		Cfg:       cfg,
		Store:     st,
		Redis:     rdb,
		Auth:      handler.NewAuthHandler(cfg, st, pub),
		Admin:     handler.NewAdminHandler(st, pub),
		Clients:   handler.NewClientHandler(st, pub),
		Cases:     handler.NewCaseHandler(st, pub),
		Documents: handler.NewDocumentHandler(cfg, st, blobStore, pub),
		Messages:  handler.NewMessageHandler(st, pub),
		Stats:     handler.NewStatsHandler(st),
		Audit:     handler.NewAuditHandler(st),
	})

	addr := ":" + cfg.Port
	log.Printf("lawease-api listening on %s (env=%s store=%s blob=%s)",
		addr, cfg.Env, cfg.StoreDriver, blobStore.Provider())
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

func newStore(cfg config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "mysql":
		return mysql.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	default:
		return jsonfile.Open(cfg.JSONFilePath)
	}
}

func newBlobStore(cfg config.Config) (blob.Store, error) {
	if cfg.BlobDriver == "s3" {
		return blob.NewS3Store(context.Background(), blob.S3Config{
			Region:         cfg.S3Region,
			Bucket:         cfg.S3Bucket,
			Endpoint:       cfg.S3Endpoint,
			AccessKey:      os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey:      os.Getenv("AWS_SECRET_ACCESS_KEY"),
			ForcePathStyle: cfg.S3ForcePathStyle,
		})
	}
	return blob.NewLocalStore(cfg.UploadDir)
}
