package app

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/albt6x/rent-a-camera/cart"
	"github.com/albt6x/rent-a-camera/config"
	"github.com/albt6x/rent-a-camera/db"
	"github.com/albt6x/rent-a-camera/logging"
	"github.com/albt6x/rent-a-camera/notify"
	"github.com/albt6x/rent-a-camera/rental"
	"github.com/albt6x/rent-a-camera/session"
	"github.com/albt6x/rent-a-camera/uploads"
)

// handler-side aliases
type Ctx = gin.Context
type H = gin.H

// App aggregates the process-wide dependencies.
type App struct {
	Router  *gin.Engine
	DB      *gorm.DB
	RDB     *redis.Client
	Repo    *db.Repo
	Engine  *rental.Engine
	Mailer  *notify.Mailer
	Uploads *uploads.Store
	Config  config.Config

	appSess   *session.AppSessionStore
	cartStore *cart.Store
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }
func (a *App) Carts() *cart.Store                    { return a.cartStore }

func MustNew() *App {
	cfg := config.Load()
	logger := logging.Init("rent-a-camera", cfg.LogFile)

	dbConn := db.ConnectDB()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	files, err := uploads.NewStore(cfg.UploadDir, cfg.MaxUploadSize)
	if err != nil {
		log.Fatalf("uploads: %v", err)
	}

	mailer := notify.NewMailer(notify.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.MailFrom,
	}, logging.New("mailer"))

	engine := rental.NewEngine(db.NewLifecycleStore(dbConn), mailer, logging.New("lifecycle"))

	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadSize
	useCORS(r, cfg.WebOrigin)

	logger.Info("dependencies ready", "redis", cfg.RedisAddr, "uploads", cfg.UploadDir)

	return &App{
		Router:    r,
		DB:        dbConn,
		RDB:       rdb,
		Repo:      db.NewRepo(dbConn),
		Engine:    engine,
		Mailer:    mailer,
		Uploads:   files,
		Config:    cfg,
		appSess:   session.NewAppSessionStore(rdb, cfg.SessionTTL),
		cartStore: cart.NewStore(rdb, cfg.CartTTL),
	}
}

func (a *App) Close() { _ = a.RDB.Close() }
