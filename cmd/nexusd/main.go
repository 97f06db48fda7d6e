package main

import (
	"crypto/sha256"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nexushq/nexus-core/internal/api"
	"github.com/nexushq/nexus-core/internal/assistant"
	"github.com/nexushq/nexus-core/internal/audit"
	"github.com/nexushq/nexus-core/internal/config"
	"github.com/nexushq/nexus-core/internal/directory"
	"github.com/nexushq/nexus-core/internal/kvstore"
	"github.com/nexushq/nexus-core/internal/sched"
	"github.com/nexushq/nexus-core/internal/session"
	"github.com/nexushq/nexus-core/internal/vault"
	"github.com/nexushq/nexus-core/internal/workspace"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	store, err := kvstore.OpenBolt(cfg.DataPath)
	if err != nil {
		logger.Fatal("open store", zap.String("path", cfg.DataPath), zap.Error(err))
	}
	defer store.Close()

	clock := clockwork.NewRealClock()
	tasks := sched.New(clock)
	defer tasks.Stop()

	sessions := session.NewManager(store)
	users := directory.New(store, sessions)
	auditLog := audit.New(store, clock)
	ws := workspace.New(store, clock, logger, auditLog)

	// Session bootstrap: hydrate the workspace when a session pointer exists,
	// otherwise start unauthenticated.
	if current, ok, err := sessions.Current(); err != nil {
		logger.Fatal("session bootstrap", zap.Error(err))
	} else if ok {
		if err := ws.Load(); err != nil {
			logger.Fatal("workspace load", zap.Error(err))
		}
		logger.Info("session restored", zap.String("user", current.ID))
	}

	// Vault key is derived so any configured string yields a valid AES-256 key.
	masterKey := sha256.Sum256([]byte(cfg.MasterKey))
	keyring, err := vault.NewKeyring(store, masterKey[:])
	if err != nil {
		logger.Fatal("keyring", zap.Error(err))
	}

	gen := assistant.NewClient(cfg.AIBaseURL, cfg.AIModel, keyring)
	bot := assistant.NewBot(ws, tasks, clock, logger)

	// Stand-in for the desktop notification/audio collaborator: consume
	// message-append events without ever blocking persistence.
	go func() {
		for e := range ws.Events().Subscribe(64) {
			if e.Notify {
				logger.Info("notify",
					zap.String("channel", "#"+e.ChannelName),
					zap.String("sender", e.Message.SenderID))
			}
		}
	}()

	h := &api.Handler{
		Directory: users,
		Sessions:  sessions,
		Workspace: ws,
		Audit:     auditLog,
		Assistant: assistant.NewService(gen),
		Bot:       bot,
		Keyring:   keyring,
		Store:     store,
		Log:       logger,
	}
	router := api.Router(h)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		logger.Info("shutdown signal received")
		tasks.Stop()
		store.Close()
		os.Exit(0)
	}()

	logger.Info("nexusd listening", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	if cfg.LogDev {
		c := zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(lvl)
		return c.Build()
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(os.Stdout), lvl)
	return zap.New(core, zap.AddCaller()), nil
}
