package main

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"lottx-server/common"
	"lottx-server/common/logger"
	"lottx-server/internal/clock"
	"lottx-server/internal/config"
	infmysql "lottx-server/internal/infra/mysql"
	infrds "lottx-server/internal/infra/redis"
	"lottx-server/internal/infra/rocketmq"
	"lottx-server/internal/lottery"
	"lottx-server/internal/oracle"
	"lottx-server/internal/outbox"
	"lottx-server/internal/registry"
	"lottx-server/internal/service"
	"lottx-server/internal/token"
	"lottx-server/internal/worker"
	"lottx-server/routers"

	beego "github.com/beego/beego/v2/server/web"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	logger.InitLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatalf("load config failed", zap.Error(err))
	}
	config.Set(cfg)
	if cfg.Server.LogLevel != "" {
		logger.SetLevel(cfg.Server.LogLevel)
	}

	// 代币账本：默认走内存账本；配置了 MySQL 账本时购票扣款/派彩走数据库
	var ledger lottery.TokenLedger
	poolAccount := lottery.Account(cfg.Lottery.PoolAccount)
	if poolAccount == "" {
		poolAccount = "pool"
	}
	if cfg.Lottery.UseMySQLLedger && cfg.Database.DSN != "" {
		db := common.InitDB(cfg.Database.DSN, cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns)
		infmysql.UseDB(db.DB)
		store := token.NewMySQL(db, poolAccount)
		service.UseLedger(store)
		ledger = store
		logger.Info("token ledger: mysql")
	} else {
		ledger = token.NewMemory(poolAccount)
		logger.Info("token ledger: in-memory")
	}

	infrds.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	admin := lottery.Account(cfg.Lottery.AdminAccount)
	if admin == "" {
		admin = "admin"
	}
	params := lottery.Params{
		DigitCount:         cfg.Lottery.DigitCount,
		DigitRange:         cfg.Lottery.DigitRange,
		MaxTicketsPerBatch: cfg.Lottery.MaxTicketsPerBatch,
	}
	if params.DigitCount <= 0 {
		params.DigitCount = 4
	}
	if params.DigitRange <= 0 {
		params.DigitRange = 10
	}
	if params.MaxTicketsPerBatch <= 0 {
		params.MaxTicketsPerBatch = 100
	}

	seed := cfg.Lottery.Oracle.ServerSeed
	if seed == "" {
		seed = "dev-only-seed"
		logger.Warn("oracle server seed not configured, using dev seed")
	}
	orc := oracle.NewPseudo(seed, cfg.Lottery.Oracle.DelayMinMs, cfg.Lottery.Oracle.DelayMaxMs)

	eng := lottery.New(admin, poolAccount, params, clock.System{}, ledger, registry.NewMemory(), orc)
	box := outbox.NewMemory()
	service.Use(eng, box, orc)

	routers.Register()

	var wg sync.WaitGroup
	worker.StartOutboxDispatcher(ctx, &wg, box)
	worker.StartOracleDispatcher(ctx, &wg, orc, service.NewDrawService())

	port := cfg.Server.Port
	if port <= 0 {
		port = 8080
	}
	logger.Info("server starting",
		zap.Int("port", port),
		zap.Int("digit_count", params.DigitCount),
		zap.Int("digit_range", params.DigitRange),
		zap.Int("max_batch", params.MaxTicketsPerBatch))

	beego.BConfig.CopyRequestBody = true
	go beego.Run(fmt.Sprintf(":%d", port))

	<-ctx.Done()
	logger.Info("shutdown signal received")
	wg.Wait()
	rocketmq.Shutdown()
	logger.Info("server stopped")
}
