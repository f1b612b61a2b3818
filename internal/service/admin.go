package service

import (
	"context"
	"fmt"

	"lottx-server/common/logger"
	"lottx-server/internal/lottery"
	"lottx-server/internal/token"

	"go.uber.org/zap"
)

// 管理员业务逻辑：全局参数维护与奖池注资

type AdminService interface {
	UpdateConfig(ctx context.Context, caller lottery.Account, field string, value int, traceID string) (lottery.Params, error)
	TopUpPool(ctx context.Context, caller lottery.Account, amount int64, traceID string) (int64, error)
	PoolBalance(ctx context.Context) (int64, error)
	PoolLedger(ctx context.Context) ([]token.LedgerRecord, int64, error)
}

type adminService struct{}

func NewAdminService() AdminService { return &adminService{} }

// UpdateConfig 按字段名分发到引擎的参数更新
// 变更只影响之后创建的轮次，不回溯历史快照。
func (s *adminService) UpdateConfig(ctx context.Context, caller lottery.Account, field string, value int, traceID string) (lottery.Params, error) {
	var err error
	switch field {
	case "digit_count":
		err = eng.UpdateDigitCount(caller, value)
	case "digit_range":
		err = eng.UpdateDigitRange(caller, value)
	case "max_batch":
		err = eng.UpdateMaxBatch(caller, value)
	default:
		return lottery.Params{}, fmt.Errorf("unknown config field: %s", field)
	}
	if err != nil {
		logger.Warn("admin: config update rejected",
			zap.String("field", field),
			zap.Int("value", value),
			zap.Error(err),
			zap.String("trace_id", traceID))
		return lottery.Params{}, err
	}

	params := eng.Params()
	logger.Info("admin: config updated",
		zap.String("field", field),
		zap.Int("value", value),
		zap.Int("digit_count", params.DigitCount),
		zap.Int("digit_range", params.DigitRange),
		zap.Int("max_batch", params.MaxTicketsPerBatch),
		zap.String("trace_id", traceID))

	enqueueEvent("config_updated", field, map[string]any{
		"event":    "config_updated",
		"field":    field,
		"value":    value,
		"trace_id": traceID,
	})
	return params, nil
}

// TopUpPool 向奖池账户注资，返回注资后的余额
func (s *adminService) TopUpPool(ctx context.Context, caller lottery.Account, amount int64, traceID string) (int64, error) {
	if err := eng.FundPool(ctx, caller, amount); err != nil {
		logger.Warn("admin: pool top-up rejected",
			zap.Int64("amount", amount),
			zap.Error(err),
			zap.String("trace_id", traceID))
		return 0, err
	}

	balance, err := eng.PoolBalance(ctx)
	if err != nil {
		return 0, err
	}

	logger.Info("admin: pool topped up",
		zap.Int64("amount", amount),
		zap.Int64("balance", balance),
		zap.String("trace_id", traceID))

	enqueueEvent("pool_topped_up", string(eng.Account()), map[string]any{
		"event":    "pool_topped_up",
		"amount":   amount,
		"balance":  balance,
		"trace_id": traceID,
	})
	return balance, nil
}

// PoolBalance 奖池账户当前余额
func (s *adminService) PoolBalance(ctx context.Context) (int64, error) {
	return eng.PoolBalance(ctx)
}

// PoolLedger 奖池账户的账本流水（仅 MySQL 账本模式提供）
func (s *adminService) PoolLedger(ctx context.Context) ([]token.LedgerRecord, int64, error) {
	if ledgerStore == nil {
		return nil, 0, nil
	}
	entries, err := ledgerStore.Entries(ctx, eng.Account())
	if err != nil {
		return nil, 0, err
	}
	count, err := ledgerStore.EntryCount(ctx, eng.Account())
	if err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}
