package service

import (
	"context"
	"strconv"
	"time"

	"lottx-server/common/logger"
	infrds "lottx-server/internal/infra/redis"
	"lottx-server/internal/lottery"
	"lottx-server/internal/metrics"

	"go.uber.org/zap"
)

// 开奖业务逻辑
// 申请与回调是两个独立入口，中间隔着预言机的异步往返。

type DrawService interface {
	RequestDraw(ctx context.Context, caller lottery.Account, roundID uint64, traceID string) (uint64, error)
	Fulfill(ctx context.Context, requestID, rawRandom uint64, traceID string) (*lottery.Round, error)
}

type drawService struct{}

func NewDrawService() DrawService { return &drawService{} }

// RequestDraw 申请开奖：引擎校验通过后预言机请求已在途
func (s *drawService) RequestDraw(ctx context.Context, caller lottery.Account, roundID uint64, traceID string) (uint64, error) {
	start := time.Now()
	result := "fail"
	defer func() { metrics.RecordDraw(result, "request", start) }()

	reqID, err := eng.RequestDraw(ctx, caller, roundID)
	if err != nil {
		logger.Warn("draw: request rejected",
			zap.Uint64("round_id", roundID),
			zap.Error(err),
			zap.String("trace_id", traceID))
		return 0, err
	}

	result = "success"
	logger.Info("draw: randomness requested",
		zap.Uint64("round_id", roundID),
		zap.Uint64("request_id", reqID),
		zap.String("trace_id", traceID))

	enqueueEvent("draw_requested", strconv.FormatUint(roundID, 10), map[string]any{
		"event":      "draw_requested",
		"round_id":   roundID,
		"request_id": reqID,
		"trace_id":   traceID,
	})

	// 状态已迁移，失效掉旧的轮次信息缓存
	if r := infrds.Client(); r != nil {
		_ = r.Del(ctx, infrds.RoundInfoKey(strconv.FormatUint(roundID, 10))).Err()
	}
	return reqID, nil
}

// Fulfill 消费预言机回调：落定中奖号码并发布结果
// 未知或已消费的 requestId 由引擎拒绝，保证结果恰好生效一次。
func (s *drawService) Fulfill(ctx context.Context, requestID, rawRandom uint64, traceID string) (*lottery.Round, error) {
	start := time.Now()
	result := "fail"
	defer func() { metrics.RecordDraw(result, "fulfill", start) }()

	round, err := eng.FulfillDraw(requestID, rawRandom)
	if err != nil {
		logger.Warn("draw: fulfill rejected",
			zap.Uint64("request_id", requestID),
			zap.Error(err),
			zap.String("trace_id", traceID))
		return nil, err
	}

	result = "success"
	view := &RoundView{Round: round}
	if orc != nil {
		view.Proof = orc.ProofHash(requestID, round.ID)
	}
	cacheRoundResult(ctx, view)

	// 结果已落定，清掉短时信息缓存避免读到旧状态
	if r := infrds.Client(); r != nil {
		_ = r.Del(ctx, infrds.RoundInfoKey(strconv.FormatUint(round.ID, 10))).Err()
	}

	logger.Info("draw: round drawn",
		zap.Uint64("round_id", round.ID),
		zap.Uint64("request_id", requestID),
		zap.Uint64("raw_random", rawRandom),
		zap.Uint8s("winning_number", round.WinningNumber),
		zap.String("trace_id", traceID))

	enqueueEvent("round_drawn", strconv.FormatUint(round.ID, 10), map[string]any{
		"event":          "round_drawn",
		"round_id":       round.ID,
		"request_id":     requestID,
		"raw_random":     rawRandom,
		"winning_number": round.WinningNumber,
		"proof":          view.Proof,
		"trace_id":       traceID,
	})
	return &round, nil
}
