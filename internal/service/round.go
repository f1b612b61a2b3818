package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"lottx-server/common/logger"
	infrds "lottx-server/internal/infra/redis"
	"lottx-server/internal/lottery"
	"lottx-server/internal/state"

	"go.uber.org/zap"
)

// 轮次业务逻辑

const (
	// 开奖前轮次信息缓存 TTL：状态随时间推进，只做短时缓存
	roundInfoTTL = 5 * time.Second
	// 开奖结果缓存 TTL：结果不可变，可以长缓存
	roundResultTTL = 24 * time.Hour
)

// RoundView 对外展示的轮次视图
// Proof 为随机数证明摘要，开奖后可复算校验。
type RoundView struct {
	lottery.Round
	Proof string `json:"proof,omitempty"`
}

type CreateRoundInput struct {
	Caller       lottery.Account
	Distribution []uint64
	PrizePool    int64
	TicketCost   int64
	StartTime    int64
	EndTime      int64
	TraceID      string
}

type RoundService interface {
	CreateRound(ctx context.Context, in CreateRoundInput) (*lottery.Round, error)
	GetRound(ctx context.Context, roundID uint64) (*RoundView, error)
}

type roundService struct{}

func NewRoundService() RoundService { return &roundService{} }

// CreateRound 创建一期彩票并广播事件
func (s *roundService) CreateRound(ctx context.Context, in CreateRoundInput) (*lottery.Round, error) {
	r, err := eng.CreateRound(in.Caller, in.Distribution, in.PrizePool, in.TicketCost, in.StartTime, in.EndTime)
	if err != nil {
		logger.Warn("round: create rejected",
			zap.Error(err),
			zap.String("trace_id", in.TraceID))
		return nil, err
	}

	logger.Info("round: created",
		zap.Uint64("round_id", r.ID),
		zap.Int("digit_count", r.DigitCount),
		zap.Int64("prize_pool", r.PrizePool),
		zap.Int64("ticket_cost", r.TicketCost),
		zap.Int64("start_time", r.StartTime),
		zap.Int64("end_time", r.EndTime),
		zap.String("trace_id", in.TraceID))

	enqueueEvent("round_created", strconv.FormatUint(r.ID, 10), map[string]any{
		"event":       "round_created",
		"round_id":    r.ID,
		"digit_count": r.DigitCount,
		"prize_pool":  r.PrizePool,
		"ticket_cost": r.TicketCost,
		"start_time":  r.StartTime,
		"end_time":    r.EndTime,
		"trace_id":    in.TraceID,
	})

	// 预热信息缓存，失败不影响主流程
	cacheRoundInfo(ctx, &r)
	return &r, nil
}

// GetRound 查询轮次：结果缓存 -> 信息缓存 -> 引擎回源并回填
func (s *roundService) GetRound(ctx context.Context, roundID uint64) (*RoundView, error) {
	key := strconv.FormatUint(roundID, 10)

	if r := infrds.Client(); r != nil {
		// 已开奖轮次优先走结果缓存（带证明摘要）
		if bs, _ := r.Get(ctx, infrds.RoundResultKey(key)).Bytes(); len(bs) > 0 {
			var view RoundView
			if json.Unmarshal(bs, &view) == nil {
				return &view, nil
			}
		}
		if bs, _ := r.Get(ctx, infrds.RoundInfoKey(key)).Bytes(); len(bs) > 0 {
			var view RoundView
			if json.Unmarshal(bs, &view) == nil && view.State != state.StateDrawn {
				return &view, nil
			}
		}
	}

	round, err := eng.Round(roundID)
	if err != nil {
		return nil, err
	}
	view := &RoundView{Round: round}
	if round.State == state.StateDrawn {
		cacheRoundResult(ctx, view)
	} else {
		cacheRoundInfo(ctx, &round)
	}
	return view, nil
}

// cacheRoundInfo 回填未开奖轮次的短时缓存
func cacheRoundInfo(ctx context.Context, round *lottery.Round) {
	r := infrds.Client()
	if r == nil {
		return
	}
	view := RoundView{Round: *round}
	if b, err := json.Marshal(view); err == nil {
		_ = r.Set(ctx, infrds.RoundInfoKey(strconv.FormatUint(round.ID, 10)), b, roundInfoTTL).Err()
	}
}

// cacheRoundResult 写入开奖结果缓存
func cacheRoundResult(ctx context.Context, view *RoundView) {
	r := infrds.Client()
	if r == nil {
		return
	}
	if b, err := json.Marshal(view); err == nil {
		_ = r.Set(ctx, infrds.RoundResultKey(strconv.FormatUint(view.ID, 10)), b, roundResultTTL).Err()
	}
}
