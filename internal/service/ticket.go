package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	chelper "lottx-server/common/helper"
	"lottx-server/common/logger"
	infrds "lottx-server/internal/infra/redis"
	"lottx-server/internal/lottery"
	"lottx-server/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 处理购票业务逻辑

const (
	// Redis 进行中锁 TTL：吸收并发重复请求；应小于客户端重试间隔上限
	idemLockTTL = 45 * time.Second
	// 结果缓存 TTL：覆盖大多数短时重试窗口
	idemResultTTL = 1 * time.Minute
)

var (
	ErrDuplicateInFlight = errors.New("duplicate request in flight")
)

// BuyInput 输入参数
// 所有字段均为必填；Numbers 的形状校验在引擎内完成。
type BuyInput struct {
	Buyer   lottery.Account
	RoundID uint64
	Count   int
	Numbers [][]uint8
	/*
		幂等键：同一次购票的所有重试传相同的 key。
		服务端保证：进行中锁吸收并发重复，结果缓存让历史重复
		直接返回首次的票号列表，不重复扣款。
	*/
	IdempotencyKey string
	TraceID        string
}

type BuyOutput struct {
	TicketIDs []uint64 `json:"ticket_ids"`
	Cost      int64    `json:"cost"`
	CostDisp  string   `json:"cost_display"` // 展示用金额（两位小数）
}

type TicketService interface {
	BuyTickets(ctx context.Context, in BuyInput) (*BuyOutput, error)
	ListUserTickets(ctx context.Context, roundID uint64, owner lottery.Account) ([]lottery.Ticket, error)
	Quote(ctx context.Context, roundID uint64, count int) (int64, error)
}

type ticketService struct{}

func NewTicketService() TicketService { return &ticketService{} }

// BuyTickets 处理批量购票主流程：
// Redis 快路径 -> 进行中锁 -> 引擎购票 -> Outbox 事件 -> 结果缓存
func (s *ticketService) BuyTickets(ctx context.Context, in BuyInput) (*BuyOutput, error) {
	start := time.Now()
	result := "fail"
	minted := 0
	defer func() { metrics.RecordBuy(result, minted, start) }()

	logger.Info("buy: request received",
		zap.Uint64("round_id", in.RoundID),
		zap.String("buyer", string(in.Buyer)),
		zap.Int("count", in.Count),
		zap.String("idem_key", in.IdempotencyKey),
		zap.String("trace_id", in.TraceID))

	// Redis 快路径：若已有结果缓存，直接返回
	if r := infrds.Client(); r != nil {
		if bs, _ := r.Get(ctx, infrds.IdemResultKey(in.IdempotencyKey)).Bytes(); len(bs) > 0 {
			var out BuyOutput
			if json.Unmarshal(bs, &out) == nil {
				logger.Info("buy: idempotent result cache hit",
					zap.String("idem_key", in.IdempotencyKey),
					zap.String("trace_id", in.TraceID))
				result = "success"
				return &out, nil
			}
		}

		// 生成唯一锁值，防止误删其他请求的锁
		lockValue := uuid.New().String()
		lockKey := infrds.IdemLockKey(in.IdempotencyKey)

		// 进行中锁，吸收瞬时重复
		ok, _ := r.SetNX(ctx, lockKey, lockValue, idemLockTTL).Result()
		if !ok {
			// 再查一次结果缓存：锁竞争输了但首请求可能已完成
			if bs, _ := r.Get(ctx, infrds.IdemResultKey(in.IdempotencyKey)).Bytes(); len(bs) > 0 {
				var out BuyOutput
				if json.Unmarshal(bs, &out) == nil {
					logger.Info("buy: duplicate absorbed by result cache",
						zap.String("idem_key", in.IdempotencyKey),
						zap.String("trace_id", in.TraceID))
					result = "success"
					return &out, nil
				}
			}
			logger.Warn("buy: duplicate request in flight",
				zap.String("idem_key", in.IdempotencyKey),
				zap.String("trace_id", in.TraceID))
			return nil, ErrDuplicateInFlight
		}

		// Lua 脚本原子释放锁（仅当锁值匹配时删除）
		defer func() {
			script := `
				if redis.call("get", KEYS[1]) == ARGV[1] then
					return redis.call("del", KEYS[1])
				else
					return 0
				end
			`
			res, err := r.Eval(ctx, script, []string{lockKey}, lockValue).Result()
			if err != nil {
				logger.Error("buy: release idempotency lock failed",
					zap.String("idem_key", in.IdempotencyKey),
					zap.Error(err),
					zap.String("trace_id", in.TraceID))
			} else if res == int64(0) {
				logger.Warn("buy: idempotency lock expired or taken over",
					zap.String("idem_key", in.IdempotencyKey),
					zap.String("trace_id", in.TraceID))
			}
		}()
	}

	ids, cost, err := eng.Buy(ctx, in.Buyer, in.RoundID, in.Count, in.Numbers)
	if err != nil {
		logger.Warn("buy: rejected",
			zap.Uint64("round_id", in.RoundID),
			zap.String("buyer", string(in.Buyer)),
			zap.Error(err),
			zap.String("trace_id", in.TraceID))
		return nil, err
	}

	result = "success"
	minted = len(ids)
	out := &BuyOutput{TicketIDs: ids, Cost: cost, CostDisp: chelper.FormatUnits(cost)}

	enqueueEvent("tickets_sold", in.IdempotencyKey, map[string]any{
		"event":      "tickets_sold",
		"round_id":   in.RoundID,
		"buyer":      in.Buyer,
		"ticket_ids": ids,
		"cost":       cost,
		"trace_id":   in.TraceID,
	})

	// 写入 Redis 结果缓存（降级容错）
	if r := infrds.Client(); r != nil {
		if b, e := json.Marshal(out); e == nil {
			_ = r.Set(ctx, infrds.IdemResultKey(in.IdempotencyKey), b, idemResultTTL).Err()
		}
	}

	logger.Info("buy: success",
		zap.Uint64("round_id", in.RoundID),
		zap.String("buyer", string(in.Buyer)),
		zap.Int("minted", minted),
		zap.Int64("cost", cost),
		zap.String("trace_id", in.TraceID))
	return out, nil
}

// ListUserTickets 枚举用户在某轮次持有的彩票
func (s *ticketService) ListUserTickets(ctx context.Context, roundID uint64, owner lottery.Account) ([]lottery.Ticket, error) {
	if _, err := eng.Round(roundID); err != nil {
		return nil, err
	}
	ids := eng.TicketsOf(roundID, owner)
	out := make([]lottery.Ticket, 0, len(ids))
	for _, id := range ids {
		t, err := eng.Ticket(id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Quote 批量购票报价，不校验窗口
func (s *ticketService) Quote(ctx context.Context, roundID uint64, count int) (int64, error) {
	return eng.Quote(roundID, count)
}
