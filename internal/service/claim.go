package service

import (
	"context"
	"strconv"
	"time"

	chelper "lottx-server/common/helper"
	"lottx-server/common/logger"
	"lottx-server/internal/lottery"
	"lottx-server/internal/metrics"

	"go.uber.org/zap"
)

// 领奖业务逻辑

type ClaimInput struct {
	Caller   lottery.Account
	RoundID  uint64
	TicketID uint64
	TraceID  string
}

type ClaimOutput struct {
	TicketID   uint64 `json:"ticket_id"`
	Bracket    int    `json:"bracket"`
	Payout     int64  `json:"payout"`
	PayoutDisp string `json:"payout_display"` // 展示用金额（两位小数）
}

type ClaimService interface {
	Claim(ctx context.Context, in ClaimInput) (*ClaimOutput, error)
}

type claimService struct{}

func NewClaimService() ClaimService { return &claimService{} }

// Claim 凭票领奖主流程
// 校验与派彩全部在引擎内原子完成，这里补充档位回读、事件与指标。
func (s *claimService) Claim(ctx context.Context, in ClaimInput) (*ClaimOutput, error) {
	start := time.Now()
	result := "fail"
	bracket := -1
	var payout int64
	defer func() { metrics.RecordClaim(result, bracket, payout, start) }()

	payout, err := eng.Claim(ctx, in.Caller, in.RoundID, in.TicketID)
	if err != nil {
		logger.Warn("claim: rejected",
			zap.Uint64("round_id", in.RoundID),
			zap.Uint64("ticket_id", in.TicketID),
			zap.String("caller", string(in.Caller)),
			zap.Error(err),
			zap.String("trace_id", in.TraceID))
		return nil, err
	}

	// 档位回读仅用于展示与指标，不参与派彩计算
	if t, err := eng.Ticket(in.TicketID); err == nil {
		if r, err := eng.Round(in.RoundID); err == nil && r.WinningNumber != nil {
			bracket = lottery.MatchBracket(t.Numbers, r.WinningNumber)
		}
	}

	result = "success"
	out := &ClaimOutput{
		TicketID:   in.TicketID,
		Bracket:    bracket,
		Payout:     payout,
		PayoutDisp: chelper.FormatUnits(payout),
	}

	logger.Info("claim: success",
		zap.Uint64("round_id", in.RoundID),
		zap.Uint64("ticket_id", in.TicketID),
		zap.String("caller", string(in.Caller)),
		zap.Int("bracket", bracket),
		zap.Int64("payout", payout),
		zap.String("trace_id", in.TraceID))

	enqueueEvent("reward_claimed", strconv.FormatUint(in.TicketID, 10), map[string]any{
		"event":     "reward_claimed",
		"round_id":  in.RoundID,
		"ticket_id": in.TicketID,
		"owner":     in.Caller,
		"bracket":   bracket,
		"payout":    payout,
		"trace_id":  in.TraceID,
	})
	return out, nil
}
