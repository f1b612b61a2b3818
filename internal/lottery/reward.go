package lottery

import (
	"context"
	"fmt"

	"lottx-server/internal/state"
)

// MatchBracket 计算彩票号码命中的档位
// 从最后一位向前逐位比对，返回连续相等的后缀长度 k（0..len）。
func MatchBracket(numbers, winning []uint8) int {
	k := 0
	for i := len(numbers) - 1; i >= 0; i-- {
		if numbers[i] != winning[i] {
			break
		}
		k++
	}
	return k
}

// Claim 凭票领奖
// 校验顺序：轮次存在 -> 彩票存在 -> 轮次归属 -> 持有人 -> 已开奖
// -> 领奖窗口 -> 未领过 -> 号码合法。派彩 = 奖池 * 档位基点 / 10000
// 向下取整；零命中同样把票标记为已领，杜绝重复尝试。
// 整个流程持有引擎锁，转账与标记要么都发生要么都不发生。
func (e *Engine) Claim(ctx context.Context, caller Account, roundID, ticketID uint64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.roundByID(roundID)
	if err != nil {
		return 0, err
	}
	t, err := e.registry.Get(ticketID)
	if err != nil {
		return 0, err
	}
	if t.RoundID != roundID {
		return 0, ErrWrongRound
	}
	if t.Owner != caller {
		return 0, ErrNotTicketOwner
	}
	if r.State != state.StateDrawn {
		return 0, ErrDrawNotCompleted
	}
	if e.now() < r.EndTime {
		return 0, ErrClaimWindowNotOpen
	}
	if t.Claimed {
		return 0, ErrAlreadyClaimed
	}
	for _, d := range t.Numbers {
		if int(d) >= e.params.DigitRange {
			return 0, ErrNumbersOutOfRange
		}
	}

	bracket := MatchBracket(t.Numbers, r.WinningNumber)
	var payout int64
	if bracket > 0 {
		payout = r.PrizePool * int64(r.Distribution[bracket-1]) / BasisPointTotal
	}
	if payout > 0 {
		if err := e.tokens.Transfer(ctx, caller, payout); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
		}
	}
	if err := e.registry.MarkClaimed(ticketID); err != nil {
		return 0, err
	}
	return payout, nil
}
