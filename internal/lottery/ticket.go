package lottery

import (
	"context"
	"fmt"

	"lottx-server/internal/state"
)

// Quote 计算批量购票总价（不校验窗口，纯报价）
func (e *Engine) Quote(roundID uint64, count int) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.roundByID(roundID)
	if err != nil {
		return 0, err
	}
	return r.TicketCost * int64(count), nil
}

// Buy 批量购票
// 校验顺序：轮次存在 -> 状态/时间窗口 -> 批量参数 -> 号码形状，
// 全部通过后才经 TokenLedger 扣款、经 TicketRegistry 铸票。
// 扣款失败时不产生任何状态变更；购票不改变奖池（奖池在建轮时注资）。
func (e *Engine) Buy(ctx context.Context, buyer Account, roundID uint64, count int, numbers [][]uint8) ([]uint64, int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.roundByID(roundID)
	if err != nil {
		return nil, 0, err
	}
	now := e.now()
	if r.State != state.StateOpen || now < r.StartTime || now >= r.EndTime {
		return nil, 0, ErrRoundNotOpen
	}
	if count <= 0 || count > e.params.MaxTicketsPerBatch || len(numbers) != count {
		return nil, 0, ErrInvalidTicketCount
	}
	for _, seq := range numbers {
		if len(seq) != r.DigitCount {
			return nil, 0, ErrInvalidNumberShape
		}
		for _, d := range seq {
			if int(d) >= e.params.DigitRange {
				return nil, 0, ErrInvalidNumberShape
			}
		}
	}

	cost := r.TicketCost * int64(count)
	if err := e.tokens.TransferFrom(ctx, buyer, e.account, cost); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
	}

	ids := make([]uint64, 0, count)
	for _, seq := range numbers {
		id, err := e.registry.Mint(roundID, buyer, seq)
		if err != nil {
			// 铸票是本地 arena 追加，只应因编程错误失败
			return nil, 0, err
		}
		ids = append(ids, id)
	}
	return ids, cost, nil
}

// TicketsOf 枚举某用户在某轮次持有的彩票（委托给登记处）
func (e *Engine) TicketsOf(roundID uint64, owner Account) []uint64 {
	return e.registry.TicketsOf(roundID, owner)
}

// Ticket 查询单张彩票
func (e *Engine) Ticket(ticketID uint64) (Ticket, error) {
	return e.registry.Get(ticketID)
}
