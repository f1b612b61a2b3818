package lottery

import "lottx-server/internal/state"

// CreateRound 创建一期彩票（仅管理员）
// 校验顺序：身份 -> 分布表长度 -> 分布表总和 -> 金额 -> 时间窗口。
// 成功后分配下一个自增 id，轮次进入 open 状态并快照当前 DigitCount。
func (e *Engine) CreateRound(caller Account, distribution []uint64, prizePool, ticketCost, startTime, endTime int64) (Round, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.admin {
		return Round{}, ErrUnauthorized
	}
	if len(distribution) != e.params.DigitCount {
		return Round{}, ErrInvalidDistributionLength
	}
	var total uint64
	for _, bp := range distribution {
		if bp > BasisPointTotal {
			return Round{}, ErrInvalidDistributionTotal
		}
		total += bp
	}
	if total != BasisPointTotal {
		return Round{}, ErrInvalidDistributionTotal
	}
	if prizePool <= 0 || ticketCost <= 0 {
		return Round{}, ErrInvalidPriceOrCost
	}
	if endTime <= startTime || startTime < e.now() {
		return Round{}, ErrInvalidTimestamp
	}

	r := &Round{
		ID:           uint64(len(e.rounds) + 1),
		DigitCount:   e.params.DigitCount,
		Distribution: append([]uint64(nil), distribution...),
		PrizePool:    prizePool,
		TicketCost:   ticketCost,
		StartTime:    startTime,
		EndTime:      endTime,
		State:        state.StateOpen,
	}
	e.rounds = append(e.rounds, r)
	return copyRound(r), nil
}

// Round 返回轮次只读副本
func (e *Engine) Round(roundID uint64) (Round, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.roundByID(roundID)
	if err != nil {
		return Round{}, err
	}
	return copyRound(r), nil
}

// Rounds 当前轮次总数（最后一个已分配的 id）
func (e *Engine) Rounds() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return uint64(len(e.rounds))
}
