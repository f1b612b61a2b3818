package lottery

import (
	"context"

	"lottx-server/internal/state"
)

// RequestDraw 申请开奖（仅管理员）
// 轮次须已过 EndTime 且处于 open 状态；先向预言机发起请求，
// 请求成功后才迁移状态并登记 requestId -> roundId 的关联。
func (e *Engine) RequestDraw(ctx context.Context, caller Account, roundID uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.admin {
		return 0, ErrUnauthorized
	}
	r, err := e.roundByID(roundID)
	if err != nil {
		return 0, err
	}
	switch r.State {
	case state.StateDrawing:
		return 0, ErrDrawAlreadyRequested
	case state.StateDrawn:
		return 0, ErrDrawAlreadyCompleted
	}
	if e.now() < r.EndTime {
		return 0, ErrDrawTooEarly
	}

	reqID, err := e.oracle.Request(ctx, roundID)
	if err != nil {
		return 0, err
	}
	next, err := state.NextState(r.State, state.EvtRequestDraw)
	if err != nil {
		return 0, err
	}
	r.State = next
	r.PendingRequestID = reqID
	e.pending[reqID] = roundID
	return reqID, nil
}

// FulfillDraw 预言机回调入口
// 按 requestId 找到挂起轮次，展开随机数为中奖号码并落定 drawn 状态。
// 未知/已消费的 requestId 一律拒绝，保证回调恰好生效一次。
func (e *Engine) FulfillDraw(requestID, rawRandom uint64) (Round, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	roundID, ok := e.pending[requestID]
	if !ok {
		return Round{}, ErrUnknownRequest
	}
	r, err := e.roundByID(roundID)
	if err != nil {
		return Round{}, err
	}
	next, err := state.NextState(r.State, state.EvtFulfillDraw)
	if err != nil {
		return Round{}, err
	}

	r.WinningNumber = expandDigits(rawRandom, r.DigitCount, e.params.DigitRange)
	r.State = next
	r.PendingRequestID = 0
	delete(e.pending, requestID)
	return copyRound(r), nil
}

// expandDigits 将单个随机数展开为 count 位中奖号码
// digit[i] = rawRandom / range^i % range，低位在前。
func expandDigits(rawRandom uint64, count, digitRange int) []uint8 {
	out := make([]uint8, count)
	divisor := uint64(1)
	for i := 0; i < count; i++ {
		out[i] = uint8(rawRandom / divisor % uint64(digitRange))
		divisor *= uint64(digitRange)
	}
	return out
}
