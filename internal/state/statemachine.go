package state

import "fmt"

// State 轮次状态
const (
	StateOpen    = "open"    // 售票中(createRound之后)
	StateDrawing = "drawing" // 已请求随机数，等待预言机回调
	StateDrawn   = "drawn"   // 已开奖(中奖号码已落定)
)

// Event 轮次事件
const (
	EvtRequestDraw = "request_draw"
	EvtFulfillDraw = "fulfill_draw"
)

// NextState 根据当前状态与事件计算下一个状态，非法转换报错
func NextState(cur, evt string) (string, error) {
	switch cur {
	case StateOpen:
		if evt == EvtRequestDraw {
			return StateDrawing, nil
		}
	case StateDrawing:
		if evt == EvtFulfillDraw {
			return StateDrawn, nil
		}
	}
	return cur, fmt.Errorf("invalid transition: %s --%s--> ?", cur, evt)
}
