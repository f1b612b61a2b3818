package lottery

import (
	"sync"

	"lottx-server/internal/clock"
)

// Params 全局可变参数（管理员维护）
// 已创建轮次只快照 DigitCount；DigitRange 与批量上限实时生效。
type Params struct {
	DigitCount         int // 每张票/中奖号码的位数
	DigitRange         int // 每一位的取值上界（不含）
	MaxTicketsPerBatch int // 单次购票批量上限
}

// Engine 彩票核心状态机
// 单写者模型：所有变更操作整体持有 mu 串行执行，内部不并发、不挂起；
// 唯一的异步边界是 RequestDraw / FulfillDraw 之间的预言机往返。
// 轮次与彩票记录只增不删，轮次按 1 起始的自增 id 存放在 arena 里。
type Engine struct {
	mu sync.Mutex

	admin   Account // 管理员身份
	account Account // 奖池账户（购票款收款方、派彩付款方）
	params  Params

	clock    clock.Clock
	tokens   TokenLedger
	registry TicketRegistry
	oracle   RandomnessOracle

	rounds  []*Round          // rounds[i].ID == i+1
	pending map[uint64]uint64 // requestId -> roundId，回调消费后删除
}

// New 组装核心引擎；参数必须为正数
func New(admin, account Account, p Params, clk clock.Clock, tokens TokenLedger, registry TicketRegistry, oracle RandomnessOracle) *Engine {
	if p.DigitCount <= 0 || p.DigitRange <= 0 || p.MaxTicketsPerBatch <= 0 {
		panic("lottery: params must be positive")
	}
	return &Engine{
		admin:    admin,
		account:  account,
		params:   p,
		clock:    clk,
		tokens:   tokens,
		registry: registry,
		oracle:   oracle,
		pending:  make(map[uint64]uint64),
	}
}

// Params 返回当前全局参数快照
func (e *Engine) Params() Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// Account 返回奖池账户
func (e *Engine) Account() Account { return e.account }

// now 当前毫秒时间戳
func (e *Engine) now() int64 { return e.clock.Now().UnixMilli() }

// roundByID 按 id 查找轮次，调用方需持锁
func (e *Engine) roundByID(id uint64) (*Round, error) {
	if id == 0 || id > uint64(len(e.rounds)) {
		return nil, ErrRoundNotFound
	}
	return e.rounds[id-1], nil
}

// copyRound 返回轮次的只读副本，防止外部越过引擎改动内部状态
func copyRound(r *Round) Round {
	out := *r
	out.Distribution = append([]uint64(nil), r.Distribution...)
	if r.WinningNumber != nil {
		out.WinningNumber = append([]uint8(nil), r.WinningNumber...)
	}
	return out
}
