package lottery

import "context"

// Account 参与方标识（买家/管理员/奖池账户），由外部认证层解析注入
type Account string

// BasisPointTotal 派彩分布表基点总和（万分比）
const BasisPointTotal = 10000

// Round 一期彩票
// 时间字段统一为毫秒时间戳；WinningNumber 在开奖前为 nil。
// DigitCount 在创建时快照，后续全局配置变更不影响已创建轮次。
type Round struct {
	ID               uint64   `json:"id"`
	DigitCount       int      `json:"digit_count"`
	Distribution     []uint64 `json:"distribution"` // 按档位的基点表，长度 == DigitCount
	PrizePool        int64    `json:"prize_pool"`
	TicketCost       int64    `json:"ticket_cost"`
	StartTime        int64    `json:"start_time"`
	EndTime          int64    `json:"end_time"`
	WinningNumber    []uint8  `json:"winning_number,omitempty"`
	State            string   `json:"state"`
	PendingRequestID uint64   `json:"-"` // Drawing 期间挂起的随机数请求
}

// Ticket 一张彩票
// ID 全局递增（跨轮次），Claimed 只会由 false 变为 true 一次。
type Ticket struct {
	ID      uint64  `json:"id"`
	RoundID uint64  `json:"round_id"`
	Owner   Account `json:"owner"`
	Numbers []uint8 `json:"numbers"`
	Claimed bool    `json:"claimed"`
}

// TokenLedger 代币账本（外部协作方）
// 金额为代币最小单位（int64）。Transfer 从奖池账户付出；
// TransferFrom 语义与 ERC20 一致：余额或授权不足时失败。
type TokenLedger interface {
	Transfer(ctx context.Context, to Account, amount int64) error
	TransferFrom(ctx context.Context, from, to Account, amount int64) error
	BalanceOf(ctx context.Context, account Account) (int64, error)
	Mint(ctx context.Context, to Account, amount int64) error
}

// TicketRegistry 彩票登记处（外部协作方）
// 负责彩票身份/归属与按用户枚举；Claimed 标记只能通过 MarkClaimed 置位。
type TicketRegistry interface {
	Mint(roundID uint64, owner Account, numbers []uint8) (uint64, error)
	Get(ticketID uint64) (Ticket, error)
	TicketsOf(roundID uint64, owner Account) []uint64
	Transfer(ticketID uint64, from, to Account) error
	MarkClaimed(ticketID uint64) error
}

// RandomnessOracle 随机数预言机（外部协作方）
// Request 发起异步请求并返回 requestId；结果以回调形式经
// Engine.FulfillDraw 送达，二者仅靠 requestId 关联。
type RandomnessOracle interface {
	Request(ctx context.Context, roundID uint64) (uint64, error)
}
