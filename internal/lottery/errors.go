package lottery

import "errors"

// 业务错误定义
// 所有失败都不产生部分状态变更；是否可重试由错误分类决定（见 Class）。
var (
	// 授权类
	ErrUnauthorized = errors.New("caller is not the lottery admin")

	// 校验类
	ErrNoOpUpdate                = errors.New("update must change the current value")
	ErrInvalidParamValue         = errors.New("config parameters must be positive")
	ErrInvalidDistributionLength = errors.New("distribution length does not match digit count")
	ErrInvalidDistributionTotal  = errors.New("distribution must sum to 10000 basis points")
	ErrInvalidPriceOrCost        = errors.New("prize pool and ticket cost must be positive")
	ErrInvalidTimestamp          = errors.New("invalid round timestamps")
	ErrInvalidTicketCount        = errors.New("invalid ticket count for batch")
	ErrInvalidNumberShape        = errors.New("chosen numbers have invalid length or digit range")
	ErrNumbersOutOfRange         = errors.New("stored ticket numbers exceed current digit range")

	// 状态类
	ErrRoundNotFound        = errors.New("round not found")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrRoundNotOpen         = errors.New("round is not open for ticket sales")
	ErrDrawTooEarly         = errors.New("draw requested before round end time")
	ErrDrawAlreadyRequested = errors.New("draw already requested for this round")
	ErrDrawAlreadyCompleted = errors.New("draw already completed for this round")
	ErrDrawNotCompleted     = errors.New("winning number not drawn yet")
	ErrClaimWindowNotOpen   = errors.New("claims open only after round end time")
	ErrAlreadyClaimed       = errors.New("ticket reward already claimed")
	ErrWrongRound           = errors.New("ticket belongs to a different round")
	ErrNotTicketOwner       = errors.New("caller does not own this ticket")

	// 资源类（由 TokenLedger 透传）
	ErrInsufficientFunds = errors.New("insufficient balance or approval")

	// 关联类（预言机回调对不上待处理请求，视为 bug 或重放）
	ErrUnknownRequest = errors.New("unknown randomness request")
)

// 错误分类，用于日志与指标打标，也决定调用方语义：
// validation/authorization 不应原样重试；state 需等待或已终态；
// resource 由调用方自行决定；correlation 记录告警。
const (
	ClassValidation    = "validation"
	ClassAuthorization = "authorization"
	ClassState         = "state"
	ClassResource      = "resource"
	ClassCorrelation   = "correlation"
	ClassInternal      = "internal"
)

// Class 返回错误的分类标签
func Class(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return ClassAuthorization
	case errors.Is(err, ErrNoOpUpdate),
		errors.Is(err, ErrInvalidParamValue),
		errors.Is(err, ErrInvalidDistributionLength),
		errors.Is(err, ErrInvalidDistributionTotal),
		errors.Is(err, ErrInvalidPriceOrCost),
		errors.Is(err, ErrInvalidTimestamp),
		errors.Is(err, ErrInvalidTicketCount),
		errors.Is(err, ErrInvalidNumberShape),
		errors.Is(err, ErrNumbersOutOfRange):
		return ClassValidation
	case errors.Is(err, ErrRoundNotFound),
		errors.Is(err, ErrTicketNotFound),
		errors.Is(err, ErrRoundNotOpen),
		errors.Is(err, ErrDrawTooEarly),
		errors.Is(err, ErrDrawAlreadyRequested),
		errors.Is(err, ErrDrawAlreadyCompleted),
		errors.Is(err, ErrDrawNotCompleted),
		errors.Is(err, ErrClaimWindowNotOpen),
		errors.Is(err, ErrAlreadyClaimed),
		errors.Is(err, ErrWrongRound),
		errors.Is(err, ErrNotTicketOwner):
		return ClassState
	case errors.Is(err, ErrInsufficientFunds):
		return ClassResource
	case errors.Is(err, ErrUnknownRequest):
		return ClassCorrelation
	default:
		return ClassInternal
	}
}
