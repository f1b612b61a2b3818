package response

import (
	"errors"
	"time"

	"lottx-server/internal/lottery"

	beego "github.com/beego/beego/v2/server/web"
)

// APIResponse 统一 API 响应结构
type APIResponse struct {
	Code      int         `json:"code"`                // 业务错误码：0=成功，非0=失败
	Message   string      `json:"message"`             // 错误消息
	Data      interface{} `json:"data,omitempty"`      // 业务数据（失败时为 null）
	TraceID   string      `json:"trace_id,omitempty"`  // 请求追踪ID
	Timestamp int64       `json:"timestamp,omitempty"` // 响应时间戳（Unix 毫秒）
}

// 错误码定义
const (
	CodeSuccess           = 0    // 成功
	CodeBadRequest        = 1000 // 参数错误
	CodeBusinessError     = 2000 // 业务错误（通用）
	CodeDuplicateInFlight = 2001 // 重复请求进行中

	CodeInvalidDistributionLength = 2101 // 分布表长度错误
	CodeInvalidDistributionTotal  = 2102 // 分布表基点总和错误
	CodeInvalidPriceOrCost        = 2103 // 金额非法
	CodeInvalidTimestamp          = 2104 // 时间窗口非法
	CodeInvalidTicketCount        = 2105 // 批量数量非法
	CodeInvalidNumberShape        = 2106 // 号码形状非法
	CodeNumbersOutOfRange         = 2107 // 号码超出取值范围
	CodeNoOpUpdate                = 2108 // 空更新
	CodeInvalidParamValue         = 2109 // 参数值非法

	CodeRoundNotOpen        = 2201 // 轮次不在购票窗口
	CodeDrawTooEarly        = 2202 // 未到开奖时间
	CodeDrawAlreadyRequested = 2203 // 开奖已申请
	CodeDrawAlreadyCompleted = 2204 // 开奖已完成
	CodeDrawNotCompleted     = 2205 // 尚未开奖
	CodeClaimWindowNotOpen   = 2206 // 领奖窗口未开放
	CodeAlreadyClaimed       = 2207 // 已领过奖
	CodeWrongRound           = 2208 // 轮次归属不符

	CodeInsufficientFunds = 2301 // 余额或授权不足
	CodeUnknownRequest    = 2401 // 未知的预言机请求

	CodeUnauthorized   = 3000 // 未授权
	CodeInvalidToken   = 3001 // Token 无效
	CodeTokenExpired   = 3002 // Token 过期
	CodeForbidden      = 3009 // 禁止访问
	CodeNotTicketOwner = 3011 // 非彩票持有人

	CodeNotFound    = 4004 // 资源不存在
	CodeSystemError = 5000 // 系统错误
)

// ErrorMessages 错误消息映射
var ErrorMessages = map[int]string{
	CodeSuccess:           "success",
	CodeBadRequest:        "参数错误",
	CodeBusinessError:     "业务处理失败",
	CodeDuplicateInFlight: "重复请求进行中，请稍后重试",

	CodeInvalidDistributionLength: "分布表长度与位数不符",
	CodeInvalidDistributionTotal:  "分布表基点总和必须为10000",
	CodeInvalidPriceOrCost:        "金额必须为正数",
	CodeInvalidTimestamp:          "时间窗口非法",
	CodeInvalidTicketCount:        "购票数量非法",
	CodeInvalidNumberShape:        "号码位数或取值非法",
	CodeNumbersOutOfRange:         "号码超出取值范围",
	CodeNoOpUpdate:                "新值与当前值相同",
	CodeInvalidParamValue:         "参数值必须为正数",

	CodeRoundNotOpen:         "当前不在购票窗口",
	CodeDrawTooEarly:         "未到开奖时间",
	CodeDrawAlreadyRequested: "开奖已申请",
	CodeDrawAlreadyCompleted: "开奖已完成",
	CodeDrawNotCompleted:     "尚未开奖",
	CodeClaimWindowNotOpen:   "领奖窗口未开放",
	CodeAlreadyClaimed:       "该彩票已领过奖",
	CodeWrongRound:           "彩票不属于该轮次",

	CodeInsufficientFunds: "余额或授权不足",
	CodeUnknownRequest:    "未知的随机数请求",

	CodeUnauthorized:   "未授权",
	CodeInvalidToken:   "Token 无效",
	CodeTokenExpired:   "Token 已过期",
	CodeForbidden:      "禁止访问",
	CodeNotTicketOwner: "非彩票持有人",
	CodeNotFound:       "资源不存在",
	CodeSystemError:    "系统繁忙，请稍后重试",
}

// codeTable 业务错误 -> (错误码, HTTP 状态码)
var codeTable = []struct {
	err    error
	code   int
	status int
}{
	{lottery.ErrInvalidDistributionLength, CodeInvalidDistributionLength, 400},
	{lottery.ErrInvalidDistributionTotal, CodeInvalidDistributionTotal, 400},
	{lottery.ErrInvalidPriceOrCost, CodeInvalidPriceOrCost, 400},
	{lottery.ErrInvalidTimestamp, CodeInvalidTimestamp, 400},
	{lottery.ErrInvalidTicketCount, CodeInvalidTicketCount, 400},
	{lottery.ErrInvalidNumberShape, CodeInvalidNumberShape, 400},
	{lottery.ErrNumbersOutOfRange, CodeNumbersOutOfRange, 400},
	{lottery.ErrNoOpUpdate, CodeNoOpUpdate, 400},
	{lottery.ErrInvalidParamValue, CodeInvalidParamValue, 400},
	{lottery.ErrRoundNotOpen, CodeRoundNotOpen, 409},
	{lottery.ErrDrawTooEarly, CodeDrawTooEarly, 409},
	{lottery.ErrDrawAlreadyRequested, CodeDrawAlreadyRequested, 409},
	{lottery.ErrDrawAlreadyCompleted, CodeDrawAlreadyCompleted, 409},
	{lottery.ErrDrawNotCompleted, CodeDrawNotCompleted, 409},
	{lottery.ErrClaimWindowNotOpen, CodeClaimWindowNotOpen, 409},
	{lottery.ErrAlreadyClaimed, CodeAlreadyClaimed, 409},
	{lottery.ErrWrongRound, CodeWrongRound, 409},
	{lottery.ErrInsufficientFunds, CodeInsufficientFunds, 400},
	{lottery.ErrUnknownRequest, CodeUnknownRequest, 409},
	{lottery.ErrUnauthorized, CodeUnauthorized, 403},
	{lottery.ErrNotTicketOwner, CodeNotTicketOwner, 403},
	{lottery.ErrRoundNotFound, CodeNotFound, 404},
	{lottery.ErrTicketNotFound, CodeNotFound, 404},
}

// Classify 将核心业务错误映射为 (业务错误码, HTTP 状态码)
// 未知错误一律按系统错误处理。
func Classify(err error) (int, int) {
	for _, entry := range codeTable {
		if errors.Is(err, entry.err) {
			return entry.code, entry.status
		}
	}
	return CodeSystemError, 500
}

// Success 成功响应
func Success(c *beego.Controller, data interface{}, traceID string) {
	c.Data["json"] = APIResponse{
		Code:      CodeSuccess,
		Message:   ErrorMessages[CodeSuccess],
		Data:      data,
		TraceID:   traceID,
		Timestamp: time.Now().UnixMilli(),
	}
	c.ServeJSON()
}

// Error 错误响应（使用预定义的错误消息）
func Error(c *beego.Controller, httpStatus int, code int, traceID string) {
	c.Ctx.Output.SetStatus(httpStatus)
	c.Data["json"] = APIResponse{
		Code:      code,
		Message:   getErrorMessage(code),
		Data:      nil,
		TraceID:   traceID,
		Timestamp: time.Now().UnixMilli(),
	}
	c.ServeJSON()
}

// BusinessError 按核心错误自动映射错误码与 HTTP 状态码
func BusinessError(c *beego.Controller, err error, traceID string) {
	code, status := Classify(err)
	Error(c, status, code, traceID)
}

// ErrorWithMessage 错误响应（使用自定义错误消息）
func ErrorWithMessage(c *beego.Controller, httpStatus int, code int, message string, traceID string) {
	c.Ctx.Output.SetStatus(httpStatus)
	c.Data["json"] = APIResponse{
		Code:      code,
		Message:   message,
		Data:      nil,
		TraceID:   traceID,
		Timestamp: time.Now().UnixMilli(),
	}
	c.ServeJSON()
}

// BadRequest 参数错误响应（HTTP 400）
func BadRequest(c *beego.Controller, message string, traceID string) {
	ErrorWithMessage(c, 400, CodeBadRequest, message, traceID)
}

// NotFound 资源不存在响应（HTTP 404）
func NotFound(c *beego.Controller, message string, traceID string) {
	ErrorWithMessage(c, 404, CodeNotFound, message, traceID)
}

// InternalError 系统错误响应（HTTP 500）
func InternalError(c *beego.Controller, traceID string) {
	Error(c, 500, CodeSystemError, traceID)
}

// Accepted 请求已接受但尚未处理完成（HTTP 202），用于重复请求进行中
func Accepted(c *beego.Controller, message string, traceID string) {
	c.Ctx.Output.SetStatus(202)
	c.Ctx.Output.Header("Retry-After", "1")
	c.Data["json"] = APIResponse{
		Code:      CodeDuplicateInFlight,
		Message:   message,
		Data:      nil,
		TraceID:   traceID,
		Timestamp: time.Now().UnixMilli(),
	}
	c.ServeJSON()
}

// getErrorMessage 获取错误消息，如果未定义则返回通用消息
func getErrorMessage(code int) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return "未知错误"
}
