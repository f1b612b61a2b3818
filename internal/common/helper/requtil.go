package helper

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	beegocontext "github.com/beego/beego/v2/server/web/context"
)

// IsJSONContentType 判断是否为 JSON 请求
func IsJSONContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.Contains(ct, "json")
}

// 默认输入保护参数
const (
	defaultJSONMaxBytes int64         = 1 << 20 // 1MB
	defaultParseTimeout time.Duration = 1 * time.Second
)

type deadlineReader struct {
	r        io.Reader
	deadline time.Time
}

func (dr *deadlineReader) Read(p []byte) (int, error) {
	if time.Now().After(dr.deadline) {
		return 0, fmt.Errorf("read timeout")
	}
	return dr.r.Read(p)
}

// jsonBodyReader 在 JSON 分支下为请求体增加大小限制与解析超时保护
func jsonBodyReader(ctx *beegocontext.Context) io.Reader {
	lr := io.LimitReader(ctx.Request.Body, defaultJSONMaxBytes)
	return &deadlineReader{r: lr, deadline: time.Now().Add(defaultParseTimeout)}
}

// GetTraceID 统一提取 trace_id：优先从中间件注入的数据取，其次从常见请求头降级
func GetTraceID(ctx *beegocontext.Context) string {
	if v := ctx.Input.GetData("trace_id"); v != nil {
		return fmt.Sprint(v)
	}
	if h := strings.TrimSpace(ctx.Input.Header("X-Trace-ID")); h != "" {
		return h
	}
	if h := strings.TrimSpace(ctx.Input.Header("Trace-Id")); h != "" {
		return h
	}
	return ""
}

// GetAccount 提取认证中间件注入的账户标识
func GetAccount(ctx *beegocontext.Context) string {
	if v := ctx.Input.GetData("account"); v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

// parseByContentType 按 Content-Type 选择解析函数
func parseByContentType[T any](ctx *beegocontext.Context,
	jsonParser func(io.Reader) (T, bool, string),
	formParser func(*beegocontext.Context) (T, bool, string),
) (T, bool, string) {
	ct := ctx.Input.Header("Content-Type")
	if IsJSONContentType(ct) {
		return jsonParser(jsonBodyReader(ctx))
	}
	return formParser(ctx)
}

// -------- Buy helpers --------

// BuyParsed 解析后的购票入参（与控制器/服务层解耦）
type BuyParsed struct {
	RoundID uint64  `json:"round_id"`
	Count   int     `json:"count"`
	Numbers [][]int `json:"numbers"`
	/*
		幂等键：客户端生成并随请求传入，同一次购票的所有重试传相同的 key。
		服务端保证：Redis 进行中锁吸收并发重复，结果缓存让历史重复直接
		返回首次的票号列表，不重复扣款。
	*/
	IdempotencyKey string `json:"idempotency_key"`
}

func ParseBuyFromJSON(r io.Reader) (BuyParsed, bool, string) {
	var out BuyParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return BuyParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

// ParseBuyFromForm 表单购票：numbers 为分号分隔的票，票内数字用逗号分隔
// 例：numbers=1,2,3,4;5,6,7,8
func ParseBuyFromForm(ctx *beegocontext.Context) (BuyParsed, bool, string) {
	var out BuyParsed
	rid, err := strconv.ParseUint(strings.TrimSpace(ctx.Input.Query("round_id")), 10, 64)
	if err != nil {
		return BuyParsed{}, false, "round_id must be a positive integer"
	}
	out.RoundID = rid
	if c := strings.TrimSpace(ctx.Input.Query("count")); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil {
			return BuyParsed{}, false, "count must be integer"
		}
		out.Count = n
	}
	raw := strings.TrimSpace(ctx.Input.Query("numbers"))
	if raw == "" {
		return BuyParsed{}, false, "numbers required"
	}
	for _, group := range strings.Split(raw, ";") {
		var seq []int
		for _, d := range strings.Split(group, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(d))
			if err != nil {
				return BuyParsed{}, false, "numbers must be integers"
			}
			seq = append(seq, n)
		}
		out.Numbers = append(out.Numbers, seq)
	}
	if out.Count == 0 {
		out.Count = len(out.Numbers)
	}
	out.IdempotencyKey = strings.TrimSpace(ctx.Input.Query("idempotency_key"))
	return out, true, ""
}

// ValidateBuy 对通用字段做二次校验（适用于 JSON 与 FORM）
func ValidateBuy(in *BuyParsed) (bool, string) {
	if in.RoundID == 0 {
		return false, "round_id required"
	}
	if in.Count <= 0 || len(in.Numbers) == 0 {
		return false, "count and numbers required"
	}
	if in.Count > 1024 || len(in.Numbers) > 1024 {
		return false, "invalid request"
	}
	if in.IdempotencyKey == "" {
		return false, "idempotency_key required"
	}
	if len(in.IdempotencyKey) > 64 {
		return false, "invalid request"
	}
	for _, seq := range in.Numbers {
		if len(seq) == 0 || len(seq) > 32 {
			return false, "invalid numbers"
		}
		for _, d := range seq {
			if d < 0 || d > 255 {
				return false, "digit out of range"
			}
		}
	}
	return true, ""
}

// ParseAndValidateBuy 按 Content-Type 自动解析并做统一校验
func ParseAndValidateBuy(ctx *beegocontext.Context) (BuyParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseBuyFromJSON, ParseBuyFromForm)
	if !ok {
		return BuyParsed{}, false, msg
	}
	if ok, msg := ValidateBuy(&out); !ok {
		return BuyParsed{}, false, msg
	}
	return out, true, ""
}

// DigitsOf 将解析出的号码转换为引擎所需的 uint8 序列
func DigitsOf(numbers [][]int) [][]uint8 {
	out := make([][]uint8, 0, len(numbers))
	for _, seq := range numbers {
		digits := make([]uint8, 0, len(seq))
		for _, d := range seq {
			digits = append(digits, uint8(d))
		}
		out = append(out, digits)
	}
	return out
}

// -------- Claim helpers --------

type ClaimParsed struct {
	RoundID  uint64 `json:"round_id"`
	TicketID uint64 `json:"ticket_id"`
}

func ParseClaimFromJSON(r io.Reader) (ClaimParsed, bool, string) {
	var out ClaimParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return ClaimParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

func ParseClaimFromForm(ctx *beegocontext.Context) (ClaimParsed, bool, string) {
	var out ClaimParsed
	rid, err1 := strconv.ParseUint(strings.TrimSpace(ctx.Input.Query("round_id")), 10, 64)
	tid, err2 := strconv.ParseUint(strings.TrimSpace(ctx.Input.Query("ticket_id")), 10, 64)
	if err1 != nil || err2 != nil {
		return ClaimParsed{}, false, "round_id and ticket_id must be positive integers"
	}
	out.RoundID = rid
	out.TicketID = tid
	return out, true, ""
}

func ParseAndValidateClaim(ctx *beegocontext.Context) (ClaimParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseClaimFromJSON, ParseClaimFromForm)
	if !ok {
		return ClaimParsed{}, false, msg
	}
	if out.RoundID == 0 || out.TicketID == 0 {
		return ClaimParsed{}, false, "round_id and ticket_id required"
	}
	return out, true, ""
}

// -------- CreateRound helpers --------

type CreateRoundParsed struct {
	Distribution []uint64 `json:"distribution"`
	PrizePool    int64    `json:"prize_pool"`
	TicketCost   int64    `json:"ticket_cost"`
	StartTime    int64    `json:"start_time"`
	EndTime      int64    `json:"end_time"`
}

func ParseCreateRoundFromJSON(r io.Reader) (CreateRoundParsed, bool, string) {
	var out CreateRoundParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return CreateRoundParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

// ParseCreateRoundFromForm 表单建轮：distribution 为逗号分隔的基点值
func ParseCreateRoundFromForm(ctx *beegocontext.Context) (CreateRoundParsed, bool, string) {
	var out CreateRoundParsed
	raw := strings.TrimSpace(ctx.Input.Query("distribution"))
	if raw == "" {
		return CreateRoundParsed{}, false, "distribution required"
	}
	for _, d := range strings.Split(raw, ",") {
		bp, err := strconv.ParseUint(strings.TrimSpace(d), 10, 64)
		if err != nil {
			return CreateRoundParsed{}, false, "distribution must be integers"
		}
		out.Distribution = append(out.Distribution, bp)
	}
	var err error
	if out.PrizePool, err = strconv.ParseInt(strings.TrimSpace(ctx.Input.Query("prize_pool")), 10, 64); err != nil {
		return CreateRoundParsed{}, false, "prize_pool must be integer"
	}
	if out.TicketCost, err = strconv.ParseInt(strings.TrimSpace(ctx.Input.Query("ticket_cost")), 10, 64); err != nil {
		return CreateRoundParsed{}, false, "ticket_cost must be integer"
	}
	if out.StartTime, err = strconv.ParseInt(strings.TrimSpace(ctx.Input.Query("start_time")), 10, 64); err != nil {
		return CreateRoundParsed{}, false, "start_time must be integer"
	}
	if out.EndTime, err = strconv.ParseInt(strings.TrimSpace(ctx.Input.Query("end_time")), 10, 64); err != nil {
		return CreateRoundParsed{}, false, "end_time must be integer"
	}
	return out, true, ""
}

func ParseAndValidateCreateRound(ctx *beegocontext.Context) (CreateRoundParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseCreateRoundFromJSON, ParseCreateRoundFromForm)
	if !ok {
		return CreateRoundParsed{}, false, msg
	}
	if len(out.Distribution) == 0 || len(out.Distribution) > 32 {
		return CreateRoundParsed{}, false, "distribution required"
	}
	return out, true, ""
}

// -------- Draw / config / topup / callback helpers --------

type DrawRequestParsed struct {
	RoundID uint64 `json:"round_id"`
}

func ParseAndValidateDrawRequest(ctx *beegocontext.Context) (DrawRequestParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx,
		func(r io.Reader) (DrawRequestParsed, bool, string) {
			var out DrawRequestParsed
			if err := json.NewDecoder(r).Decode(&out); err != nil {
				return DrawRequestParsed{}, false, "invalid json body"
			}
			return out, true, ""
		},
		func(ctx *beegocontext.Context) (DrawRequestParsed, bool, string) {
			rid, err := strconv.ParseUint(strings.TrimSpace(ctx.Input.Query("round_id")), 10, 64)
			if err != nil {
				return DrawRequestParsed{}, false, "round_id must be a positive integer"
			}
			return DrawRequestParsed{RoundID: rid}, true, ""
		})
	if !ok {
		return DrawRequestParsed{}, false, msg
	}
	if out.RoundID == 0 {
		return DrawRequestParsed{}, false, "round_id required"
	}
	return out, true, ""
}

type ConfigUpdateParsed struct {
	Field string `json:"field"` // digit_count | digit_range | max_batch
	Value int    `json:"value"`
}

func ParseAndValidateConfigUpdate(ctx *beegocontext.Context) (ConfigUpdateParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx,
		func(r io.Reader) (ConfigUpdateParsed, bool, string) {
			var out ConfigUpdateParsed
			if err := json.NewDecoder(r).Decode(&out); err != nil {
				return ConfigUpdateParsed{}, false, "invalid json body"
			}
			return out, true, ""
		},
		func(ctx *beegocontext.Context) (ConfigUpdateParsed, bool, string) {
			var out ConfigUpdateParsed
			out.Field = strings.TrimSpace(ctx.Input.Query("field"))
			n, err := strconv.Atoi(strings.TrimSpace(ctx.Input.Query("value")))
			if err != nil {
				return ConfigUpdateParsed{}, false, "value must be integer"
			}
			out.Value = n
			return out, true, ""
		})
	if !ok {
		return ConfigUpdateParsed{}, false, msg
	}
	switch out.Field {
	case "digit_count", "digit_range", "max_batch":
	default:
		return ConfigUpdateParsed{}, false, "field must be digit_count|digit_range|max_batch"
	}
	if out.Value <= 0 {
		return ConfigUpdateParsed{}, false, "value must be positive"
	}
	return out, true, ""
}

type TopUpParsed struct {
	Amount int64 `json:"amount"`
}

func ParseAndValidateTopUp(ctx *beegocontext.Context) (TopUpParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx,
		func(r io.Reader) (TopUpParsed, bool, string) {
			var out TopUpParsed
			if err := json.NewDecoder(r).Decode(&out); err != nil {
				return TopUpParsed{}, false, "invalid json body"
			}
			return out, true, ""
		},
		func(ctx *beegocontext.Context) (TopUpParsed, bool, string) {
			n, err := strconv.ParseInt(strings.TrimSpace(ctx.Input.Query("amount")), 10, 64)
			if err != nil {
				return TopUpParsed{}, false, "amount must be integer"
			}
			return TopUpParsed{Amount: n}, true, ""
		})
	if !ok {
		return TopUpParsed{}, false, msg
	}
	if out.Amount <= 0 {
		return TopUpParsed{}, false, "amount must be positive"
	}
	return out, true, ""
}

type OracleCallbackParsed struct {
	RequestID uint64 `json:"request_id"`
	RawRandom uint64 `json:"raw_random"`
}

func ParseAndValidateOracleCallback(ctx *beegocontext.Context) (OracleCallbackParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx,
		func(r io.Reader) (OracleCallbackParsed, bool, string) {
			var out OracleCallbackParsed
			if err := json.NewDecoder(r).Decode(&out); err != nil {
				return OracleCallbackParsed{}, false, "invalid json body"
			}
			return out, true, ""
		},
		func(ctx *beegocontext.Context) (OracleCallbackParsed, bool, string) {
			rid, err1 := strconv.ParseUint(strings.TrimSpace(ctx.Input.Query("request_id")), 10, 64)
			raw, err2 := strconv.ParseUint(strings.TrimSpace(ctx.Input.Query("raw_random")), 10, 64)
			if err1 != nil || err2 != nil {
				return OracleCallbackParsed{}, false, "request_id and raw_random must be integers"
			}
			return OracleCallbackParsed{RequestID: rid, RawRandom: raw}, true, ""
		})
	if !ok {
		return OracleCallbackParsed{}, false, msg
	}
	if out.RequestID == 0 {
		return OracleCallbackParsed{}, false, "request_id required"
	}
	return out, true, ""
}
