package redis

// Redis Key 定义与构造器
// 统一管理业务使用的 Redis Key，避免散落的魔法字符串。

const (
	// PrefixBuyIdemResult：购票幂等“结果缓存”Key 的前缀。
	// 缓存某个 idempotency key 第一次成功的 BuyOutput JSON，重复请求直接返回。
	PrefixBuyIdemResult = "ticket:idem:result:"
	// PrefixBuyIdemLock：购票幂等“进行中锁”Key 的前缀（SETNX + TTL）。
	PrefixBuyIdemLock = "ticket:idem:lock:"

	// PrefixRoundInfo：轮次信息缓存（购票窗口倒计时等快速查询）
	PrefixRoundInfo = "lottx:round:"
	// PrefixRoundResult：开奖结果缓存
	PrefixRoundResult = "lottx:result:"
)

// IdemResultKey 形如：ticket:idem:result:{idempotency_key}
func IdemResultKey(k string) string { return PrefixBuyIdemResult + k }

// IdemLockKey 形如：ticket:idem:lock:{idempotency_key}
func IdemLockKey(k string) string { return PrefixBuyIdemLock + k }

// RoundInfoKey 形如：lottx:round:{round_id}
func RoundInfoKey(roundID string) string { return PrefixRoundInfo + roundID }

// RoundResultKey 形如：lottx:result:{round_id}
func RoundResultKey(roundID string) string { return PrefixRoundResult + roundID }
