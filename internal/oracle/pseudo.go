package oracle

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync"
	"time"

	"lottx-server/common/helper"
	"lottx-server/common/logger"

	"go.uber.org/zap"
)

// Fulfillment 随机数请求的完成结果
type Fulfillment struct {
	RequestID uint64 `json:"request_id"`
	RawRandom uint64 `json:"raw_random"`
}

// Pseudo 可验证的伪随机数预言机
// 随机数 = HMAC-SHA256(serverSeed, requestId||roundId) 的前 8 字节，
// 公布 serverSeed 后任何人都可复算校验。交付走独立 goroutine，
// 带抖动延迟模拟真实预言机的异步回调。
type Pseudo struct {
	mu     sync.Mutex
	seed   []byte
	nextID uint64

	delayMinMs int
	delayMaxMs int
	out        chan Fulfillment
}

// NewPseudo 创建伪预言机；delayMin/delayMax 为回调延迟区间（毫秒）
func NewPseudo(serverSeed string, delayMinMs, delayMaxMs int) *Pseudo {
	if delayMinMs < 0 {
		delayMinMs = 0
	}
	if delayMaxMs <= delayMinMs {
		delayMaxMs = delayMinMs + 1
	}
	return &Pseudo{
		seed:       []byte(serverSeed),
		delayMinMs: delayMinMs,
		delayMaxMs: delayMaxMs,
		out:        make(chan Fulfillment, 64),
	}
}

// Request 分配 requestId 并调度异步交付
func (p *Pseudo) Request(ctx context.Context, roundID uint64) (uint64, error) {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.mu.Unlock()

	raw := p.Derive(id, roundID)
	delay := time.Duration(helper.GenerateRandNum(p.delayMinMs, p.delayMaxMs)) * time.Millisecond
	go func() {
		time.Sleep(delay)
		p.out <- Fulfillment{RequestID: id, RawRandom: raw}
		logger.Debug("oracle: fulfillment emitted",
			zap.Uint64("request_id", id),
			zap.Uint64("round_id", roundID),
			zap.Duration("delay", delay))
	}()
	return id, nil
}

// Fulfillments 交付通道，由调度 worker 消费
func (p *Pseudo) Fulfillments() <-chan Fulfillment { return p.out }

// Derive 复算某次请求的随机数（确定性，供审计校验）
func (p *Pseudo) Derive(requestID, roundID uint64) uint64 {
	mac := hmac.New(sha256.New, p.seed)
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], requestID)
	binary.BigEndian.PutUint64(buf[8:], roundID)
	mac.Write(buf[:])
	sum := mac.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}

// ProofHash 某次请求完整摘要的十六进制表示，可随开奖结果一并公布
func (p *Pseudo) ProofHash(requestID, roundID uint64) string {
	mac := hmac.New(sha256.New, p.seed)
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], requestID)
	binary.BigEndian.PutUint64(buf[8:], roundID)
	mac.Write(buf[:])
	return hex.EncodeToString(mac.Sum(nil))
}
