package worker

import (
	"context"
	"sync"
	"time"

	"lottx-server/common/logger"
	"lottx-server/internal/infra/rocketmq"
	"lottx-server/internal/outbox"

	"go.uber.org/zap"
)

// Outbox 分发器：按固定间隔把待投递事件刷到 MQ。
// 投递失败的事件保持待投递状态，重试直到达到上限。

const (
	dispatchInterval = 1 * time.Second
	dispatchBatch    = 100
)

// StartOutboxDispatcher 启动 Outbox 分发循环，支持通过 ctx 优雅退出
func StartOutboxDispatcher(ctx context.Context, wg *sync.WaitGroup, box *outbox.Memory) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(dispatchInterval)
		defer ticker.Stop()

		logger.Info("outbox dispatcher started")
		for {
			select {
			case <-ctx.Done():
				// 退出前最后清一次，避免停机时滞留新事件
				dispatchOnce(box)
				logger.Info("outbox dispatcher stopped")
				return
			case <-ticker.C:
				dispatchOnce(box)
			}
		}
	}()
}

func dispatchOnce(box *outbox.Memory) {
	events := box.ListPending(dispatchBatch)
	if len(events) == 0 {
		return
	}

	pub := rocketmq.PublisherInstance()
	for _, ev := range events {
		if err := pub.Publish(ev.Topic, []byte(ev.Payload)); err != nil {
			logger.Error("outbox: publish failed",
				zap.Int64("event_id", ev.ID),
				zap.String("topic", ev.Topic),
				zap.String("biz_key", ev.BizKey),
				zap.Int("retry_count", ev.RetryCount),
				zap.Error(err))
			box.MarkFailed(ev.ID, truncateErr(err.Error()))
			continue
		}
		box.MarkSent(ev.ID)
		logger.Debug("outbox: event sent",
			zap.Int64("event_id", ev.ID),
			zap.String("topic", ev.Topic),
			zap.String("biz_key", ev.BizKey))
	}
}

// truncateErr 截断存储的错误文本，防止异常刷屏撑爆内存
func truncateErr(s string) string {
	const max = 500
	if len(s) > max {
		return s[:max]
	}
	return s
}
