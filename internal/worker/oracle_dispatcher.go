package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"lottx-server/common/logger"
	"lottx-server/internal/config"
	"lottx-server/internal/oracle"
	"lottx-server/internal/service"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// 预言机分发器：消费伪预言机产出的随机数结果，送回开奖流水线。
//
// 两种交付模式，由 lottery.oracle.callback_url 决定：
//   - 为空：进程内直接调用开奖服务（单体部署）
//   - 配置：HTTP POST 到回调端点，走与外部预言机相同的路径
const callbackTimeout = 5 * time.Second

// StartOracleDispatcher 启动消费循环，支持通过 ctx 优雅退出
func StartOracleDispatcher(ctx context.Context, wg *sync.WaitGroup, orc *oracle.Pseudo, draws service.DrawService) {
	if orc == nil {
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("oracle dispatcher started")
		for {
			select {
			case <-ctx.Done():
				logger.Info("oracle dispatcher stopped")
				return
			case f := <-orc.Fulfillments():
				deliver(ctx, f, draws)
			}
		}
	}()
}

func deliver(ctx context.Context, f oracle.Fulfillment, draws service.DrawService) {
	cfg := config.Get()
	callbackURL := ""
	if cfg != nil {
		callbackURL = cfg.Lottery.Oracle.CallbackURL
	}

	if callbackURL == "" {
		traceID := fmt.Sprintf("oracle-%d", f.RequestID)
		if _, err := draws.Fulfill(ctx, f.RequestID, f.RawRandom, traceID); err != nil {
			logger.Error("oracle: in-process fulfill failed",
				zap.Uint64("request_id", f.RequestID),
				zap.Error(err))
		}
		return
	}

	if err := postCallback(callbackURL, f); err != nil {
		logger.Error("oracle: callback delivery failed",
			zap.Uint64("request_id", f.RequestID),
			zap.String("url", callbackURL),
			zap.Error(err))
	}
}

// postCallback 携带共享令牌把随机数结果投递到回调端点
func postCallback(url string, f oracle.Fulfillment) error {
	body, err := json.Marshal(f)
	if err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if cfg := config.Get(); cfg != nil && cfg.Auth.Oracle.Token != "" {
		req.Header.Set("X-Oracle-Token", cfg.Auth.Oracle.Token)
	}
	req.SetBody(body)

	if err := fasthttp.DoTimeout(req, resp, callbackTimeout); err != nil {
		return err
	}
	if sc := resp.StatusCode(); sc >= 300 {
		return fmt.Errorf("callback returned status %d", sc)
	}
	return nil
}
