package middleware

import (
	"strings"
	"time"

	"lottx-server/common/logger"
	"lottx-server/internal/common/helper"
	"lottx-server/internal/common/response"
	"lottx-server/internal/config"

	beegocontext "github.com/beego/beego/v2/server/web/context"
	"go.uber.org/zap"
)

// OracleAuthFilter 随机数回调认证（共享令牌）
// 回调携带 X-Oracle-Token；未配置令牌时放行（进程内交付场景）。
func OracleAuthFilter(ctx *beegocontext.Context) {
	cfg := config.Get()
	if cfg == nil || cfg.Auth.Oracle.Token == "" {
		return
	}
	token := strings.TrimSpace(ctx.Input.Header("X-Oracle-Token"))
	if token != cfg.Auth.Oracle.Token {
		traceID := helper.GetTraceID(ctx)
		logger.Warn("invalid oracle token", zap.String("trace_id", traceID))
		ctx.Output.SetStatus(401)
		ctx.Output.JSON(response.APIResponse{
			Code:      response.CodeUnauthorized,
			Message:   "无效的回调令牌",
			TraceID:   traceID,
			Timestamp: time.Now().UnixMilli(),
		}, false, false)
	}
}
