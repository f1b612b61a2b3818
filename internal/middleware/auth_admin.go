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

// AdminAuthFilter 管理员认证过滤器（简单Token）
// 保护建轮、开奖申请、参数更新、奖池注资等管理接口。
// 认证通过后把管理员账户注入 context，供控制器作为 caller 传给引擎。
func AdminAuthFilter(ctx *beegocontext.Context) {
	cfg := config.Get()
	traceID := helper.GetTraceID(ctx)

	if cfg == nil || !cfg.Auth.Admin.Enabled {
		// 未启用管理员认证时直接放行，caller 取配置的管理员账户
		if cfg != nil {
			ctx.Input.SetData("account", cfg.Lottery.AdminAccount)
		}
		return
	}

	returnAuthError := func(message string) {
		ctx.Output.SetStatus(401)
		ctx.Output.JSON(response.APIResponse{
			Code:      response.CodeUnauthorized,
			Message:   message,
			TraceID:   traceID,
			Timestamp: time.Now().UnixMilli(),
		}, false, false)
	}

	authHeader := strings.TrimSpace(ctx.Input.Header("Authorization"))
	if authHeader == "" {
		logger.Warn("missing admin token", zap.String("trace_id", traceID))
		returnAuthError("缺少管理员认证信息")
		return
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		logger.Warn("invalid admin token format", zap.String("trace_id", traceID))
		returnAuthError("无效的认证格式")
		return
	}

	if parts[1] != cfg.Auth.Admin.Token {
		logger.Warn("invalid admin token", zap.String("trace_id", traceID))
		returnAuthError("无效的管理员Token")
		return
	}

	ctx.Input.SetData("is_admin", true)
	ctx.Input.SetData("account", cfg.Lottery.AdminAccount)
}
