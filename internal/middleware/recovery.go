package middleware

import (
	"runtime/debug"

	"lottx-server/common/logger"
	"lottx-server/internal/common/helper"
	"lottx-server/internal/common/response"

	beegocontext "github.com/beego/beego/v2/server/web/context"
	"go.uber.org/zap"
)

// RecoveryFilter Panic Recovery 中间件
// 捕获所有未处理的 panic，防止进程崩溃
func RecoveryFilter(ctx *beegocontext.Context) {
	defer func() {
		if err := recover(); err != nil {
			traceID := helper.GetTraceID(ctx)

			logger.Error("panic recovered",
				zap.String("trace_id", traceID),
				zap.String("method", ctx.Request.Method),
				zap.String("path", ctx.Request.URL.Path),
				zap.Any("error", err),
				zap.String("stack", string(debug.Stack())))

			ctx.Output.SetStatus(500)
			ctx.Output.JSON(response.APIResponse{
				Code:    response.CodeSystemError,
				Message: "系统繁忙，请稍后重试",
				TraceID: traceID,
			}, false, false)

			ctx.Abort(500, "panic recovered")
		}
	}()
}
