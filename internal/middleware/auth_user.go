package middleware

import (
	"errors"
	"strings"
	"time"

	"lottx-server/common/logger"
	"lottx-server/internal/auth"
	"lottx-server/internal/common/helper"
	"lottx-server/internal/common/response"

	beegocontext "github.com/beego/beego/v2/server/web/context"
	"go.uber.org/zap"
)

// UserAuthFilter 玩家认证过滤器（JWT Token）
// 验证通过后把账户标识注入 context，购票/领奖以它为 caller。
func UserAuthFilter(ctx *beegocontext.Context) {
	traceID := helper.GetTraceID(ctx)

	returnError := func(bizCode int, message string) {
		ctx.Output.SetStatus(401)
		ctx.Output.JSON(response.APIResponse{
			Code:      bizCode,
			Message:   message,
			TraceID:   traceID,
			Timestamp: time.Now().UnixMilli(),
		}, false, false)
	}

	claims, err := auth.VerifyJWTToken(ctx)
	if err != nil {
		logger.Warn("user authentication failed",
			zap.String("trace_id", traceID),
			zap.Error(err))

		switch {
		case errors.Is(err, auth.ErrMissingToken):
			returnError(response.CodeUnauthorized, "缺少认证Token")
		case errors.Is(err, auth.ErrInvalidTokenFormat):
			returnError(response.CodeInvalidToken, "Token格式无效")
		case errors.Is(err, auth.ErrTokenExpired):
			returnError(response.CodeTokenExpired, "Token已过期")
		case errors.Is(err, auth.ErrTokenRevoked):
			returnError(response.CodeInvalidToken, "Token已撤销")
		default:
			returnError(response.CodeInvalidToken, "认证失败")
		}
		return
	}

	ctx.Input.SetData("account", claims.Account)
}

// DemoAuthFilter 演示模式认证：直接信任 X-Account 请求头
// 仅用于本地联调，生产环境必须走 JWT。
func DemoAuthFilter(ctx *beegocontext.Context) {
	account := strings.TrimSpace(ctx.Input.Header("X-Account"))
	if account == "" {
		ctx.Output.SetStatus(401)
		ctx.Output.JSON(response.APIResponse{
			Code:      response.CodeUnauthorized,
			Message:   "X-Account header required in demo mode",
			TraceID:   helper.GetTraceID(ctx),
			Timestamp: time.Now().UnixMilli(),
		}, false, false)
		return
	}
	ctx.Input.SetData("account", account)
}
