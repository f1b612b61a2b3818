package api

import (
	"encoding/json"
	"strings"

	"lottx-server/internal/auth"
	helper "lottx-server/internal/common/helper"
	"lottx-server/internal/common/response"
	"lottx-server/internal/config"

	beego "github.com/beego/beego/v2/server/web"
)

type AuthController struct{ beego.Controller }

type tokenReq struct {
	Account string `json:"account"`
}

// Token 签发访问令牌：POST /api/auth/token
// 仅演示模式开放，生产环境由外部账号体系换发。
func (c *AuthController) Token() {
	traceID := helper.GetTraceID(c.Ctx)
	cfg := config.Get()
	if cfg == nil || !cfg.Auth.DemoMode {
		response.Error(&c.Controller, 403, response.CodeForbidden, traceID)
		return
	}

	var req tokenReq
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, &req); err != nil {
		response.BadRequest(&c.Controller, "invalid json body", traceID)
		return
	}
	req.Account = strings.TrimSpace(req.Account)
	if req.Account == "" {
		response.BadRequest(&c.Controller, "account required", traceID)
		return
	}

	tok, err := auth.GenerateAccessToken(req.Account)
	if err != nil {
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, map[string]any{
		"account":      req.Account,
		"access_token": tok,
		"token_type":   "Bearer",
		"expires_in":   cfg.Auth.JWT.AccessTokenTTL,
	}, traceID)
}

// Logout 撤销当前令牌：POST /api/auth/logout
func (c *AuthController) Logout() {
	traceID := helper.GetTraceID(c.Ctx)
	claims, err := auth.VerifyJWTToken(c.Ctx)
	if err != nil {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	parts := strings.SplitN(c.Ctx.Input.Header("Authorization"), " ", 2)
	if len(parts) == 2 && claims.ExpiresAt != nil {
		if err := auth.RevokeToken(c.Ctx.Request.Context(), strings.TrimSpace(parts[1]), claims.ExpiresAt.Time); err != nil {
			response.InternalError(&c.Controller, traceID)
			return
		}
	}
	response.Success(&c.Controller, map[string]any{"account": claims.Account}, traceID)
}
