package routers

import (
	"lottx-server/internal/config"
	"lottx-server/internal/controller/api"
	"lottx-server/internal/metrics"
	"lottx-server/internal/middleware"

	beego "github.com/beego/beego/v2/server/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Register 注册HTTP路由与全局过滤器
// 在 main 完成配置加载与依赖注入后调用。
func Register() {
	cfg := config.Get()

	// 全局过滤器（按执行顺序）
	// 1. Panic Recovery（最先执行，捕获所有 panic）
	beego.InsertFilter("/*", beego.BeforeRouter, middleware.RecoveryFilter)

	// 2. 请求ID注入
	beego.InsertFilter("/*", beego.BeforeRouter, middleware.RequestIDFilter)

	// 3. CORS 处理（如果启用）
	if cfg != nil && cfg.CORS.Enabled {
		beego.InsertFilter("/*", beego.BeforeExec, middleware.CORSFilter)
	}

	// 4. HTTP 指标收集
	beego.InsertFilter("/*", beego.BeforeExec, metrics.HTTPMetricsFilter)
	beego.InsertFilter("/*", beego.FinishRouter, metrics.HTTPMetricsAfter)

	// 健康检查（无需认证）
	beego.Router("/healthz", &api.HealthController{}, "get:Healthz")
	beego.Router("/readyz", &api.HealthController{}, "get:Readyz")

	// Prometheus 指标端点
	if cfg != nil && cfg.Observability.EnableProm {
		beego.Handler("/metrics", promhttp.Handler())
	}

	// ========== 公开查询 API ==========

	beego.Router("/api/round/:round_id", &api.RoundController{}, "get:GetRound")
	beego.Router("/api/round/:round_id/quote", &api.RoundController{}, "get:Quote")

	// ========== 认证 API ==========

	beego.Router("/api/auth/token", &api.AuthController{}, "post:Token")
	beego.Router("/api/auth/logout", &api.AuthController{}, "post:Logout")

	// ========== 玩家 API（需要认证） ==========

	// 购票/领奖/持票查询：演示模式走请求头账户，否则走 JWT
	userAuth := middleware.UserAuthFilter
	if cfg != nil && cfg.Auth.DemoMode {
		userAuth = middleware.DemoAuthFilter
	}
	beego.InsertFilter("/api/ticket/*", beego.BeforeExec, userAuth)
	beego.InsertFilter("/api/user/*", beego.BeforeExec, userAuth)
	beego.Router("/api/ticket/buy", &api.TicketController{}, "post:Buy")
	beego.Router("/api/ticket/claim", &api.ClaimController{}, "post:Claim")
	beego.Router("/api/user/tickets", &api.TicketController{}, "get:UserTickets")

	// ========== 管理 API（需要管理员认证） ==========

	beego.InsertFilter("/api/admin/*", beego.BeforeExec, middleware.AdminAuthFilter)
	beego.Router("/api/admin/round", &api.RoundController{}, "post:CreateRound")
	beego.Router("/api/admin/round/draw", &api.DrawController{}, "post:RequestDraw")
	beego.Router("/api/admin/config", &api.AdminController{}, "post:UpdateConfig")
	beego.Router("/api/admin/pool/topup", &api.AdminController{}, "post:TopUp")
	beego.Router("/api/admin/pool/ledger", &api.AdminController{}, "get:PoolLedger")

	// ========== 预言机回调（共享令牌认证） ==========

	beego.InsertFilter("/api/oracle/callback", beego.BeforeExec, middleware.OracleAuthFilter)
	beego.Router("/api/oracle/callback", &api.DrawController{}, "post:OracleCallback")
}
