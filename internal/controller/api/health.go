package api

import (
	"time"

	infmysql "lottx-server/internal/infra/mysql"
	infrds "lottx-server/internal/infra/redis"

	beego "github.com/beego/beego/v2/server/web"
)

// HealthController 提供健康检查端点：/healthz 与 /readyz
// 就绪检查探测 Redis 与数据库连通性（未配置的依赖视为就绪）

type HealthController struct{ beego.Controller }

// Healthz 存活探针：仅返回进程存活
func (c *HealthController) Healthz() {
	c.Ctx.Output.SetStatus(200)
	_ = c.Ctx.Output.Body([]byte("ok"))
}

// Readyz 就绪探针：依赖探测失败时返回 503
func (c *HealthController) Readyz() {
	if err := infrds.Ping(c.Ctx.Request.Context(), 500*time.Millisecond); err != nil {
		c.Ctx.Output.SetStatus(503)
		_ = c.Ctx.Output.Body([]byte("not ready: redis unreachable"))
		return
	}
	if err := infmysql.Ping(c.Ctx.Request.Context(), 500*time.Millisecond); err != nil {
		c.Ctx.Output.SetStatus(503)
		_ = c.Ctx.Output.Body([]byte("not ready: database unreachable"))
		return
	}
	c.Ctx.Output.SetStatus(200)
	_ = c.Ctx.Output.Body([]byte("ready"))
}
