package api

import (
	helper "lottx-server/internal/common/helper"
	"lottx-server/internal/common/response"
	"lottx-server/internal/lottery"
	"lottx-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var newAdminService = service.NewAdminService

type AdminController struct{ beego.Controller }

// UpdateConfig 全局参数更新接口：POST /api/admin/config
func (c *AdminController) UpdateConfig() {
	traceID := helper.GetTraceID(c.Ctx)
	up, ok, msg := helper.ParseAndValidateConfigUpdate(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	svc := newAdminService()
	params, err := svc.UpdateConfig(c.Ctx.Request.Context(), lottery.Account(helper.GetAccount(c.Ctx)), up.Field, up.Value, traceID)
	if err != nil {
		response.BusinessError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, map[string]any{
		"digit_count": params.DigitCount,
		"digit_range": params.DigitRange,
		"max_batch":   params.MaxTicketsPerBatch,
	}, traceID)
}

// TopUp 奖池注资接口：POST /api/admin/pool/topup
func (c *AdminController) TopUp() {
	traceID := helper.GetTraceID(c.Ctx)
	tp, ok, msg := helper.ParseAndValidateTopUp(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	svc := newAdminService()
	balance, err := svc.TopUpPool(c.Ctx.Request.Context(), lottery.Account(helper.GetAccount(c.Ctx)), tp.Amount, traceID)
	if err != nil {
		response.BusinessError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, map[string]any{
		"amount":  tp.Amount,
		"balance": balance,
	}, traceID)
}

// PoolLedger 奖池流水查询接口：GET /api/admin/pool/ledger
func (c *AdminController) PoolLedger() {
	traceID := helper.GetTraceID(c.Ctx)
	entries, count, err := newAdminService().PoolLedger(c.Ctx.Request.Context())
	if err != nil {
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, map[string]any{
		"count":   count,
		"entries": entries,
	}, traceID)
}
