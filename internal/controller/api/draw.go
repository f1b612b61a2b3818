package api

import (
	helper "lottx-server/internal/common/helper"
	"lottx-server/internal/common/response"
	"lottx-server/internal/lottery"
	"lottx-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var newDrawService = service.NewDrawService

type DrawController struct{ beego.Controller }

// RequestDraw 申请开奖接口：POST /api/admin/round/draw
func (c *DrawController) RequestDraw() {
	traceID := helper.GetTraceID(c.Ctx)
	dp, ok, msg := helper.ParseAndValidateDrawRequest(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	svc := newDrawService()
	reqID, err := svc.RequestDraw(c.Ctx.Request.Context(), lottery.Account(helper.GetAccount(c.Ctx)), dp.RoundID, traceID)
	if err != nil {
		response.BusinessError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, map[string]any{
		"round_id":   dp.RoundID,
		"request_id": reqID,
	}, traceID)
}

// OracleCallback 随机数回调接口：POST /api/oracle/callback
// 由外部预言机（或本进程的交付 worker）携带共享令牌调用。
func (c *DrawController) OracleCallback() {
	traceID := helper.GetTraceID(c.Ctx)
	op, ok, msg := helper.ParseAndValidateOracleCallback(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	svc := newDrawService()
	round, err := svc.Fulfill(c.Ctx.Request.Context(), op.RequestID, op.RawRandom, traceID)
	if err != nil {
		response.BusinessError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, map[string]any{
		"round_id":       round.ID,
		"winning_number": round.WinningNumber,
		"state":          round.State,
	}, traceID)
}
