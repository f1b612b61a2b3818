package api

import (
	helper "lottx-server/internal/common/helper"
	"lottx-server/internal/common/response"
	"lottx-server/internal/lottery"
	"lottx-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var newClaimService = service.NewClaimService

type ClaimController struct{ beego.Controller }

// Claim 领奖接口：POST /api/ticket/claim
func (c *ClaimController) Claim() {
	traceID := helper.GetTraceID(c.Ctx)
	cp, ok, msg := helper.ParseAndValidateClaim(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}
	caller := helper.GetAccount(c.Ctx)
	if caller == "" {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	svc := newClaimService()
	out, err := svc.Claim(c.Ctx.Request.Context(), service.ClaimInput{
		Caller:   lottery.Account(caller),
		RoundID:  cp.RoundID,
		TicketID: cp.TicketID,
		TraceID:  traceID,
	})
	if err != nil {
		response.BusinessError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}
