package api

import (
	"errors"
	"strconv"
	"strings"

	helper "lottx-server/internal/common/helper"
	"lottx-server/internal/common/response"
	"lottx-server/internal/lottery"
	"lottx-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var newTicketService = service.NewTicketService

type TicketController struct{ beego.Controller }

// Buy 批量购票接口：POST /api/ticket/buy
func (c *TicketController) Buy() {
	traceID := helper.GetTraceID(c.Ctx)
	bp, ok, msg := helper.ParseAndValidateBuy(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}
	buyer := helper.GetAccount(c.Ctx)
	if buyer == "" {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	svc := newTicketService()
	out, err := svc.BuyTickets(c.Ctx.Request.Context(), service.BuyInput{
		Buyer:          lottery.Account(buyer),
		RoundID:        bp.RoundID,
		Count:          bp.Count,
		Numbers:        helper.DigitsOf(bp.Numbers),
		IdempotencyKey: bp.IdempotencyKey,
		TraceID:        traceID,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateInFlight) {
			response.Accepted(&c.Controller, "重复请求进行中，请稍后重试", traceID)
			return
		}
		response.BusinessError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// UserTickets 用户持票查询接口：GET /api/user/tickets?round_id=N
func (c *TicketController) UserTickets() {
	traceID := helper.GetTraceID(c.Ctx)
	roundID, err := strconv.ParseUint(strings.TrimSpace(c.Ctx.Input.Query("round_id")), 10, 64)
	if err != nil || roundID == 0 {
		response.BadRequest(&c.Controller, "round_id must be a positive integer", traceID)
		return
	}
	owner := helper.GetAccount(c.Ctx)
	if owner == "" {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	tickets, err := newTicketService().ListUserTickets(c.Ctx.Request.Context(), roundID, lottery.Account(owner))
	if err != nil {
		response.BusinessError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, map[string]any{
		"round_id": roundID,
		"owner":    owner,
		"tickets":  tickets,
	}, traceID)
}
