package api

import (
	"strconv"
	"strings"

	helper "lottx-server/internal/common/helper"
	"lottx-server/internal/common/response"
	"lottx-server/internal/lottery"
	"lottx-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var newRoundService = service.NewRoundService

type RoundController struct{ beego.Controller }

// CreateRound 创建轮次接口：POST /api/admin/round
func (c *RoundController) CreateRound() {
	traceID := helper.GetTraceID(c.Ctx)
	rp, ok, msg := helper.ParseAndValidateCreateRound(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	svc := newRoundService()
	round, err := svc.CreateRound(c.Ctx.Request.Context(), service.CreateRoundInput{
		Caller:       lottery.Account(helper.GetAccount(c.Ctx)),
		Distribution: rp.Distribution,
		PrizePool:    rp.PrizePool,
		TicketCost:   rp.TicketCost,
		StartTime:    rp.StartTime,
		EndTime:      rp.EndTime,
		TraceID:      traceID,
	})
	if err != nil {
		response.BusinessError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, round, traceID)
}

// GetRound 查询轮次接口：GET /api/round/:round_id
func (c *RoundController) GetRound() {
	traceID := helper.GetTraceID(c.Ctx)
	roundID, ok := parseRoundID(c)
	if !ok {
		response.BadRequest(&c.Controller, "round_id must be a positive integer", traceID)
		return
	}

	svc := newRoundService()
	view, err := svc.GetRound(c.Ctx.Request.Context(), roundID)
	if err != nil {
		response.BusinessError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, view, traceID)
}

// Quote 购票报价接口：GET /api/round/:round_id/quote?count=N
func (c *RoundController) Quote() {
	traceID := helper.GetTraceID(c.Ctx)
	roundID, ok := parseRoundID(c)
	if !ok {
		response.BadRequest(&c.Controller, "round_id must be a positive integer", traceID)
		return
	}
	count, err := strconv.Atoi(strings.TrimSpace(c.Ctx.Input.Query("count")))
	if err != nil || count <= 0 {
		response.BadRequest(&c.Controller, "count must be a positive integer", traceID)
		return
	}

	cost, err := newTicketService().Quote(c.Ctx.Request.Context(), roundID, count)
	if err != nil {
		response.BusinessError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, map[string]any{
		"round_id": roundID,
		"count":    count,
		"cost":     cost,
	}, traceID)
}

func parseRoundID(c *RoundController) (uint64, bool) {
	raw := strings.TrimSpace(c.Ctx.Input.Param(":round_id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
