package service

import (
	"lottx-server/internal/lottery"
	"lottx-server/internal/oracle"
	"lottx-server/internal/outbox"
	"lottx-server/internal/token"
)

// 服务层共享依赖
// 引擎、事件暂存区与预言机由 main 组装后注入，服务实例本身无状态。
var (
	eng         *lottery.Engine
	box         *outbox.Memory
	orc         *oracle.Pseudo
	ledgerStore *token.MySQL // 仅 MySQL 账本模式下非 nil
)

// Use 注入服务层依赖，须在注册路由前调用
func Use(e *lottery.Engine, b *outbox.Memory, o *oracle.Pseudo) {
	eng = e
	box = b
	orc = o
}

// UseLedger 注入 MySQL 账本句柄，开启流水查询能力
func UseLedger(l *token.MySQL) { ledgerStore = l }

// EngineInstance 返回核心引擎（供 worker/控制器直接查询）
func EngineInstance() *lottery.Engine { return eng }

// OutboxInstance 返回事件暂存区
func OutboxInstance() *outbox.Memory { return box }

// OracleInstance 返回伪预言机实例（外接预言机场景下可能为 nil）
func OracleInstance() *oracle.Pseudo { return orc }

// enqueueEvent 写事件到暂存区；投递失败只记日志，不影响主流程
func enqueueEvent(topic, bizKey string, payload any) {
	if box == nil {
		return
	}
	_ = box.Enqueue(topic, bizKey, payload)
}
