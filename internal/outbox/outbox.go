package outbox

import (
	"encoding/json"
	"sync"
	"time"
)

// 事件状态
const (
	StatusPending = 1
	StatusSent    = 2
	StatusFailed  = 3
)

const maxRetries = 10

// Event 待发布的业务事件
type Event struct {
	ID         int64  `json:"id"`
	Topic      string `json:"topic"`
	BizKey     string `json:"biz_key"` // 业务键（去重/排查用）
	Payload    string `json:"payload"` // 消息体(JSON字符串)
	Status     int8   `json:"status"`
	RetryCount int    `json:"retry_count"`
	LastError  string `json:"last_error"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
}

// Memory 内存事件暂存区
// 引擎状态常驻内存，事件同样先落内存再由 worker 异步投递，
// 发布失败保留记录并计数重试，超限后标记为永久失败。
type Memory struct {
	mu     sync.Mutex
	nextID int64
	events []*Event
}

func NewMemory() *Memory { return &Memory{} }

// Enqueue 序列化 payload 并追加一条待发送事件
func (m *Memory) Enqueue(topic, bizKey string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now().UnixMilli()
	m.events = append(m.events, &Event{
		ID:        m.nextID,
		Topic:     topic,
		BizKey:    bizKey,
		Payload:   string(b),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return nil
}

// ListPending 返回最多 limit 条待发送事件的副本
func (m *Memory) ListPending(limit int) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, 0, limit)
	for _, e := range m.events {
		if e.Status != StatusPending || e.RetryCount >= maxRetries {
			continue
		}
		out = append(out, *e)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// MarkSent 标记事件已发送
func (m *Memory) MarkSent(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.byID(id); e != nil {
		e.Status = StatusSent
		e.UpdatedAt = time.Now().UnixMilli()
	}
}

// MarkFailed 记录失败并累加重试次数，达到上限后置为永久失败
func (m *Memory) MarkFailed(id int64, lastError string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.byID(id)
	if e == nil {
		return
	}
	e.RetryCount++
	e.LastError = lastError
	e.UpdatedAt = time.Now().UnixMilli()
	if e.RetryCount >= maxRetries {
		e.Status = StatusFailed
	}
}

func (m *Memory) byID(id int64) *Event {
	if id <= 0 || id > int64(len(m.events)) {
		return nil
	}
	return m.events[id-1]
}
