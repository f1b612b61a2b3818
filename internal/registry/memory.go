package registry

import (
	"sync"

	"lottx-server/internal/lottery"
)

type ownerKey struct {
	roundID uint64
	owner   lottery.Account
}

// Memory 内存彩票登记处
// 票据按全局自增 id 追加存放，另维护 (轮次,持有人) -> 票据列表索引。
type Memory struct {
	mu      sync.Mutex
	tickets []*lottery.Ticket
	byOwner map[ownerKey][]uint64
}

func NewMemory() *Memory {
	return &Memory{byOwner: make(map[ownerKey][]uint64)}
}

func (m *Memory) Mint(roundID uint64, owner lottery.Account, numbers []uint8) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &lottery.Ticket{
		ID:      uint64(len(m.tickets) + 1),
		RoundID: roundID,
		Owner:   owner,
		Numbers: append([]uint8(nil), numbers...),
	}
	m.tickets = append(m.tickets, t)
	k := ownerKey{roundID: roundID, owner: owner}
	m.byOwner[k] = append(m.byOwner[k], t.ID)
	return t.ID, nil
}

func (m *Memory) Get(ticketID uint64) (lottery.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.byID(ticketID)
	if err != nil {
		return lottery.Ticket{}, err
	}
	out := *t
	out.Numbers = append([]uint8(nil), t.Numbers...)
	return out, nil
}

func (m *Memory) TicketsOf(roundID uint64, owner lottery.Account) []uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.byOwner[ownerKey{roundID: roundID, owner: owner}]
	return append([]uint64(nil), ids...)
}

// Transfer 转移彩票归属并同步持有人索引
func (m *Memory) Transfer(ticketID uint64, from, to lottery.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.byID(ticketID)
	if err != nil {
		return err
	}
	if t.Owner != from {
		return lottery.ErrNotTicketOwner
	}
	fromKey := ownerKey{roundID: t.RoundID, owner: from}
	ids := m.byOwner[fromKey]
	for i, id := range ids {
		if id == ticketID {
			m.byOwner[fromKey] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	t.Owner = to
	toKey := ownerKey{roundID: t.RoundID, owner: to}
	m.byOwner[toKey] = append(m.byOwner[toKey], ticketID)
	return nil
}

func (m *Memory) MarkClaimed(ticketID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.byID(ticketID)
	if err != nil {
		return err
	}
	t.Claimed = true
	return nil
}

func (m *Memory) byID(ticketID uint64) (*lottery.Ticket, error) {
	if ticketID == 0 || ticketID > uint64(len(m.tickets)) {
		return nil, lottery.ErrTicketNotFound
	}
	return m.tickets[ticketID-1], nil
}
