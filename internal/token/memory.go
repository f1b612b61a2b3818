package token

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"lottx-server/internal/lottery"
)

// Memory 内存代币账本，用于测试与演示模式
// Transfer 以构造时绑定的奖池账户为付款方；TransferFrom 需要收款方
// 持有付款方的授权额度（ERC20 语义，spender == to）。
type Memory struct {
	mu         sync.Mutex
	pool       lottery.Account
	balances   map[lottery.Account]int64
	allowances map[lottery.Account]map[lottery.Account]int64
}

func NewMemory(pool lottery.Account) *Memory {
	return &Memory{
		pool:       pool,
		balances:   make(map[lottery.Account]int64),
		allowances: make(map[lottery.Account]map[lottery.Account]int64),
	}
}

func (m *Memory) Mint(ctx context.Context, to lottery.Account, amount int64) error {
	if amount <= 0 {
		return errors.New("mint amount must be positive")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[to] += amount
	return nil
}

// Approve 设置 owner 对 spender 的授权额度（覆盖式）
func (m *Memory) Approve(owner, spender lottery.Account, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.allowances[owner] == nil {
		m.allowances[owner] = make(map[lottery.Account]int64)
	}
	m.allowances[owner][spender] = amount
}

func (m *Memory) Transfer(ctx context.Context, to lottery.Account, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.move(m.pool, to, amount)
}

func (m *Memory) TransferFrom(ctx context.Context, from, to lottery.Account, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	allowed := m.allowances[from][to]
	if allowed < amount {
		return errors.Errorf("allowance exceeded: %s approved %d for %s, need %d", from, allowed, to, amount)
	}
	if err := m.move(from, to, amount); err != nil {
		return err
	}
	m.allowances[from][to] = allowed - amount
	return nil
}

func (m *Memory) BalanceOf(ctx context.Context, account lottery.Account) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[account], nil
}

func (m *Memory) move(from, to lottery.Account, amount int64) error {
	if amount <= 0 {
		return errors.New("transfer amount must be positive")
	}
	if m.balances[from] < amount {
		return errors.Errorf("insufficient balance: %s has %d, need %d", from, m.balances[from], amount)
	}
	m.balances[from] -= amount
	m.balances[to] += amount
	return nil
}
