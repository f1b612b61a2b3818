package lottery

import "context"

// FundPool 管理员向奖池账户注资（经代币账本铸币）
// 只影响账本余额，不回溯调整已创建轮次的 PrizePool。
func (e *Engine) FundPool(ctx context.Context, caller Account, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if caller != e.admin {
		return ErrUnauthorized
	}
	if amount <= 0 {
		return ErrInvalidPriceOrCost
	}
	return e.tokens.Mint(ctx, e.account, amount)
}

// PoolBalance 奖池账户当前余额
func (e *Engine) PoolBalance(ctx context.Context) (int64, error) {
	return e.tokens.BalanceOf(ctx, e.account)
}
