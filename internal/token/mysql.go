package token

import (
	"context"
	"database/sql"
	"time"

	g "github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"lottx-server/common"
	"lottx-server/common/logger"
	"lottx-server/internal/lottery"

	"go.uber.org/zap"
)

// 账本业务类型
const (
	BizTypePurchase = 1 // 购票扣款
	BizTypePayout   = 2 // 派彩
	BizTypeMint     = 3 // 铸币/奖池注资
)

func bizTypeStr(code int) string {
	switch code {
	case BizTypePurchase:
		return "purchase"
	case BizTypePayout:
		return "payout"
	case BizTypeMint:
		return "mint"
	}
	return "unknown"
}

// tokenAccount 对应 token_accounts 表
type tokenAccount struct {
	Account string `db:"account"`
	Balance int64  `db:"balance"`
}

// tokenAllowance 对应 token_allowances 表（owner 对 spender 的授权额度）
type tokenAllowance struct {
	Owner   string `db:"owner"`
	Spender string `db:"spender"`
	Amount  int64  `db:"amount"`
}

// ledgerEntry 对应 token_ledger 表（追加式账本，金额为代币最小单位）
type ledgerEntry struct {
	Account       string `db:"account"`
	BizType       int    `db:"biz_type"`
	BizTypeStr    string `db:"biz_type_str"`
	Amount        int64  `db:"amount"`
	BeforeBalance int64  `db:"before_balance"`
	AfterBalance  int64  `db:"after_balance"`
	RefAccount    string `db:"ref_account"`
	Remark        string `db:"remark"`
	CreatedAt     int64  `db:"created_at"`
}

func (e *ledgerEntry) insert(ctx context.Context, exec sqlx.ExtContext) error {
	e.CreatedAt = time.Now().UnixMilli()
	e.BizTypeStr = bizTypeStr(e.BizType)
	_, err := common.InsertCtx(ctx, exec, "token_ledger", e)
	return err
}

// LedgerRecord 账本流水对外视图
type LedgerRecord struct {
	Account       string `db:"account" json:"account"`
	BizType       int    `db:"biz_type" json:"biz_type"`
	BizTypeStr    string `db:"biz_type_str" json:"biz_type_str"`
	Amount        int64  `db:"amount" json:"amount"`
	BeforeBalance int64  `db:"before_balance" json:"before_balance"`
	AfterBalance  int64  `db:"after_balance" json:"after_balance"`
	RefAccount    string `db:"ref_account" json:"ref_account"`
	Remark        string `db:"remark" json:"remark"`
	CreatedAt     int64  `db:"created_at" json:"created_at"`
}

// MySQL 持久化代币账本
// 余额存于 token_accounts，每次变动追加一条 token_ledger 记录。
// Transfer 以构造时绑定的奖池账户为付款方，与内存实现一致。
type MySQL struct {
	db   *sqlx.DB
	pool lottery.Account
}

func NewMySQL(db *sqlx.DB, pool lottery.Account) *MySQL {
	return &MySQL{db: db, pool: pool}
}

func (m *MySQL) Transfer(ctx context.Context, to lottery.Account, amount int64) error {
	return m.withTx(ctx, func(tx *sqlx.Tx) error {
		return m.move(ctx, tx, m.pool, to, amount, BizTypePayout, "reward payout")
	})
}

func (m *MySQL) TransferFrom(ctx context.Context, from, to lottery.Account, amount int64) error {
	return m.withTx(ctx, func(tx *sqlx.Tx) error {
		allowed, err := m.allowanceForUpdate(ctx, tx, from, to)
		if err != nil {
			return err
		}
		if allowed < amount {
			return errors.Errorf("allowance exceeded: %s approved %d for %s, need %d", from, allowed, to, amount)
		}
		if err := m.move(ctx, tx, from, to, amount, BizTypePurchase, "ticket purchase"); err != nil {
			return err
		}
		_, err = common.UpdateCtx(ctx, tx, "token_allowances",
			g.Record{"amount": allowed - amount},
			g.Ex{"owner": string(from), "spender": string(to)})
		return err
	})
}

func (m *MySQL) BalanceOf(ctx context.Context, account lottery.Account) (int64, error) {
	var acc tokenAccount
	err := common.SelectOneExtCtx(ctx, m.db, &acc, "token_accounts",
		[]interface{}{"account", "balance"}, g.Ex{"account": string(account)})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "query balance")
	}
	return acc.Balance, nil
}

func (m *MySQL) Mint(ctx context.Context, to lottery.Account, amount int64) error {
	if amount <= 0 {
		return errors.New("mint amount must be positive")
	}
	return m.withTx(ctx, func(tx *sqlx.Tx) error {
		before, err := m.accountForUpdate(ctx, tx, to, true)
		if err != nil {
			return err
		}
		after := before + amount
		if err := m.setBalance(ctx, tx, to, after); err != nil {
			return err
		}
		entry := &ledgerEntry{
			Account:       string(to),
			BizType:       BizTypeMint,
			Amount:        amount,
			BeforeBalance: before,
			AfterBalance:  after,
			Remark:        "pool top-up",
		}
		return entry.insert(ctx, tx)
	})
}

// Approve 覆盖式写入授权额度（管理接口/回放工具使用）
func (m *MySQL) Approve(ctx context.Context, owner, spender lottery.Account, amount int64) error {
	sqlStr := "INSERT INTO token_allowances (owner, spender, amount) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE amount = VALUES(amount)"
	_, err := m.db.ExecContext(ctx, sqlStr, string(owner), string(spender), amount)
	return errors.Wrap(err, "approve")
}

// Entries 查询某账户的账本流水（审计/对账）
func (m *MySQL) Entries(ctx context.Context, account lottery.Account) ([]LedgerRecord, error) {
	var out []LedgerRecord
	err := common.SelectAllCtx(ctx, m.db, &out, "token_ledger",
		common.EnumFields(LedgerRecord{}), g.Ex{"account": string(account)})
	return out, errors.Wrap(err, "query ledger")
}

// EntryCount 统计某账户的流水条数
func (m *MySQL) EntryCount(ctx context.Context, account lottery.Account) (int64, error) {
	return common.CountCtx(ctx, m.db, "token_ledger", g.Ex{"account": string(account)})
}

func (m *MySQL) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit tx")
}

// move 在事务内完成一次转账：双方行锁、余额校验、双边账本记录。
// 按账户名排序加锁，避免并发转账互相死锁。
func (m *MySQL) move(ctx context.Context, tx *sqlx.Tx, from, to lottery.Account, amount int64, bizType int, remark string) error {
	if amount <= 0 {
		return errors.New("transfer amount must be positive")
	}
	first, second := from, to
	if second < first {
		first, second = second, first
	}
	balances := map[lottery.Account]int64{}
	for _, acc := range []lottery.Account{first, second} {
		bal, err := m.accountForUpdate(ctx, tx, acc, acc == to)
		if err != nil {
			return err
		}
		balances[acc] = bal
	}
	if balances[from] < amount {
		return errors.Errorf("insufficient balance: %s has %d, need %d", from, balances[from], amount)
	}
	if err := m.setBalance(ctx, tx, from, balances[from]-amount); err != nil {
		return err
	}
	if err := m.setBalance(ctx, tx, to, balances[to]+amount); err != nil {
		return err
	}
	out := &ledgerEntry{
		Account: string(from), BizType: bizType, Amount: -amount,
		BeforeBalance: balances[from], AfterBalance: balances[from] - amount,
		RefAccount: string(to), Remark: remark,
	}
	if err := out.insert(ctx, tx); err != nil {
		return err
	}
	in := &ledgerEntry{
		Account: string(to), BizType: bizType, Amount: amount,
		BeforeBalance: balances[to], AfterBalance: balances[to] + amount,
		RefAccount: string(from), Remark: remark,
	}
	return in.insert(ctx, tx)
}

// accountForUpdate 加锁读取账户余额；createIfMissing 时为收款方自动开户
func (m *MySQL) accountForUpdate(ctx context.Context, tx *sqlx.Tx, account lottery.Account, createIfMissing bool) (int64, error) {
	var acc tokenAccount
	err := common.SelectOneTxCtx(ctx, tx, &acc, "token_accounts",
		[]interface{}{"account", "balance"}, g.Ex{"account": string(account)}, true)
	if err == nil {
		return acc.Balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, errors.Wrap(err, "lock account")
	}
	if !createIfMissing {
		return 0, nil
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO token_accounts (account, balance) VALUES (?, 0)", string(account)); err != nil {
		logger.WarnCtx(ctx, "token: create account failed", zap.String("account", string(account)), zap.Error(err))
		return 0, errors.Wrap(err, "create account")
	}
	return 0, nil
}

func (m *MySQL) setBalance(ctx context.Context, tx *sqlx.Tx, account lottery.Account, balance int64) error {
	_, err := common.UpdateCtx(ctx, tx, "token_accounts",
		g.Record{"balance": balance}, g.Ex{"account": string(account)})
	return errors.Wrap(err, "update balance")
}

func (m *MySQL) allowanceForUpdate(ctx context.Context, tx *sqlx.Tx, owner, spender lottery.Account) (int64, error) {
	var al tokenAllowance
	err := common.SelectOneTxCtx(ctx, tx, &al, "token_allowances",
		[]interface{}{"owner", "spender", "amount"},
		g.Ex{"owner": string(owner), "spender": string(spender)}, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "lock allowance")
	}
	return al.Amount, nil
}
