package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// 全局数据库句柄，由 main 在账本初始化时注入。
var (
	db     *sql.DB
	sqlxDB *sqlx.DB
)

// UseDB 注入外部初始化好的 *sql.DB（例如 common.InitDB 返回的句柄）
func UseDB(d *sql.DB) {
	if d == nil {
		return
	}
	db = d
	sqlxDB = sqlx.NewDb(d, "mysql")
}

// DB 返回全局 *sql.DB 句柄（未注入时为 nil）
func DB() *sql.DB { return db }

// SQLX 返回全局 sqlx 句柄（未注入时为 nil）
func SQLX() *sqlx.DB { return sqlxDB }

// Ping 在给定超时时间内探测数据库连通性；未注入句柄时视为可用
func Ping(ctx context.Context, timeout time.Duration) error {
	if db == nil {
		return nil
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.PingContext(c)
}
