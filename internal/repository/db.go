package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/user/moviesearch/internal/config"
	"github.com/user/moviesearch/internal/model"
	_ "modernc.org/sqlite"
)

// InitDB 初始化数据库连接
// 一次 ETL 运行只持有一个连接，结束后由调用方关闭
func InitDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case config.DriverSQLite, config.DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: 不支持的驱动 %q", model.ErrSourceUnavailable, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: 无法连接数据库: %v", model.ErrSourceUnavailable, err)
	}

	// 内存 sqlite 依赖同一个连接
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// 测试连接
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: 数据库 ping 失败: %v", model.ErrSourceUnavailable, err)
	}

	return db, nil
}
