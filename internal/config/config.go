package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// 支持的源库驱动
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config 应用配置
type Config struct {
	Env  string
	Port string

	// 关系库（ETL 数据源）
	SourceDriver string
	SourceDSN    string

	// 索引服务
	ESURL          string
	IndexName      string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	ChunkSize      int
	ETLInterval    time.Duration // 0 表示只运行一次

	// 搜索接口缓存
	CacheTTL  time.Duration
	CacheSize int

	// 指标
	PushgatewayURL string
	MetricsJob     string

	// 无法解析的环境变量，Validate 时拒绝
	invalid []string
}

// Load 加载配置
func Load() *Config {
	driver := getEnv("SOURCE_DRIVER", DriverSQLite)

	dsn := getEnv("SOURCE_DSN", "")
	if dsn == "" {
		if driver == DriverPostgres {
			dbUser := getEnv("DB_USER", "postgres")
			dbPass := getEnv("DB_PASSWORD", "postgres")
			dbHost := getEnv("DB_HOST", "localhost")
			dbPort := getEnv("DB_PORT", "5432")
			dbName := getEnv("DB_NAME", "movies")
			dbSSL := getEnv("DB_SSLMODE", "disable")
			dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
				dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)
		} else {
			dsn = "db.sqlite"
		}
	}

	esURL := getEnv("ES_URL", "")
	if esURL == "" {
		esURL = fmt.Sprintf("http://%s:%s", getEnv("ES_HOST", "localhost"), getEnv("ES_PORT", "9200"))
	}

	var invalid []string

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8000"),
		SourceDriver:   driver,
		SourceDSN:      dsn,
		ESURL:          esURL,
		IndexName:      getEnv("ES_INDEX", "movies"),
		ConnectTimeout: getDuration("ES_CONNECT_TIMEOUT", time.Second, &invalid),
		RequestTimeout: getDuration("ES_REQUEST_TIMEOUT", 3050*time.Millisecond, &invalid),
		ChunkSize:      getInt("ETL_CHUNK_SIZE", 0, &invalid),
		ETLInterval:    getDuration("ETL_INTERVAL", 0, &invalid),
		CacheTTL:       getDuration("CACHE_TTL", time.Minute, &invalid),
		CacheSize:      getInt("CACHE_SIZE", 1000, &invalid),
		PushgatewayURL: getEnv("PUSHGATEWAY_URL", ""),
		MetricsJob:     getEnv("METRICS_JOB", "movies_etl"),
	}
	cfg.invalid = invalid
	return cfg
}

// Validate 校验配置
func (c *Config) Validate() error {
	if len(c.invalid) > 0 {
		return fmt.Errorf("环境变量无法解析: %s", strings.Join(c.invalid, ", "))
	}
	switch c.SourceDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("不支持的 SOURCE_DRIVER: %q", c.SourceDriver)
	}
	if c.ESURL == "" {
		return fmt.Errorf("ES_URL 不能为空")
	}
	if c.IndexName == "" {
		return fmt.Errorf("ES_INDEX 不能为空")
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("ETL_CHUNK_SIZE 不能为负数: %d", c.ChunkSize)
	}
	if c.ETLInterval < 0 {
		return fmt.Errorf("ETL_INTERVAL 不能为负数: %v", c.ETLInterval)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("CACHE_SIZE 必须大于 0: %d", c.CacheSize)
	}
	if c.ConnectTimeout <= 0 || c.RequestTimeout <= 0 {
		return fmt.Errorf("ES 超时时间必须大于 0")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int, invalid *[]string) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		log.Printf("[Config] %s 无法解析为整数: %q", key, value)
		*invalid = append(*invalid, key)
		return defaultValue
	}
	return n
}

// getDuration 支持 "3s" 形式，也兼容纯数字秒数（如 "3.05"）
func getDuration(key string, defaultValue time.Duration, invalid *[]string) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	log.Printf("[Config] %s 无法解析为时长: %q", key, value)
	*invalid = append(*invalid, key)
	return defaultValue
}
