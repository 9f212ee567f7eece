package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 存储驱动
const (
	StoreDriverSheets   = "sheets"
	StoreDriverXLSX     = "xlsx"
	StoreDriverPostgres = "postgres"
)

// Config 应用全局配置结构体
// 进程启动时加载一次，之后只读
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Sheets    SheetsConfig    `mapstructure:"sheets"`
	XLSX      XLSXConfig      `mapstructure:"xlsx"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Form      FormConfig      `mapstructure:"form"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port           int        `mapstructure:"port"`
	BaseURL        string     `mapstructure:"base_url"`
	BodyLimitBytes int64      `mapstructure:"body_limit_bytes"`
	CORS           CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// StoreConfig 培训申请落地存储选择
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

// SheetsConfig Google Sheets 存储配置
// SpreadsheetID 为空时按 SpreadsheetName 通过 Drive 查找；Worksheet 为空时写入第一个工作表
type SheetsConfig struct {
	SpreadsheetName string   `mapstructure:"spreadsheet_name"`
	SpreadsheetID   string   `mapstructure:"spreadsheet_id"`
	Worksheet       string   `mapstructure:"worksheet"`
	CredentialsFile string   `mapstructure:"credentials_file"`
	Scopes          []string `mapstructure:"scopes"`
}

// XLSXConfig 本地 Excel 工作簿存储配置
type XLSXConfig struct {
	Path  string `mapstructure:"path"`
	Sheet string `mapstructure:"sheet"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 分钟
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置（仅用于提交限流，可关闭）
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig 提交接口限流配置
type RateLimitConfig struct {
	SubmitLimit int           `mapstructure:"submit_limit"`
	Window      time.Duration `mapstructure:"window"`
}

// FormConfig 表单相关配置
type FormConfig struct {
	Timezone        string `mapstructure:"timezone"`
	OrganizerEmail  string `mapstructure:"organizer_email"`
	CalendarSummary string `mapstructure:"calendar_summary"`
}

// Location 解析表单使用的时区，"今天"按该时区计算
func (c *FormConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultScopes 与服务账号授权时声明的访问范围一致
var DefaultScopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive",
}

// Load 从 .env、配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.body_limit_bytes", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:8080"})

	v.SetDefault("store.driver", StoreDriverSheets)

	v.SetDefault("sheets.spreadsheet_name", "Customer Training Requests")
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.worksheet", "")
	v.SetDefault("sheets.credentials_file", "credentials.json")
	v.SetDefault("sheets.scopes", DefaultScopes)

	v.SetDefault("xlsx.path", "training_requests.xlsx")
	v.SetDefault("xlsx.sheet", "Sheet1")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "training_portal")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 5)
	v.SetDefault("db.max_idle_conns", 2)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.submit_limit", 10)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("form.timezone", "")
	v.SetDefault("form.organizer_email", "")
	v.SetDefault("form.calendar_summary", "SupportLogic Training")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("TRAINING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}

	switch c.Store.Driver {
	case StoreDriverSheets:
		if c.Sheets.CredentialsFile == "" {
			return fmt.Errorf("配置校验失败: sheets.credentials_file 不能为空")
		}
		if c.Sheets.SpreadsheetID == "" && c.Sheets.SpreadsheetName == "" {
			return fmt.Errorf("配置校验失败: sheets.spreadsheet_id 与 sheets.spreadsheet_name 不能同时为空")
		}
		if len(c.Sheets.Scopes) == 0 {
			return fmt.Errorf("配置校验失败: sheets.scopes 不能为空")
		}
	case StoreDriverXLSX:
		if c.XLSX.Path == "" {
			return fmt.Errorf("配置校验失败: xlsx.path 不能为空")
		}
	case StoreDriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("配置校验失败: db.host 与 db.name 不能为空")
		}
	default:
		return fmt.Errorf("配置校验失败: 未知的 store.driver %q", c.Store.Driver)
	}

	if _, err := c.Form.Location(); err != nil {
		return fmt.Errorf("配置校验失败: form.timezone 无效: %w", err)
	}

	return nil
}
