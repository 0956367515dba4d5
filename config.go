package lottery

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config 完整配置结构
type Config struct {
	// 揭示动画配置
	Reveal *RevealConfig `mapstructure:"reveal"`

	// 游戏目录配置
	Catalog *CatalogConfig `mapstructure:"catalog"`

	// 语言配置
	Locale *LocaleConfig `mapstructure:"locale"`

	// 日志配置
	Log *LogConfig `mapstructure:"log"`

	// 分享配置
	Share *ShareConfig `mapstructure:"share"`

	// Redis 配置
	Redis *RedisConfig `mapstructure:"redis"`

	// 熔断器配置
	CircuitBreaker *CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Reveal == nil || c.Catalog == nil || c.Locale == nil || c.Log == nil ||
		c.Share == nil || c.Redis == nil || c.CircuitBreaker == nil {
		return ErrConfigInvalid.WithDetails("missing section")
	}

	if err := c.Reveal.Validate(); err != nil {
		return err
	}

	if _, err := language.Parse(c.Locale.Default); err != nil {
		return ErrConfigInvalid.WithDetails(fmt.Sprintf("locale.default %q", c.Locale.Default)).WithCause(err)
	}

	if c.Share.RetryAttempts < 0 || c.Share.RetryAttempts > MaxRetryAttempts {
		return ErrInvalidRetryAttempts
	}
	if c.Share.RetryInterval < 0 {
		return ErrInvalidRetryInterval
	}
	if c.Share.HistorySize <= 0 {
		return ErrConfigInvalid.WithDetails("share history size must be positive")
	}

	if c.Share.Enabled {
		if c.Redis.Addr == "" {
			return ErrConfigInvalid.WithDetails("redis address is required")
		}
		if c.Redis.PoolSize <= 0 {
			return ErrConfigInvalid.WithDetails("redis pool size must be positive")
		}
	}

	if c.CircuitBreaker.Enabled {
		if c.CircuitBreaker.FailureRatio <= 0 || c.CircuitBreaker.FailureRatio > 1 {
			return ErrConfigInvalid.WithDetails("circuit breaker failure ratio must be in (0, 1]")
		}
	}
	return nil
}

// RevealConfig 揭示延迟配置
type RevealConfig struct {
	BallDelay     time.Duration `mapstructure:"ball_delay"`
	WheelDelay    time.Duration `mapstructure:"wheel_delay"`
	ReelDelay     time.Duration `mapstructure:"reel_delay"`
	FinalizeDelay time.Duration `mapstructure:"finalize_delay"`
	ReelFrames    int           `mapstructure:"reel_frames"`
}

// DefaultRevealConfig 返回默认揭示配置
func DefaultRevealConfig() *RevealConfig {
	return &RevealConfig{
		BallDelay:     DefaultBallRevealDelay,
		WheelDelay:    DefaultWheelSpinDelay,
		ReelDelay:     DefaultReelSpinDelay,
		FinalizeDelay: DefaultFinalizeDelay,
		ReelFrames:    DefaultReelFrames,
	}
}

// InstantRevealConfig 无延迟配置, 用于测试和批量生成
func InstantRevealConfig() *RevealConfig {
	return &RevealConfig{ReelFrames: DefaultReelFrames}
}

// Validate 验证延迟范围
func (rc *RevealConfig) Validate() error {
	for name, d := range map[string]time.Duration{
		"ball_delay":     rc.BallDelay,
		"wheel_delay":    rc.WheelDelay,
		"reel_delay":     rc.ReelDelay,
		"finalize_delay": rc.FinalizeDelay,
	} {
		if d < 0 || d > MaxRevealDelay {
			return ErrInvalidDelay.WithDetails(fmt.Sprintf("%s=%v", name, d))
		}
	}
	if rc.ReelFrames < 0 {
		return ErrConfigInvalid.WithDetails("reel_frames cannot be negative")
	}
	return nil
}

// DelayFor 返回模式对应的延迟
func (rc *RevealConfig) DelayFor(mode Mode) time.Duration {
	switch mode {
	case ModeRoulette:
		return rc.WheelDelay
	case ModeSlot:
		return rc.ReelDelay
	default:
		return rc.BallDelay
	}
}

// CatalogConfig 游戏目录配置
type CatalogConfig struct {
	File        string `mapstructure:"file"`         // 可选的 YAML 目录文件
	DefaultGame string `mapstructure:"default_game"` // 覆盖默认游戏
	DefaultMode string `mapstructure:"default_mode"`
}

// LocaleConfig 语言配置
type LocaleConfig struct {
	Default string `mapstructure:"default"`
}

// Tag 返回默认语言标签, 解析失败时为英语
func (lc *LocaleConfig) Tag() language.Tag {
	t, err := language.Parse(lc.Default)
	if err != nil {
		return language.English
	}
	return t
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ShareConfig 分享配置
type ShareConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	TTL           time.Duration `mapstructure:"ttl"`
	HistorySize   int           `mapstructure:"history_size"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// DefaultShareConfig 返回默认分享配置
func DefaultShareConfig() *ShareConfig {
	return &ShareConfig{
		Enabled:       false,
		TTL:           DefaultShareTTL,
		HistorySize:   DefaultShareHistorySize,
		RetryAttempts: DefaultRetryAttempts,
		RetryInterval: DefaultRetryInterval,
	}
}

// RedisConfig Redis 配置
type RedisConfig struct {
	// 连接配置
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// 连接池配置
	PoolSize     int `mapstructure:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns"`
	MaxRetries   int `mapstructure:"max_retries"`

	// 超时配置
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

// DefaultRedisConfig 返回默认的Redis配置
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         DefaultRedisAddr,
		Password:     DefaultRedisPassword,
		DB:           DefaultRedisDB,
		PoolSize:     DefaultRedisPoolSize,
		MinIdleConns: DefaultRedisMinIdleConns,
		MaxRetries:   DefaultRedisMaxRetries,
		DialTimeout:  DefaultRedisDialTimeout,
		ReadTimeout:  DefaultRedisReadTimeout,
		WriteTimeout: DefaultRedisWriteTimeout,
		PoolTimeout:  DefaultRedisPoolTimeout,
	}
}

// NewRedisClientFromConfig 从配置创建Redis客户端
func NewRedisClientFromConfig(config *RedisConfig) *redis.Client {
	if config == nil {
		config = DefaultRedisConfig()
	}

	return redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		PoolTimeout:  config.PoolTimeout,
	})
}

// CircuitBreakerConfig 熔断器配置
type CircuitBreakerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Name          string        `mapstructure:"name"`
	MaxRequests   uint32        `mapstructure:"max_requests"`
	Interval      time.Duration `mapstructure:"interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FailureRatio  float64       `mapstructure:"failure_ratio"`
	MinRequests   uint32        `mapstructure:"min_requests"`
	OnStateChange bool          `mapstructure:"on_state_change"`
}

// DefaultCircuitBreakerConfig 返回默认熔断器配置
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Enabled:       true,
		Name:          DefaultCircuitBreakerName,
		MaxRequests:   DefaultCircuitBreakerMaxRequests,
		Interval:      DefaultCircuitBreakerInterval,
		Timeout:       DefaultCircuitBreakerTimeout,
		FailureRatio:  DefaultCircuitBreakerFailureRatio,
		MinRequests:   DefaultCircuitBreakerMinRequests,
		OnStateChange: DefaultCircuitBreakerOnStateChange,
	}
}

// DefaultConfig 返回完整的默认配置
func DefaultConfig() *Config {
	return &Config{
		Reveal:         DefaultRevealConfig(),
		Catalog:        &CatalogConfig{DefaultMode: string(ModeLottery)},
		Locale:         &LocaleConfig{Default: DefaultLocale},
		Log:            &LogConfig{Level: DefaultLogLevel},
		Share:          DefaultShareConfig(),
		Redis:          DefaultRedisConfig(),
		CircuitBreaker: DefaultCircuitBreakerConfig(),
	}
}

// ConfigManager 配置管理器
type ConfigManager struct {
	viper  *viper.Viper
	mu     sync.RWMutex
	config *Config
	logger Logger
}

// NewConfigManager 创建配置管理器
func NewConfigManager() *ConfigManager {
	v := viper.New()

	// 设置配置文件名和路径
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/lottopick")
	v.AddConfigPath("$HOME/.lottopick")

	// 设置环境变量前缀
	v.SetEnvPrefix("LOTTOPICK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cm := &ConfigManager{viper: v, logger: NewSilentLogger()}
	cm.setDefaults()
	return cm
}

// NewConfigManagerWithFile 使用指定配置文件
func NewConfigManagerWithFile(path string) *ConfigManager {
	cm := NewConfigManager()
	cm.viper.SetConfigFile(path)
	return cm
}

// SetLogger 设置日志记录器, 用于热更新失败时记录
func (cm *ConfigManager) SetLogger(logger Logger) {
	if logger != nil {
		cm.logger = logger
	}
}

// LoadConfig 加载配置
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	if err := cm.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// 配置文件不存在时使用默认值
	}

	config, err := cm.decode()
	if err != nil {
		return nil, err
	}

	cm.mu.Lock()
	cm.config = config
	cm.mu.Unlock()
	return config, nil
}

func (cm *ConfigManager) decode() (*Config, error) {
	config := &Config{}
	if err := cm.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// setDefaults 设置默认配置值
func (cm *ConfigManager) setDefaults() {
	d := DefaultConfig()

	cm.viper.SetDefault("reveal.ball_delay", d.Reveal.BallDelay.String())
	cm.viper.SetDefault("reveal.wheel_delay", d.Reveal.WheelDelay.String())
	cm.viper.SetDefault("reveal.reel_delay", d.Reveal.ReelDelay.String())
	cm.viper.SetDefault("reveal.finalize_delay", d.Reveal.FinalizeDelay.String())
	cm.viper.SetDefault("reveal.reel_frames", d.Reveal.ReelFrames)

	cm.viper.SetDefault("catalog.file", "")
	cm.viper.SetDefault("catalog.default_game", "")
	cm.viper.SetDefault("catalog.default_mode", d.Catalog.DefaultMode)

	cm.viper.SetDefault("locale.default", d.Locale.Default)
	cm.viper.SetDefault("log.level", d.Log.Level)

	cm.viper.SetDefault("share.enabled", d.Share.Enabled)
	cm.viper.SetDefault("share.ttl", d.Share.TTL.String())
	cm.viper.SetDefault("share.history_size", d.Share.HistorySize)
	cm.viper.SetDefault("share.retry_attempts", d.Share.RetryAttempts)
	cm.viper.SetDefault("share.retry_interval", d.Share.RetryInterval.String())

	cm.viper.SetDefault("redis.addr", d.Redis.Addr)
	cm.viper.SetDefault("redis.password", d.Redis.Password)
	cm.viper.SetDefault("redis.db", d.Redis.DB)
	cm.viper.SetDefault("redis.pool_size", d.Redis.PoolSize)
	cm.viper.SetDefault("redis.min_idle_conns", d.Redis.MinIdleConns)
	cm.viper.SetDefault("redis.max_retries", d.Redis.MaxRetries)
	cm.viper.SetDefault("redis.dial_timeout", d.Redis.DialTimeout.String())
	cm.viper.SetDefault("redis.read_timeout", d.Redis.ReadTimeout.String())
	cm.viper.SetDefault("redis.write_timeout", d.Redis.WriteTimeout.String())
	cm.viper.SetDefault("redis.pool_timeout", d.Redis.PoolTimeout.String())

	cm.viper.SetDefault("circuit_breaker.enabled", d.CircuitBreaker.Enabled)
	cm.viper.SetDefault("circuit_breaker.name", d.CircuitBreaker.Name)
	cm.viper.SetDefault("circuit_breaker.max_requests", d.CircuitBreaker.MaxRequests)
	cm.viper.SetDefault("circuit_breaker.interval", d.CircuitBreaker.Interval.String())
	cm.viper.SetDefault("circuit_breaker.timeout", d.CircuitBreaker.Timeout.String())
	cm.viper.SetDefault("circuit_breaker.failure_ratio", d.CircuitBreaker.FailureRatio)
	cm.viper.SetDefault("circuit_breaker.min_requests", d.CircuitBreaker.MinRequests)
	cm.viper.SetDefault("circuit_breaker.on_state_change", d.CircuitBreaker.OnStateChange)
}

// WatchConfig 监听配置文件变化, 新配置通过校验后回调
func (cm *ConfigManager) WatchConfig(callback func(*Config)) {
	cm.viper.OnConfigChange(func(e fsnotify.Event) {
		config, err := cm.decode()
		if err != nil {
			// 记录错误但保留旧配置
			cm.logger.Error("Ignoring config change from %s: %v", e.Name, err)
			return
		}

		cm.mu.Lock()
		cm.config = config
		cm.mu.Unlock()

		cm.logger.Info("Config reloaded from %s (%s)", e.Name, e.Op)
		if callback != nil {
			callback(config)
		}
	})
	cm.viper.WatchConfig()
}

// GetConfig 获取当前配置, 未加载时返回默认配置
func (cm *ConfigManager) GetConfig() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.config == nil {
		return DefaultConfig()
	}
	return cm.config
}

// ReloadConfig 重新加载配置
func (cm *ConfigManager) ReloadConfig() (*Config, error) { return cm.LoadConfig() }
