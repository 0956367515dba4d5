package lottery

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"math/rand/v2"
	"runtime"
	"strings"
	"time"
)

// ErrorCode 错误代码类型
type ErrorCode string

// 错误代码常量
const (
	// 系统级错误 (1000-1999)
	ErrCodeSystem          ErrorCode = "LOTTOPICK_1000"
	ErrCodeRedisConnection ErrorCode = "LOTTOPICK_1001"
	ErrCodeRedisTimeout    ErrorCode = "LOTTOPICK_1002"
	ErrCodeConfigInvalid   ErrorCode = "LOTTOPICK_1004"
	ErrCodeRandomSource    ErrorCode = "LOTTOPICK_1006"

	// 参数与配置错误 (2000-2999)
	ErrCodeInvalidParameters    ErrorCode = "LOTTOPICK_2000"
	ErrCodeInvalidRange         ErrorCode = "LOTTOPICK_2001"
	ErrCodeInvalidCount         ErrorCode = "LOTTOPICK_2002"
	ErrCodeRangeExhausted       ErrorCode = "LOTTOPICK_2003"
	ErrCodeInvalidProfile       ErrorCode = "LOTTOPICK_2004"
	ErrCodeGameNotFound         ErrorCode = "LOTTOPICK_2005"
	ErrCodeDuplicateGame        ErrorCode = "LOTTOPICK_2006"
	ErrCodeUnknownMode          ErrorCode = "LOTTOPICK_2007"
	ErrCodeInvalidDelay         ErrorCode = "LOTTOPICK_2008"
	ErrCodeInvalidRetryAttempts ErrorCode = "LOTTOPICK_2011"
	ErrCodeInvalidRetryInterval ErrorCode = "LOTTOPICK_2012"

	// 揭示流程错误 (3000-3999)
	ErrCodeRevealInProgress ErrorCode = "LOTTOPICK_3000"
	ErrCodeRevealComplete   ErrorCode = "LOTTOPICK_3001"
	ErrCodeRevealCancelled  ErrorCode = "LOTTOPICK_3002"
	ErrCodeNoResult         ErrorCode = "LOTTOPICK_3003"

	// 熔断相关错误 (5000-5999)
	ErrCodeCircuitBreakerOpen ErrorCode = "LOTTOPICK_5002"

	// 分享与序列化错误 (6000-6999)
	ErrCodeShareFailed           ErrorCode = "LOTTOPICK_6000"
	ErrCodeShareDuplicate        ErrorCode = "LOTTOPICK_6001"
	ErrCodeShareRecordCorrupted  ErrorCode = "LOTTOPICK_6003"
	ErrCodeSerializationFailed   ErrorCode = "LOTTOPICK_6004"
	ErrCodeDeserializationFailed ErrorCode = "LOTTOPICK_6005"
)

// ErrorSeverity 错误严重程度
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "critical"
	SeverityHigh     ErrorSeverity = "high"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityLow      ErrorSeverity = "low"
	SeverityInfo     ErrorSeverity = "info"
)

// LotteryError 带错误码的错误类型
type LotteryError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Details    string         `json:"details,omitempty"`
	Severity   ErrorSeverity  `json:"severity"`
	Timestamp  time.Time      `json:"timestamp"`
	Operation  string         `json:"operation,omitempty"`
	StackTrace string         `json:"stack_trace,omitempty"`
	Cause      error          `json:"-"`
	Retryable  bool           `json:"retryable"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Error 实现 error 接口
func (e *LotteryError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap 接口
func (e *LotteryError) Unwrap() error {
	return e.Cause
}

// Is 按错误码匹配, 因此 errors.Is(err, ErrRangeExhausted) 对带详情的副本同样成立
func (e *LotteryError) Is(target error) bool {
	if t, ok := target.(*LotteryError); ok {
		return e.Code == t.Code
	}
	return false
}

// clone 返回浅拷贝, 预定义错误实例不会被 With* 修改
func (e *LotteryError) clone() *LotteryError {
	c := *e
	c.Timestamp = time.Now()
	if e.Metadata != nil {
		c.Metadata = maps.Clone(e.Metadata)
	}
	return &c
}

// WithCause 添加原因错误
func (e *LotteryError) WithCause(cause error) *LotteryError {
	c := e.clone()
	c.Cause = cause
	return c
}

// WithDetails 添加详细信息
func (e *LotteryError) WithDetails(details string) *LotteryError {
	c := e.clone()
	c.Details = details
	return c
}

// WithOperation 添加操作信息
func (e *LotteryError) WithOperation(operation string) *LotteryError {
	c := e.clone()
	c.Operation = operation
	return c
}

// WithMetadata 添加元数据
func (e *LotteryError) WithMetadata(key string, value any) *LotteryError {
	c := e.clone()
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
	return c
}

// WithStackTrace 添加堆栈跟踪
func (e *LotteryError) WithStackTrace() *LotteryError {
	c := e.clone()
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	c.StackTrace = string(buf[:n])
	return c
}

// NewError 创建新的错误
func NewError(code ErrorCode, message string) *LotteryError {
	return &LotteryError{
		Code:      code,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
		Retryable: false,
	}
}

// NewRetryableError 创建可重试的错误
func NewRetryableError(code ErrorCode, message string) *LotteryError {
	return &LotteryError{
		Code:      code,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
		Retryable: true,
	}
}

// NewCriticalError 创建严重错误
func NewCriticalError(code ErrorCode, message string) *LotteryError {
	return &LotteryError{
		Code:      code,
		Message:   message,
		Severity:  SeverityCritical,
		Timestamp: time.Now(),
		Retryable: false,
	}
}

// 预定义的错误实例
var (
	// 系统级错误
	ErrSystemError           = NewCriticalError(ErrCodeSystem, "system error occurred")
	ErrRedisConnectionFailed = NewRetryableError(ErrCodeRedisConnection, "Redis connection failed")
	ErrRedisTimeout          = NewRetryableError(ErrCodeRedisTimeout, "Redis operation timeout")
	ErrConfigInvalid         = NewCriticalError(ErrCodeConfigInvalid, "configuration is invalid")
	ErrRandomSource          = NewCriticalError(ErrCodeRandomSource, "random source failed")

	// 参数与配置错误
	ErrInvalidParameters    = NewError(ErrCodeInvalidParameters, "invalid parameters provided")
	ErrInvalidRange         = NewError(ErrCodeInvalidRange, "invalid range: min must be less than or equal to max")
	ErrInvalidCount         = NewError(ErrCodeInvalidCount, "invalid count: must be greater than 0")
	ErrRangeExhausted       = NewError(ErrCodeRangeExhausted, "count exceeds the number of distinct values in range")
	ErrInvalidProfile       = NewError(ErrCodeInvalidProfile, "invalid game profile")
	ErrGameNotFound         = NewError(ErrCodeGameNotFound, "game profile not found")
	ErrDuplicateGame        = NewError(ErrCodeDuplicateGame, "duplicate game profile id")
	ErrUnknownMode          = NewError(ErrCodeUnknownMode, "unknown presentation mode")
	ErrInvalidDelay         = NewError(ErrCodeInvalidDelay, "invalid delay: must be between 0 and 30s")
	ErrInvalidRetryAttempts = NewError(ErrCodeInvalidRetryAttempts, "invalid retry attempts: must be between 0 and 10")
	ErrInvalidRetryInterval = NewError(ErrCodeInvalidRetryInterval, "invalid retry interval: cannot be negative")

	// 揭示流程错误
	ErrRevealInProgress = NewError(ErrCodeRevealInProgress, "a reveal is already in progress")
	ErrRevealComplete   = NewError(ErrCodeRevealComplete, "all numbers have been revealed")
	ErrRevealCancelled  = NewError(ErrCodeRevealCancelled, "reveal cancelled by reset")
	ErrNoResult         = NewError(ErrCodeNoResult, "no finalized result yet")

	// 熔断相关错误
	ErrCircuitBreakerOpen = NewRetryableError(ErrCodeCircuitBreakerOpen, "circuit breaker is open")

	// 分享与序列化错误
	ErrShareFailed           = NewRetryableError(ErrCodeShareFailed, "failed to share result")
	ErrShareDuplicate        = NewError(ErrCodeShareDuplicate, "result already shared")
	ErrShareRecordCorrupted  = NewError(ErrCodeShareRecordCorrupted, "share record is corrupted")
	ErrSerializationFailed   = NewError(ErrCodeSerializationFailed, "serialization failed")
	ErrDeserializationFailed = NewError(ErrCodeDeserializationFailed, "deserialization failed")
)

// ErrorHandler 错误处理器接口
type ErrorHandler interface {
	HandleError(ctx context.Context, err error) error
	ShouldRetry(err error) bool
	GetRetryDelay(attempt int, err error) time.Duration
}

// DefaultErrorHandler 默认错误处理器
type DefaultErrorHandler struct {
	logger        Logger
	baseDelay     time.Duration
	maxDelay      time.Duration
	backoffFactor float64
}

// NewDefaultErrorHandler 创建默认错误处理器
func NewDefaultErrorHandler(logger Logger, baseDelay time.Duration) *DefaultErrorHandler {
	if baseDelay <= 0 {
		baseDelay = DefaultRetryInterval
	}
	return &DefaultErrorHandler{
		logger:        logger,
		baseDelay:     baseDelay,
		maxDelay:      MaxRetryDelay,
		backoffFactor: 2.0,
	}
}

// HandleError 将任意错误转换为 LotteryError 并记录日志
func (h *DefaultErrorHandler) HandleError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var lotteryErr *LotteryError
	if !errors.As(err, &lotteryErr) {
		lotteryErr = NewError(ErrCodeSystem, err.Error()).WithCause(err)
		if IsRetryableError(err) {
			lotteryErr.Retryable = true
		}
	}

	h.logError(lotteryErr)
	return lotteryErr
}

// ShouldRetry 判断是否应该重试
func (h *DefaultErrorHandler) ShouldRetry(err error) bool {
	var lotteryErr *LotteryError
	if errors.As(err, &lotteryErr) {
		return lotteryErr.Retryable
	}
	return IsRetryableError(err)
}

// GetRetryDelay 指数退避, 带 ±25% 抖动
func (h *DefaultErrorHandler) GetRetryDelay(attempt int, _ error) time.Duration {
	if attempt <= 0 {
		return h.baseDelay
	}

	delay := time.Duration(float64(h.baseDelay) * math.Pow(h.backoffFactor, float64(attempt-1)))

	jitter := time.Duration(float64(delay) * 0.25 * (2*rand.Float64() - 1))
	delay += jitter

	if delay > h.maxDelay {
		delay = h.maxDelay
	}
	return delay
}

func (h *DefaultErrorHandler) logError(err *LotteryError) {
	if h.logger == nil {
		return
	}

	switch err.Severity {
	case SeverityCritical, SeverityHigh:
		h.logger.Error("%s error: %s", err.Severity, err.Error())
	case SeverityMedium:
		h.logger.Error("error: %s", err.Error())
	default:
		h.logger.Info("%s error: %s", err.Severity, err.Error())
	}
}

// IsRetryableError 检查是否为可重试错误
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var lotteryErr *LotteryError
	if errors.As(err, &lotteryErr) && lotteryErr.Retryable {
		return true
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"network is unreachable",
		"temporary failure",
		"server closed",
		"broken pipe",
		"i/o timeout",
		"dial tcp",
		"read tcp",
		"write tcp",
		"connection timed out",
		"no route to host",
		"host is down",
		"connection aborted",
		"operation timed out",
		"redis: connection pool timeout",
		"context deadline exceeded",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// ErrorRecovery 错误恢复策略
type ErrorRecovery struct {
	handler    ErrorHandler
	maxRetries int
	logger     Logger
}

// NewErrorRecovery 创建错误恢复策略
func NewErrorRecovery(handler ErrorHandler, maxRetries int, logger Logger) *ErrorRecovery {
	return &ErrorRecovery{
		handler:    handler,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// ExecuteWithRetry 执行带重试的操作
func (r *ErrorRecovery) ExecuteWithRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	startTime := time.Now()

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			delay := r.handler.GetRetryDelay(attempt, lastErr)
			r.logger.Debug("Retrying %s (attempt %d/%d) after %v, elapsed: %v",
				operation, attempt, r.maxRetries, delay, time.Since(startTime))

			select {
			case <-ctx.Done():
				return NewError(ErrCodeSystem, "operation cancelled during retry").
					WithOperation(operation).WithCause(ctx.Err())
			case <-time.After(delay):
			}
		}

		err := fn()
		if err == nil {
			if attempt > 0 {
				r.logger.Info("%s succeeded after %d retries in %v", operation, attempt, time.Since(startTime))
			}
			return nil
		}

		lastErr = err
		if !r.handler.ShouldRetry(err) {
			r.logger.Debug("Non-retriable error for %s (attempt %d): %v", operation, attempt+1, err)
			break
		}
	}

	return fmt.Errorf("%s failed after %v: %w", operation, time.Since(startTime), r.handler.HandleError(ctx, lastErr))
}
