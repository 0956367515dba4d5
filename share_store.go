package lottery

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisShareStore publishes results to Redis: one key per result with a TTL
// and a capped history list. It is the "native share" path.
type RedisShareStore struct {
	redisClient    *redis.Client
	logger         Logger
	monitor        *PerformanceMonitor
	ttl            time.Duration
	historySize    int
	retryAttempts  int
	retryBaseDelay time.Duration
}

// NewRedisShareStore creates a share store with default TTL, history size and retry settings
func NewRedisShareStore(redisClient *redis.Client, logger Logger) *RedisShareStore {
	return NewRedisShareStoreWithConfig(redisClient, logger, DefaultShareConfig())
}

// NewRedisShareStoreWithConfig creates a share store from ShareConfig
func NewRedisShareStoreWithConfig(redisClient *redis.Client, logger Logger, config *ShareConfig) *RedisShareStore {
	if logger == nil {
		logger = NewSilentLogger()
	}
	if config == nil {
		config = DefaultShareConfig()
	}

	historySize := config.HistorySize
	if historySize <= 0 {
		historySize = DefaultShareHistorySize
	}

	return &RedisShareStore{
		redisClient:    redisClient,
		logger:         logger,
		ttl:            config.TTL,
		historySize:    historySize,
		retryAttempts:  config.RetryAttempts,
		retryBaseDelay: config.RetryInterval,
	}
}

// SetMonitor 设置性能监控器, Redis 错误会被计数
func (s *RedisShareStore) SetMonitor(monitor *PerformanceMonitor) { s.monitor = monitor }

// shareKey returns the Redis key of one share record
func shareKey(id string) string { return ShareKeyPrefix + id }

// Share stores the record once. A second Share with the same id returns ErrShareDuplicate.
func (s *RedisShareStore) Share(ctx context.Context, record *ShareRecord) error {
	data, err := serializeShareRecord(record)
	if err != nil {
		return err
	}

	key := shareKey(record.ID)
	s.logger.Debug("Sharing result: key=%s, game=%s, size=%d bytes, ttl=%v", key, record.GameID, len(data), s.ttl)

	var created bool
	err = s.executeWithRetry(ctx, fmt.Sprintf("share[%s]", key), func() error {
		var setErr error
		created, setErr = s.redisClient.SetNX(ctx, key, data, s.ttl).Result()
		return setErr
	})
	if err != nil {
		return ErrShareFailed.WithOperation("setnx").WithDetails(key).WithCause(err)
	}
	if !created {
		return ErrShareDuplicate.WithDetails(record.ID)
	}

	// 结果本身已写入, 历史记录失败只记录日志
	// LPush 与 LTrim 分开重试, 否则 LTrim 失败会重复追加
	err = s.executeWithRetry(ctx, "share history push", func() error {
		return s.redisClient.LPush(ctx, ShareHistoryKey, data).Err()
	})
	if err != nil {
		s.logger.Error("Failed to append %s to share history: %v", record.ID, err)
	} else {
		err = s.executeWithRetry(ctx, "share history trim", func() error {
			return s.redisClient.LTrim(ctx, ShareHistoryKey, 0, int64(s.historySize-1)).Err()
		})
		if err != nil {
			s.logger.Error("Failed to trim share history: %v", err)
		}
	}

	s.logger.Info("Shared result %s for %s", record.ID, record.GameID)
	return nil
}

// Load returns the shared record with id, or nil when it does not exist or expired
func (s *RedisShareStore) Load(ctx context.Context, id string) (*ShareRecord, error) {
	if id == "" {
		return nil, ErrInvalidParameters.WithDetails("empty share id")
	}

	key := shareKey(id)
	var data []byte
	err := s.executeWithRetry(ctx, fmt.Sprintf("load[%s]", key), func() error {
		var getErr error
		data, getErr = s.redisClient.Get(ctx, key).Bytes()
		if getErr == redis.Nil {
			// 键不存在不是错误, 不重试
			data = nil
			return nil
		}
		return getErr
	})
	if err != nil {
		return nil, ErrShareFailed.WithOperation("get").WithDetails(key).WithCause(err)
	}
	if data == nil {
		return nil, nil
	}
	return deserializeShareRecord(data)
}

// Recent returns up to n most recently shared records. Corrupted entries are skipped.
func (s *RedisShareStore) Recent(ctx context.Context, n int) ([]*ShareRecord, error) {
	if n <= 0 {
		return nil, ErrInvalidCount
	}

	var raw []string
	err := s.executeWithRetry(ctx, "share history range", func() error {
		var rangeErr error
		raw, rangeErr = s.redisClient.LRange(ctx, ShareHistoryKey, 0, int64(n-1)).Result()
		return rangeErr
	})
	if err != nil {
		return nil, ErrShareFailed.WithOperation("lrange").WithCause(err)
	}

	records := make([]*ShareRecord, 0, len(raw))
	for i, item := range raw {
		record, err := deserializeShareRecord([]byte(item))
		if err != nil {
			s.logger.Error("Skipping corrupted share history entry %d: %v", i, err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// executeWithRetry executes a Redis operation with retry logic using exponential backoff
func (s *RedisShareStore) executeWithRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	startTime := time.Now()

	for attempt := 0; attempt <= s.retryAttempts; attempt++ {
		if attempt > 0 {
			// baseDelay * 2^(attempt-1)
			delay := min(time.Duration(1<<(attempt-1))*s.retryBaseDelay, MaxRetryDelay)

			s.logger.Debug("Retrying %s operation (attempt %d/%d) after %v, total elapsed: %v",
				operation, attempt, s.retryAttempts, delay, time.Since(startTime))

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during retry for %s operation after %v (attempt %d/%d): %w",
					operation, time.Since(startTime), attempt, s.retryAttempts+1, ctx.Err())
			case <-time.After(delay):
			}
		}

		err := fn()
		if err == nil {
			if attempt > 0 {
				s.logger.Info("Successfully completed %s operation after %d retries (total time: %v)",
					operation, attempt, time.Since(startTime))
			}
			return nil
		}

		lastErr = err
		if s.monitor != nil {
			s.monitor.RecordRedisError()
		}

		if !IsRetryableError(err) {
			s.logger.Debug("Non-retriable error for %s operation (attempt %d): %v", operation, attempt+1, err)
			break
		}

		if attempt < s.retryAttempts {
			s.logger.Debug("Retriable error for %s operation (attempt %d/%d): %v",
				operation, attempt+1, s.retryAttempts+1, err)
		} else {
			s.logger.Error("Final retry attempt failed for %s operation (attempt %d/%d): %v",
				operation, attempt+1, s.retryAttempts+1, err)
		}
	}

	return fmt.Errorf("%s operation failed after %v: %w", operation, time.Since(startTime), lastErr)
}
