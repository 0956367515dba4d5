package lottery

import "time"

const (
	// DefaultBallRevealDelay is the pause before the ball machine shows the next ball
	DefaultBallRevealDelay = 800 * time.Millisecond

	// DefaultWheelSpinDelay is how long one roulette spin lasts
	DefaultWheelSpinDelay = 3 * time.Second

	// DefaultReelSpinDelay is how long the slot reels spin before stopping
	DefaultReelSpinDelay = 1500 * time.Millisecond

	// DefaultFinalizeDelay is the pause between completion and surfacing the final result
	DefaultFinalizeDelay = 500 * time.Millisecond

	// MaxRevealDelay is the upper bound accepted for any artificial delay
	MaxRevealDelay = 30 * time.Second

	// WheelMainSegments is the maximum number of main-pool segments on the wheel
	WheelMainSegments = 15

	// WheelBonusSegments is the maximum number of bonus-pool segments on the wheel
	WheelBonusSegments = 5

	// WheelMinSpins and WheelSpinJitter define 5-7 full turns per spin
	WheelMinSpins   = 5
	WheelSpinJitter = 3

	// DefaultReelFrames is the number of symbols a reel shows while spinning
	DefaultReelFrames = 12

	// DefaultFastRandomGeneratorCacheSize is the number of floats pre-generated by SecureRandomGenerator
	DefaultFastRandomGeneratorCacheSize = 256
)

const (
	// DefaultRetryAttempts is the default number of retry attempts
	DefaultRetryAttempts = 3

	// DefaultRetryInterval is the default interval between retry attempts
	DefaultRetryInterval = 100 * time.Millisecond

	// MaxRetryAttempts is the maximum number of retry attempts allowed
	MaxRetryAttempts = 10

	// MaxRetryDelay caps the exponential backoff between retries
	MaxRetryDelay = 5 * time.Second

	// ShareKeyPrefix is the prefix for Redis keys holding one shared result
	ShareKeyPrefix = "lottopick:share:"

	// ShareHistoryKey is the Redis list with the most recently shared results
	ShareHistoryKey = "lottopick:share:history"

	// DefaultShareTTL is how long a shared result stays addressable by id
	DefaultShareTTL = 24 * time.Hour

	// DefaultShareHistorySize is the number of entries kept in the share history list
	DefaultShareHistorySize = 100

	// MaxShareRecordSize is the maximum allowed size for a serialized share record (64KB)
	MaxShareRecordSize = 64 * 1024
)

const (
	// DefaultCircuitBreakerName is the default name for Circuit Breaker
	DefaultCircuitBreakerName = "lottopick-share"

	// DefaultCircuitBreakerMaxRequests is the default max requests
	DefaultCircuitBreakerMaxRequests = 3

	// DefaultCircuitBreakerInterval is the default interval
	DefaultCircuitBreakerInterval = 60 * time.Second

	// DefaultCircuitBreakerTimeout is the default timeout
	DefaultCircuitBreakerTimeout = 30 * time.Second

	// DefaultCircuitBreakerFailureRatio is the default failure ratio
	DefaultCircuitBreakerFailureRatio = 0.6

	// DefaultCircuitBreakerMinRequests is the default min requests
	DefaultCircuitBreakerMinRequests = 3

	// DefaultCircuitBreakerOnStateChange is the default on state change
	DefaultCircuitBreakerOnStateChange = true
)

const (
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisPassword     = ""
	DefaultRedisDB           = 0
	DefaultRedisPoolSize     = 10
	DefaultRedisMinIdleConns = 2
	DefaultRedisMaxRetries   = 3
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
	DefaultRedisPoolTimeout  = 4 * time.Second
)

const (
	// DefaultLocale is used when a country has no dedicated translation
	DefaultLocale = "en"

	// DefaultLogLevel is the logrus level used by DefaultLogger
	DefaultLogLevel = "info"
)
