package lottery

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ShareIDLength is the number of random bytes in a share id
const ShareIDLength = 8

// ShareRecord is one finalized result prepared for sharing
type ShareRecord struct {
	ID        string           `json:"id"`
	GameID    string           `json:"game_id"`
	GameName  string           `json:"game_name"`
	Mode      Mode             `json:"mode"`
	Locale    string           `json:"locale"`
	Numbers   GeneratedNumbers `json:"numbers"`
	Text      string           `json:"text"`
	CreatedAt int64            `json:"created_at"`
}

// NewShareRecord builds the record for a finalized result
func NewShareRecord(id string, game GameProfile, mode Mode, loc *Localizer, numbers GeneratedNumbers) *ShareRecord {
	return &ShareRecord{
		ID:        id,
		GameID:    game.ID,
		GameName:  game.DisplayName(),
		Mode:      mode,
		Locale:    loc.Tag().String(),
		Numbers:   numbers.Sorted(),
		Text:      FormatShareText(loc, numbers),
		CreatedAt: time.Now().Unix(),
	}
}

// Validate 校验分享记录
func (r *ShareRecord) Validate() error {
	if r == nil {
		return ErrInvalidParameters.WithDetails("nil share record")
	}
	if r.ID == "" {
		return ErrShareRecordCorrupted.WithDetails("empty id")
	}
	if len(r.Numbers.MainNumbers) == 0 {
		return ErrShareRecordCorrupted.WithDetails("no main numbers")
	}
	return nil
}

// FormatShareText renders "<main label>: a, b, c" and, when present,
// a second line "<bonus label>: x"
func FormatShareText(loc *Localizer, numbers GeneratedNumbers) string {
	sorted := numbers.Sorted()

	var b strings.Builder
	b.WriteString(loc.T(KeyResultMainNumbers))
	b.WriteString(": ")
	b.WriteString(joinNumbers(sorted.MainNumbers))
	if len(sorted.BonusNumbers) > 0 {
		b.WriteString("\n")
		b.WriteString(loc.T(KeyResultBonusNumbers))
		b.WriteString(": ")
		b.WriteString(joinNumbers(sorted.BonusNumbers))
	}
	return b.String()
}

func joinNumbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

// generateShareID generates a unique share id using timestamp and random bytes
func generateShareID() string {
	timestamp := time.Now().Format("20060102_150405")

	randomBytes := make([]byte, ShareIDLength)
	if _, err := rand.Read(randomBytes); err != nil {
		// 随机数失败时退化为时间戳
		return fmt.Sprintf("%s_%d", timestamp, time.Now().UnixNano()%1000000)
	}
	return timestamp + "_" + hex.EncodeToString(randomBytes)
}

// serializeShareRecord serializes a ShareRecord to JSON bytes
func serializeShareRecord(record *ShareRecord) ([]byte, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, ErrSerializationFailed.WithCause(err)
	}
	if len(data) > MaxShareRecordSize {
		return nil, ErrSerializationFailed.WithDetails(
			fmt.Sprintf("share record %s is %d bytes, limit %d", record.ID, len(data), MaxShareRecordSize))
	}
	return data, nil
}

// deserializeShareRecord deserializes JSON bytes back to ShareRecord
func deserializeShareRecord(data []byte) (*ShareRecord, error) {
	if len(data) == 0 {
		return nil, ErrInvalidParameters
	}

	var record ShareRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrDeserializationFailed.WithCause(err)
	}
	if err := record.Validate(); err != nil {
		return nil, ErrShareRecordCorrupted.WithCause(err)
	}
	return &record, nil
}

// ClipboardSharer copies share text. The last copied text is kept in memory
// and, when a writer is set, also written there.
type ClipboardSharer struct {
	mu   sync.Mutex
	w    io.Writer
	last string
}

// NewClipboardSharer creates a clipboard. w may be nil.
func NewClipboardSharer(w io.Writer) *ClipboardSharer {
	return &ClipboardSharer{w: w}
}

// Share copies record.Text
func (c *ClipboardSharer) Share(_ context.Context, record *ShareRecord) error {
	if record == nil {
		return ErrInvalidParameters.WithDetails("nil share record")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.last = record.Text
	if c.w == nil {
		return nil
	}
	if _, err := io.WriteString(c.w, record.Text+"\n"); err != nil {
		return ErrShareFailed.WithDetails("clipboard write").WithCause(err)
	}
	return nil
}

// Last returns the most recently copied text
func (c *ClipboardSharer) Last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// FallbackSharer tries the primary path and silently falls back to the secondary
// one. Only a failure of the fallback is returned.
type FallbackSharer struct {
	primary  Sharer
	fallback Sharer
	logger   Logger
}

// NewFallbackSharer creates a two-path sharer. A nil primary always uses fallback.
func NewFallbackSharer(primary, fallback Sharer, logger Logger) *FallbackSharer {
	if logger == nil {
		logger = NewSilentLogger()
	}
	return &FallbackSharer{primary: primary, fallback: fallback, logger: logger}
}

// Share publishes through primary, then fallback
func (f *FallbackSharer) Share(ctx context.Context, record *ShareRecord) error {
	if record == nil {
		return ErrInvalidParameters.WithDetails("nil share record")
	}
	if f.primary != nil {
		err := f.primary.Share(ctx, record)
		if err == nil || errors.Is(err, ErrShareDuplicate) {
			return nil
		}
		f.logger.Info("Primary share failed for %s, falling back: %v", record.ID, err)
	}

	if f.fallback == nil {
		return ErrShareFailed.WithDetails("no fallback configured")
	}
	return f.fallback.Share(ctx, record)
}
