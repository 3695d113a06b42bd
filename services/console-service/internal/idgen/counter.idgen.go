// Package idgen mints the console's sequential identifiers: the date-scoped
// sub-bag AWB and the unscoped manifest franchise (MF) number.
//
// Both counters live in a store.KeyValueStore with no cross-process locking;
// two operators generating at the same moment can collide. Storage failures
// never reach the caller, a deterministic default is returned instead.
package idgen

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/Tanmoy095/LogiSynapse/services/console-service/store"
	"github.com/Tanmoy095/LogiSynapse/shared/logger"
	"go.uber.org/zap"
)

const (
	// SubBagCounterKey holds {"date":"DDMMYYYY","counter":N}.
	SubBagCounterKey = "subBagCounter"
	// ManifestCounterKey holds a bare integer string.
	ManifestCounterKey = "mfNumberCounter"
	// ManifestPrefix starts every MF number.
	ManifestPrefix = "MF"

	dateLayout = "02012006" // DDMMYYYY
)

// counterRecord is the persisted shape of the sub-bag counter.
type counterRecord struct {
	Date    string `json:"date"`
	Counter int    `json:"counter"`
}

// FormatDate renders t as DDMMYYYY in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// NextSubBagAWB returns today's next sub-bag identifier: the DDMMYYYY date
// followed by the zero-padded 4 digit counter. The counter continues from the
// stored record when it is for the same date and resets to 1 otherwise.
// Counters past 9999 keep growing in width rather than wrapping; a counter
// that cannot be incremented without overflow starts over at 1.
func NextSubBagAWB(ctx context.Context, now time.Time, kv store.KeyValueStore, log *zap.Logger) string {
	log = logger.OrNop(log)
	today := FormatDate(now)
	fallback := today + "0001"

	//1. Read the persisted record
	raw, found, err := kv.Get(ctx, SubBagCounterKey)
	if err != nil {
		log.Warn("sub-bag counter read failed, using fallback",
			zap.String("awb", fallback), zap.Error(err))
		return fallback
	}

	//2. Continue the same-day counter, anything else starts over
	counter := 1
	if found {
		var rec counterRecord
		if jsonErr := json.Unmarshal([]byte(raw), &rec); jsonErr != nil {
			log.Debug("corrupt sub-bag counter record, resetting", zap.String("raw", raw), zap.Error(jsonErr))
		} else if rec.Date == today && rec.Counter > 0 && rec.Counter < math.MaxInt {
			counter = rec.Counter + 1
		} else if rec.Date == today && rec.Counter == math.MaxInt {
			log.Warn("sub-bag counter exhausted, resetting", zap.String("raw", raw))
		}
	}

	//3. Persist before handing the identifier out
	b, err := json.Marshal(counterRecord{Date: today, Counter: counter})
	if err != nil {
		log.Warn("sub-bag counter encode failed, using fallback", zap.Error(err))
		return fallback
	}
	if err := kv.Set(ctx, SubBagCounterKey, string(b)); err != nil {
		log.Warn("sub-bag counter write failed, using fallback",
			zap.String("awb", fallback), zap.Error(err))
		return fallback
	}

	return fmt.Sprintf("%s%04d", today, counter)
}

// NextManifestNumber increments the MF counter unconditionally and returns
// "MF" followed by the zero-padded 3 digit value. A missing or corrupt value
// counts as zero.
func NextManifestNumber(ctx context.Context, kv store.KeyValueStore, log *zap.Logger) string {
	log = logger.OrNop(log)
	fallback := fmt.Sprintf("%s%03d", ManifestPrefix, 1)

	raw, found, err := kv.Get(ctx, ManifestCounterKey)
	if err != nil {
		log.Warn("mf counter read failed, using fallback", zap.String("mf", fallback), zap.Error(err))
		return fallback
	}

	current := 0
	if found {
		if n, convErr := strconv.Atoi(raw); convErr == nil && n > 0 && n < math.MaxInt {
			current = n
		} else {
			log.Debug("corrupt mf counter, resetting", zap.String("raw", raw))
		}
	}
	next := current + 1

	if err := kv.Set(ctx, ManifestCounterKey, strconv.Itoa(next)); err != nil {
		log.Warn("mf counter write failed, using fallback", zap.String("mf", fallback), zap.Error(err))
		return fallback
	}
	return fmt.Sprintf("%s%03d", ManifestPrefix, next)
}

// Generator binds the counters to a store and a clock.
type Generator struct {
	kv  store.KeyValueStore
	now func() time.Time
	log *zap.Logger
}

// NewGenerator returns a Generator. A nil now uses time.Now.
func NewGenerator(kv store.KeyValueStore, now func() time.Time, log *zap.Logger) *Generator {
	if now == nil {
		now = time.Now
	}
	log = logger.OrNop(log)
	return &Generator{kv: kv, now: now, log: log}
}

// SubBagAWB returns the next sub-bag identifier for today.
func (g *Generator) SubBagAWB(ctx context.Context) string {
	return NextSubBagAWB(ctx, g.now(), g.kv, g.log)
}

// ManifestNumber returns the next MF number.
func (g *Generator) ManifestNumber(ctx context.Context) string {
	return NextManifestNumber(ctx, g.kv, g.log)
}
