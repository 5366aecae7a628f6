package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"medication-bot/domain"
	"medication-bot/repository"
)

// roundTo1Decimal redondea un float64 a 1 decimal
func roundTo1Decimal(value float64) float64 {
	return math.Round(value*10) / 10
}

// CalculateProgress computes medication progress for a normalized start
// date and a duration in months as of today.
//
// Months are fixed 30-day blocks, so two months from 2025-01-01 end on
// 2025-03-02 rather than 2025-03-01. The start date is interpreted in
// today's location.
func CalculateProgress(startDate string, months int, today time.Time) (domain.ProgressResult, error) {
	start, err := parseDate(startDate, today.Location())
	if err != nil {
		return domain.ProgressResult{}, err
	}
	if months <= 0 || months > MaxMonths {
		return domain.ProgressResult{}, newValidationError(KindInvalidMonths, FieldMonths, strconv.Itoa(months))
	}

	today = midnight(today)
	end := start.AddDate(0, 0, months*DaysPerMonth)

	totalDays := daysBetween(start, end) + 1
	elapsedDays := min(max(daysBetween(start, today)+1, 0), totalDays)

	return domain.ProgressResult{
		StartDate:       start.Format(DateLayout),
		EndDate:         end.Format(DateLayout),
		TotalDays:       totalDays,
		ElapsedDays:     elapsedDays,
		ProgressPercent: roundTo1Decimal(100 * float64(elapsedDays) / float64(totalDays)),
		RemainingDays:   max(daysBetween(today, end), 0),
	}, nil
}

type ProgressService struct {
	cache  repository.CacheRepository
	now    func() time.Time
	loc    *time.Location
	maxTTL time.Duration
}

type Option func(*ProgressService)

// WithClock replaces the system clock used to determine today.
func WithClock(now func() time.Time) Option {
	return func(s *ProgressService) {
		s.now = now
	}
}

// WithLocation sets the time zone in which calendar days are counted.
func WithLocation(loc *time.Location) Option {
	return func(s *ProgressService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithCacheTTL caps how long a cached result lives. Results never outlive
// the day they were computed on.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *ProgressService) {
		s.maxTTL = ttl
	}
}

// NewProgressService creates a ProgressService. cache may be nil.
func NewProgressService(cache repository.CacheRepository, opts ...Option) *ProgressService {
	s := &ProgressService{
		cache: cache,
		now:   time.Now,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current time in the service location.
func (s *ProgressService) Today() time.Time {
	return s.now().In(s.loc)
}

// Evaluate validates raw platform parameters and computes the progress.
// Every validation failure is returned as a *ValidationError.
func (s *ProgressService) Evaluate(ctx context.Context, input domain.ProgressInput) (domain.ProgressResult, error) {
	startRaw := strings.TrimSpace(input.StartDateRaw)

	var missing []string
	if startRaw == "" {
		missing = append(missing, FieldStartDate)
	}
	if isEmptyParam(input.MonthsRaw) {
		missing = append(missing, FieldMonths)
	}
	if len(missing) > 0 {
		return domain.ProgressResult{}, newValidationError(KindMissingInput, strings.Join(missing, ","), "")
	}

	startDate, err := NormalizeDate(startRaw)
	if err != nil {
		return domain.ProgressResult{}, err
	}

	months := ParseMonths(input.MonthsRaw)
	if months <= 0 {
		return domain.ProgressResult{}, newValidationError(KindInvalidMonths, FieldMonths, fmt.Sprint(input.MonthsRaw))
	}

	return s.Calculate(ctx, startDate, months)
}

// Calculate computes progress for a normalized start date, consulting the
// cache first when one is configured.
func (s *ProgressService) Calculate(ctx context.Context, startDate string, months int) (domain.ProgressResult, error) {
	today := s.Today()
	key := cacheKey(today, startDate, months)

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			var result domain.ProgressResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				return result, nil
			}
			log.Printf("Warning: discarding unreadable cache entry %s", key)
		}
	}

	result, err := CalculateProgress(startDate, months, today)
	if err != nil {
		return domain.ProgressResult{}, err
	}

	if s.cache != nil {
		s.store(ctx, key, result, today)
	}
	return result, nil
}

// store guarda el resultado (no crítico si falla)
func (s *ProgressService) store(ctx context.Context, key string, result domain.ProgressResult, today time.Time) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("Warning: failed to encode progress result: %v", err)
		return
	}

	ttl := midnight(today).AddDate(0, 0, 1).Sub(today)
	if s.maxTTL > 0 && s.maxTTL < ttl {
		ttl = s.maxTTL
	}
	if ttl <= 0 {
		return
	}

	if err := s.cache.Set(ctx, key, string(data), ttl); err != nil {
		log.Printf("Warning: failed to cache progress result: %v", err)
	}
}

func cacheKey(today time.Time, startDate string, months int) string {
	return fmt.Sprintf("%s:%s:%s:%d", cacheKeyPrefix, today.Format(DateLayout), startDate, months)
}

func isEmptyParam(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}
