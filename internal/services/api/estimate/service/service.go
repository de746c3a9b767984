// Package service runs the estimator behind an optional cache
package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"taxintake/internal/core/salary"
	"taxintake/internal/platform/logger"
	"taxintake/internal/services/api/estimate/domain"
)

// Service is the estimate service contract
type Service interface {
	domain.Estimator
}

// Svc implements Service
type Svc struct {
	cache domain.Cache
	ttl   time.Duration
}

// New builds the service. cache may be nil
func New(cache domain.Cache, ttl time.Duration) *Svc {
	return &Svc{cache: cache, ttl: ttl}
}

// Key is the cache key for in. the four inputs fully determine the result
func Key(in salary.EstimateInput) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return "estimate:v1:" + strings.Join([]string{
		f(in.AnnualRevenue), f(in.SimilarPositionSalary), f(in.YearsExperience), f(in.HoursWorkedPerWeek),
	}, ":")
}

// Estimate answers from the cache when it can. cache failures are logged and
// the estimate is computed anyway
func (s *Svc) Estimate(ctx context.Context, in salary.EstimateInput) (domain.Output, error) {
	if s.cache == nil {
		return domain.NewOutput(salary.Estimate(in)), nil
	}

	log := logger.C(ctx)
	key := Key(in)
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("estimate cache get failed")
	} else if ok {
		var r salary.EstimateResult
		if err := json.Unmarshal([]byte(raw), &r); err == nil {
			out := domain.NewOutput(r)
			out.Cached = true
			return out, nil
		}
		log.Warn().Str("key", key).Msg("estimate cache entry unreadable")
	}

	r := salary.Estimate(in)
	if b, err := json.Marshal(r); err == nil {
		if err := s.cache.Set(ctx, key, string(b), s.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("estimate cache set failed")
		}
	}
	return domain.NewOutput(r), nil
}
