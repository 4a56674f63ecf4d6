package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quiz-admin/internal/cache"
	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"
	"quiz-admin/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const DefaultAnalyticsTTL = 5 * time.Minute

// AnalyticsService computes the admin dashboard summary.
type AnalyticsService interface {
	GetAnalytics(ctx context.Context) (*dto.AnalyticsResponse, error)
	// Invalidate drops the cached summary. Failures are only logged.
	Invalidate(ctx context.Context)
}

type analyticsService struct {
	repo  domain.AnalyticsRepository
	cache domain.Cache
	ttl   time.Duration
	group singleflight.Group
}

// NewAnalyticsService creates the service. cache may be nil to always compute.
func NewAnalyticsService(repo domain.AnalyticsRepository, cache domain.Cache, ttl time.Duration) AnalyticsService {
	if ttl <= 0 {
		ttl = DefaultAnalyticsTTL
	}
	return &analyticsService{repo: repo, cache: cache, ttl: ttl}
}

func (s *analyticsService) GetAnalytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	key := cache.AnalyticsSummaryKey()

	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		summary, err := s.compute(ctx)
		if err != nil {
			return nil, err
		}
		s.store(ctx, key, summary)
		return summary, nil
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to compute analytics", err)
	}
	return v.(*dto.AnalyticsResponse), nil
}

func (s *analyticsService) fromCache(ctx context.Context, key string) *dto.AnalyticsResponse {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Analytics cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var summary dto.AnalyticsResponse
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		logger.Get().Warn("Discarding unreadable analytics cache entry", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &summary
}

func (s *analyticsService) store(ctx context.Context, key string, summary *dto.AnalyticsResponse) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		logger.Get().Error("Failed to encode analytics for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
		logger.Get().Warn("Analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// compute runs the four aggregate queries concurrently.
func (s *analyticsService) compute(ctx context.Context) (*dto.AnalyticsResponse, error) {
	var (
		quizzes, questions, users int
		distribution              domain.DifficultyDistribution
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		quizzes, err = s.repo.CountQuizzes(gctx)
		return err
	})
	g.Go(func() (err error) {
		questions, err = s.repo.CountQuestions(gctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.repo.CountUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		distribution, err = s.repo.CountQuestionsByDifficulty(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byLevel := make(map[string]int, len(domain.Difficulties))
	for _, d := range domain.Difficulties {
		byLevel[string(d)] = distribution[d]
	}
	return &dto.AnalyticsResponse{
		TotalQuizzes:           quizzes,
		TotalQuestions:         questions,
		TotalUsers:             users,
		DifficultyDistribution: byLevel,
	}, nil
}

func (s *analyticsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.AnalyticsSummaryKey()); err != nil {
		logger.Get().Warn("Failed to invalidate analytics cache", zap.Error(err))
	}
}
