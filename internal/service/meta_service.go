package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edufin/finboard-backend/internal/config"
	"github.com/edufin/finboard-backend/internal/model"
	"github.com/edufin/finboard-backend/internal/repository"
)

// MetaService serves the campus/course-type dictionary behind a Redis cache.
// The dictionary is read on every dashboard load, so cache misses fall back
// to Postgres and repopulate the cache.
type MetaService struct {
	dictRepo *repository.DictionaryRepository
	rdb      *redis.Client
	cfg      *config.Config
	log      zerolog.Logger
}

// NewMetaService creates a new MetaService.
func NewMetaService(dictRepo *repository.DictionaryRepository, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *MetaService {
	return &MetaService{dictRepo: dictRepo, rdb: rdb, cfg: cfg, log: log}
}

// GetMeta returns the dictionary, preferring the cache.
func (s *MetaService) GetMeta(ctx context.Context) (*model.MetaData, error) {
	key := config.CacheKey.MetaDictionaryKey()

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		meta := &model.MetaData{}
		if err := json.Unmarshal([]byte(cached), meta); err == nil {
			return meta, nil
		}
		s.log.Warn().Msg("Discarding unreadable meta cache entry")
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down should not take the dictionary with it.
		s.log.Warn().Err(err).Msg("Meta cache read failed, falling back to database")
	}

	return s.Refresh(ctx)
}

// Refresh reloads the dictionary from the database and repopulates the cache.
func (s *MetaService) Refresh(ctx context.Context) (*model.MetaData, error) {
	campuses, err := s.dictRepo.ListCampuses(ctx)
	if err != nil {
		return nil, err
	}
	courseTypes, err := s.dictRepo.ListCourseTypeCodes(ctx)
	if err != nil {
		return nil, err
	}

	meta := &model.MetaData{Campuses: campuses, CourseTypes: courseTypes}

	if payload, err := json.Marshal(meta); err == nil {
		key := config.CacheKey.MetaDictionaryKey()
		if err := s.rdb.Set(ctx, key, payload, s.cfg.MetaCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Meta cache write failed")
		}
	}
	return meta, nil
}
