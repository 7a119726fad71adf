package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shorturl-go/constant"
	"shorturl-go/internal/model"

	"github.com/go-sql-driver/mysql"
	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry is the server error for a violated unique constraint.
const mysqlDuplicateEntry = 1062

// GormStore is the MySQL-backed resolution store, fronted by an optional
// redis cache for resolutions. Cache failures degrade to the database; they
// are logged and never surfaced.
type GormStore struct {
	db     *gorm.DB
	cache  *redis.Pool
	logger *zap.Logger
}

// NewGormStore builds a store around an open gorm handle. cache may be nil to
// disable resolution caching.
func NewGormStore(db *gorm.DB, cache *redis.Pool, logger *zap.Logger) *GormStore {
	return &GormStore{db: db, cache: cache, logger: logger}
}

func (s *GormStore) Lookup(ctx context.Context, code string) (*Record, error) {
	if rec, hit := s.cacheGet(code); hit {
		if rec == nil {
			return nil, ErrNotFound
		}
		return rec, nil
	}

	// Custom codes shadow generated ones: the ordered queries are the
	// precedence policy.
	var custom model.CustomLink
	err := s.db.WithContext(ctx).
		Where("LOWER(code) = LOWER(?)", code).
		First(&custom).Error
	if err == nil {
		rec := customToRecord(&custom)
		s.cacheSet(code, rec)
		return rec, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var generated model.ShortLink
	err = s.db.WithContext(ctx).
		Where("LOWER(code) = LOWER(?)", code).
		First(&generated).Error
	if err == nil {
		rec := generatedToRecord(&generated)
		s.cacheSet(code, rec)
		return rec, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Cache the miss too, against resolution storms on dead codes.
	s.cacheSet(code, nil)
	return nil, ErrNotFound
}

func (s *GormStore) RecordClick(ctx context.Context, collection Collection, code string) error {
	// The increment happens inside the database so concurrent clicks on the
	// same code never lose updates.
	tx := s.db.WithContext(ctx).
		Model(collectionModel(collection)).
		Where("LOWER(code) = LOWER(?)", code).
		Updates(map[string]interface{}{
			"click_count":     gorm.Expr("click_count + 1"),
			"last_clicked_at": time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Exists(ctx context.Context, collection Collection, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(collectionModel(collection)).
		Where("LOWER(code) = LOWER(?)", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) Insert(ctx context.Context, collection Collection, rec *Record) error {
	now := time.Now()
	if rec.LastClickedAt.IsZero() {
		// A never-clicked record inherits its creation time as activity
		// time, so the sweeper retires it one month after creation.
		rec.LastClickedAt = now
	}

	var err error
	switch collection {
	case Custom:
		err = s.db.WithContext(ctx).Create(recordToCustom(rec)).Error
	default:
		err = s.db.WithContext(ctx).Create(recordToGenerated(rec)).Error
	}
	if isDuplicateEntry(err) {
		return ErrDuplicateCode
	}
	if err != nil {
		return err
	}

	// A cached miss for this code is now stale.
	s.cacheInvalidate(rec.Code)
	return nil
}

func (s *GormStore) UpsertCustom(ctx context.Context, ownerID string, rec *Record) error {
	var staleCodes []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The target code must not belong to someone else.
		var byCode model.CustomLink
		err := tx.Where("LOWER(code) = LOWER(?)", rec.Code).First(&byCode).Error
		if err == nil && byCode.OwnerID != ownerID {
			return ErrCodeInUse
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now()

		var existing model.CustomLink
		err = tx.Where("owner_id = ?", ownerID).First(&existing).Error
		switch {
		case err == nil:
			// Overwrite in place: code, destination and title change,
			// created_at resets, the click counter survives.
			staleCodes = append(staleCodes, existing.Code, rec.Code)
			existing.Code = rec.Code
			existing.DestinationURL = rec.DestinationURL
			existing.Title = rec.Title
			existing.CreatedAt = now
			existing.LastClickedAt = now
			return tx.Save(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			link := recordToCustom(rec)
			link.OwnerID = ownerID
			link.LastClickedAt = now
			staleCodes = append(staleCodes, rec.Code)
			return tx.Create(link).Error
		default:
			return err
		}
	})
	if isDuplicateEntry(err) {
		// Lost the race for the code between the check and the write.
		return ErrCodeInUse
	}
	if err != nil {
		return err
	}

	s.cacheInvalidate(staleCodes...)
	return nil
}

func (s *GormStore) DeleteCustom(ctx context.Context, ownerID string) error {
	var existing model.CustomLink
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&existing).Error; err != nil {
		return err
	}

	s.cacheInvalidate(existing.Code)
	return nil
}

func (s *GormStore) SweepExpired(ctx context.Context, cutoff time.Time) (*SweepResult, error) {
	result := &SweepResult{}

	var generated []model.ShortLink
	if err := s.db.WithContext(ctx).
		Where("last_clicked_at < ?", cutoff).
		Find(&generated).Error; err != nil {
		return nil, err
	}
	if len(generated) > 0 {
		if err := s.db.WithContext(ctx).Delete(&generated).Error; err != nil {
			return nil, err
		}
		for _, link := range generated {
			result.Generated = append(result.Generated, link.Code)
		}
	}

	var custom []model.CustomLink
	if err := s.db.WithContext(ctx).
		Where("last_clicked_at < ?", cutoff).
		Find(&custom).Error; err != nil {
		return nil, err
	}
	if len(custom) > 0 {
		if err := s.db.WithContext(ctx).Delete(&custom).Error; err != nil {
			return nil, err
		}
		for _, link := range custom {
			result.Custom = append(result.Custom, link.Code)
		}
	}

	s.cacheInvalidate(append(result.Generated, result.Custom...)...)
	return result, nil
}

// ListGenerated returns one owner's generated links, newest first.
func (s *GormStore) ListGenerated(ctx context.Context, ownerID string, limit, offset int) ([]*Record, int64, error) {
	db := s.db.WithContext(ctx).Model(&model.ShortLink{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var links []model.ShortLink
	if err := db.Limit(limit).Offset(offset).Order("id DESC").Find(&links).Error; err != nil {
		return nil, 0, err
	}

	records := make([]*Record, 0, len(links))
	for i := range links {
		records = append(records, generatedToRecord(&links[i]))
	}
	return records, total, nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

func collectionModel(collection Collection) interface{} {
	if collection == Custom {
		return &model.CustomLink{}
	}
	return &model.ShortLink{}
}

func generatedToRecord(link *model.ShortLink) *Record {
	return &Record{
		Collection:     Generated,
		Code:           link.Code,
		DestinationURL: link.DestinationURL,
		OwnerID:        link.OwnerID,
		Title:          link.Title,
		ClickCount:     link.ClickCount,
		CreatedAt:      link.CreatedAt,
		LastClickedAt:  link.LastClickedAt,
	}
}

func customToRecord(link *model.CustomLink) *Record {
	return &Record{
		Collection:     Custom,
		Code:           link.Code,
		DestinationURL: link.DestinationURL,
		OwnerID:        link.OwnerID,
		Title:          link.Title,
		ClickCount:     link.ClickCount,
		CreatedAt:      link.CreatedAt,
		LastClickedAt:  link.LastClickedAt,
	}
}

func recordToGenerated(rec *Record) *model.ShortLink {
	return &model.ShortLink{
		Code:           rec.Code,
		DestinationURL: rec.DestinationURL,
		OwnerID:        rec.OwnerID,
		Title:          rec.Title,
		LastClickedAt:  rec.LastClickedAt,
	}
}

func recordToCustom(rec *Record) *model.CustomLink {
	return &model.CustomLink{
		Code:           rec.Code,
		DestinationURL: rec.DestinationURL,
		OwnerID:        rec.OwnerID,
		Title:          rec.Title,
		LastClickedAt:  rec.LastClickedAt,
	}
}

// cacheGet returns (record, true) on a positive hit, (nil, true) on a cached
// miss, and (nil, false) when the cache has nothing to say.
func (s *GormStore) cacheGet(code string) (*Record, bool) {
	if s.cache == nil {
		return nil, false
	}

	conn := s.cache.Get()
	defer s.closeConn(conn)

	value, err := redis.Bytes(conn.Do("GET", constant.GetResolutionKey(code)))
	if err != nil {
		if !errors.Is(err, redis.ErrNil) {
			s.logger.Warn("resolution cache read failed",
				zap.String("code", code),
				zap.Error(err))
		}
		return nil, false
	}

	if len(value) == 0 {
		return nil, true
	}

	var rec Record
	if err := json.Unmarshal(value, &rec); err != nil {
		s.logger.Warn("resolution cache entry corrupt",
			zap.String("code", code),
			zap.Error(err))
		return nil, false
	}
	return &rec, true
}

func (s *GormStore) cacheSet(code string, rec *Record) {
	if s.cache == nil {
		return
	}

	conn := s.cache.Get()
	defer s.closeConn(conn)

	key := constant.GetResolutionKey(code)
	if rec == nil {
		if _, err := conn.Do("SET", key, "", "EX", constant.NegativeTTL); err != nil {
			s.logger.Warn("resolution cache write failed", zap.String("key", key), zap.Error(err))
		}
		return
	}

	value, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if _, err := conn.Do("SET", key, value, "EX", constant.ResolutionTTL); err != nil {
		s.logger.Warn("resolution cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *GormStore) cacheInvalidate(codes ...string) {
	if s.cache == nil || len(codes) == 0 {
		return
	}

	conn := s.cache.Get()
	defer s.closeConn(conn)

	for _, code := range codes {
		if _, err := conn.Do("DEL", constant.GetResolutionKey(code)); err != nil {
			s.logger.Warn("resolution cache invalidation failed",
				zap.String("code", code),
				zap.Error(err))
		}
	}
}

func (s *GormStore) closeConn(conn redis.Conn) {
	if err := conn.Close(); err != nil {
		s.logger.Warn("Redis connection close failed", zap.Error(err))
	}
}
