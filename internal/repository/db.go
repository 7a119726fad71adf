package repository

import (
	"shorturl-go/internal/model"
	"shorturl-go/pkg/logging"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// OpenDB connects to MySQL and migrates the two link collections. The handle
// is returned to the caller and injected downstream; nothing in this package
// keeps global connection state.
func OpenDB(dsn string, logger *zap.Logger, atomicLogLevel zap.AtomicLevel) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logging.NewGormLogger(logger, logging.ToGormLogLevel(atomicLogLevel.Level())),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&model.ShortLink{}, &model.CustomLink{}); err != nil {
		return nil, err
	}

	return db, nil
}
