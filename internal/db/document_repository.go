package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terraincognita07/lunacycle/internal/models"
	"github.com/terraincognita07/lunacycle/internal/tracing"
)

type periodDocumentRecord struct {
	UserKey   string    `gorm:"column:user_key;primaryKey"`
	Payload   string    `gorm:"column:payload"`
	Revision  int       `gorm:"column:revision"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (periodDocumentRecord) TableName() string {
	return "period_documents"
}

// DocumentRepository stores one JSON period document per user key.
type DocumentRepository struct {
	database *gorm.DB
	now      func() time.Time
}

func NewDocumentRepository(database *gorm.DB) *DocumentRepository {
	return &DocumentRepository{database: database, now: time.Now}
}

func (repo *DocumentRepository) Read(ctx context.Context, key string) (models.PeriodDocument, bool, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "db.periodDocuments.read")
	defer span.End()
	span.SetAttributes(tracing.UserKey(key))

	record := periodDocumentRecord{}
	result := repo.database.WithContext(ctx).
		Where("user_key = ?", key).
		Limit(1).
		Find(&record)
	if result.Error != nil {
		tracing.Fail(span, "select period document", result.Error)
		return models.PeriodDocument{}, false, fmt.Errorf("select period document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.PeriodDocument{}, false, nil
	}

	document, err := models.DecodePeriodDocument([]byte(record.Payload))
	if err != nil {
		tracing.Fail(span, "decode period document", err)
		return models.PeriodDocument{}, false, err
	}
	return document, true, nil
}

func (repo *DocumentRepository) Write(ctx context.Context, key string, document models.PeriodDocument) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "db.periodDocuments.write")
	defer span.End()
	span.SetAttributes(tracing.UserKey(key))

	payload, err := models.EncodePeriodDocument(document)
	if err != nil {
		tracing.Fail(span, "encode period document", err)
		return err
	}

	record := periodDocumentRecord{
		UserKey:   key,
		Payload:   string(payload),
		Revision:  1,
		UpdatedAt: repo.now().UTC(),
	}
	err = repo.database.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"payload":    record.Payload,
				"updated_at": record.UpdatedAt,
				"revision":   gorm.Expr("period_documents.revision + 1"),
			}),
		}).
		Create(&record).Error
	if err != nil {
		tracing.Fail(span, "upsert period document", err)
		return fmt.Errorf("upsert period document: %w", err)
	}
	return nil
}

// Revision reports how many times the document for key has been written.
func (repo *DocumentRepository) Revision(ctx context.Context, key string) (int, error) {
	record := periodDocumentRecord{}
	result := repo.database.WithContext(ctx).
		Select("revision").
		Where("user_key = ?", key).
		Limit(1).
		Find(&record)
	if result.Error != nil {
		return 0, result.Error
	}
	return record.Revision, nil
}
