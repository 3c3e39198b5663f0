package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	time_parser "taskflow/internal/util/time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gorm_logger "gorm.io/gorm/logger"
)

type documentRow struct {
	Collection string    `gorm:"column:collection;primaryKey;type:text"`
	ID         string    `gorm:"column:id;primaryKey;type:text"`
	Data       []byte    `gorm:"column:data;type:jsonb;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (documentRow) TableName() string {
	return "documents"
}

// PostgresStore keeps every collection in a single jsonb table. Times are
// written in time_parser.SortableLayout so text ordering is time ordering.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gorm_logger.Default.LogMode(gorm_logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	stored := doc.clone()
	if stored == nil {
		stored = Document{}
	}

	id := stored.ID()
	if id == "" {
		id = uuid.New().String()
	}
	stored["id"] = id

	data, err := encodeJSONDocument(stored)
	if err != nil {
		return "", err
	}

	row := documentRow{Collection: collection, ID: id, Data: data, UpdatedAt: time.Now().UTC()}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", fmt.Errorf("%w: %s/%s", ErrAlreadyExists, collection, id)
		}
		return "", err
	}

	return id, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection string, id string) (Document, error) {
	var row documentRow

	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return decodeJSONDocument(row.Data)
}

func (s *PostgresStore) Update(
	ctx context.Context,
	collection string,
	id string,
	patch Patch,
	conditions ...Predicate,
) error {
	if err := validatePredicates(conditions); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row documentRow

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection = ? AND id = ?", collection, id).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		doc, err := decodeJSONDocument(row.Data)
		if err != nil {
			return err
		}

		if !matchesAll(doc, conditions) {
			return ErrConditionFailed
		}

		applyPatch(doc, patch)
		doc["id"] = id

		data, err := encodeJSONDocument(doc)
		if err != nil {
			return err
		}

		return tx.Model(&documentRow{}).
			Where("collection = ? AND id = ?", collection, id).
			Updates(map[string]any{"data": data, "updated_at": time.Now().UTC()}).Error
	})
}

func (s *PostgresStore) Delete(ctx context.Context, collection string, id string) error {
	result := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&documentRow{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStore) Find(ctx context.Context, collection string, query Query) ([]Document, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx).Where("collection = ?", collection)

	for _, p := range query.Predicates {
		condition, args, err := postgresCondition(p)
		if err != nil {
			return nil, err
		}
		db = db.Where(condition, args...)
	}

	if query.OrderBy != "" {
		direction := "ASC"
		if query.Descending {
			direction = "DESC"
		}
		db = db.Order(clause.OrderBy{Expression: clause.Expr{
			SQL:  `(data->>?) COLLATE "C" ` + direction + ` NULLS LAST`,
			Vars: []any{query.OrderBy},
		}})
	}

	if query.Offset > 0 {
		db = db.Offset(query.Offset)
	}
	if query.Limit > 0 {
		db = db.Limit(query.Limit)
	}

	var rows []documentRow
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := decodeJSONDocument(row.Data)
		if err != nil {
			return nil, err
		}
		result = append(result, doc)
	}

	return result, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func (s *PostgresStore) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func postgresCondition(p Predicate) (string, []any, error) {
	value := toJSONValue(normalizeValue(p.Value))

	switch p.Op {
	case OpEqual:
		encoded, err := json.Marshal(value)
		if err != nil {
			return "", nil, err
		}
		return "data->? = ?::jsonb", []any{p.Field, string(encoded)}, nil

	case OpArrayContains, OpNotArrayContains:
		encoded, err := json.Marshal([]any{value})
		if err != nil {
			return "", nil, err
		}
		if p.Op == OpNotArrayContains {
			return "NOT COALESCE(data->? @> ?::jsonb, false)", []any{p.Field, string(encoded)}, nil
		}
		return "data->? @> ?::jsonb", []any{p.Field, string(encoded)}, nil

	case OpIn:
		encoded, err := json.Marshal(value)
		if err != nil {
			return "", nil, err
		}
		return "COALESCE(?::jsonb @> data->?, false)", []any{string(encoded), p.Field}, nil

	case OpGreaterOrEqual, OpLessOrEqual, OpLessThan:
		operator := string(p.Op)
		switch v := value.(type) {
		case int64, float64:
			return "(data->>?)::numeric " + operator + " ?", []any{p.Field, v}, nil
		case string:
			return `(data->>?) COLLATE "C" ` + operator + " ?", []any{p.Field, v}, nil
		}
	}

	return "", nil, fmt.Errorf("%w: unsupported predicate %s %s", ErrInvalidQuery, p.Field, p.Op)
}

// toJSONValue replaces times with their sortable text form.
func toJSONValue(value any) any {
	switch v := value.(type) {
	case time.Time:
		return time_parser.FormatSortable(v)
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, item := range v {
			m[k] = toJSONValue(item)
		}
		return m
	case []any:
		a := make([]any, len(v))
		for i, item := range v {
			a[i] = toJSONValue(item)
		}
		return a
	}

	return value
}

func encodeJSONDocument(doc Document) ([]byte, error) {
	return json.Marshal(toJSONValue(map[string]any(doc.clone())))
}

func decodeJSONDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	return doc, nil
}
