package implementation

import (
	"context"
	"errors"

	"model-notes-be/internal/entity"
	"model-notes-be/internal/mapper"
	"model-notes-be/internal/model"
	"model-notes-be/internal/pkg/logger"
	"model-notes-be/internal/repository/contract"
	"model-notes-be/internal/repository/specification"
	"model-notes-be/pkg/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const noteRepositoryModule = "NoteRepository"

type NoteRepositoryImpl struct {
	conn   *database.Conn
	mapper *mapper.NoteMapper
	logger logger.ILogger
}

func NewNoteRepository(conn *database.Conn, log logger.ILogger) contract.NoteRepository {
	return &NoteRepositoryImpl{
		conn:   conn,
		mapper: mapper.NewNoteMapper(),
		logger: log,
	}
}

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// logFailure records the statement and its bound values so a failed write can
// be replayed by hand.
func (r *NoteRepositoryImpl) logFailure(res *gorm.DB) {
	details := map[string]interface{}{"error": res.Error.Error()}
	if res.Statement != nil {
		details["query"] = res.Statement.SQL.String()
		details["data"] = res.Statement.Vars
	}
	r.logger.Error(noteRepositoryModule, "Statement failed", details)
}

func (r *NoteRepositoryImpl) Upsert(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	return r.conn.Do(ctx, func(db *gorm.DB) error {
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "model_hash"}},
			DoUpdates: clause.AssignmentColumns([]string{"note", "model_type"}),
		}).Create(m)
		if res.Error != nil {
			r.logFailure(res)
			return res.Error
		}
		return nil
	})
}

func (r *NoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	var m model.Note
	err := r.conn.Do(ctx, func(db *gorm.DB) error {
		res := r.applySpecifications(db, specs...).First(&m)
		if res.Error != nil && !errors.Is(res.Error, gorm.ErrRecordNotFound) {
			r.logFailure(res)
		}
		return res.Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var models []*model.Note
	err := r.conn.Do(ctx, func(db *gorm.DB) error {
		res := r.applySpecifications(db, specs...).Find(&models)
		if res.Error != nil {
			r.logFailure(res)
		}
		return res.Error
	})
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	err := r.conn.Do(ctx, func(db *gorm.DB) error {
		res := r.applySpecifications(db.Model(&model.Note{}), specs...).Count(&count)
		if res.Error != nil {
			r.logFailure(res)
		}
		return res.Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
