package repositoryImp

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"krishibondhu/entities"
	"krishibondhu/pkg/persist/repository"
)

type kvRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.KVRepository { return &kvRepo{db} }

func (r *kvRepo) Get(key string) (string, bool, error) {
	var e entities.LocalEntry
	err := r.db.Where(`"key" = ?`, key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

func (r *kvRepo) Put(key, value string) error {
	e := entities.LocalEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (r *kvRepo) DeleteAll() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.LocalEntry{}).Error
}
