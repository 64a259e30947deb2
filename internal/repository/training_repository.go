package repository

import (
	"simco_backend/internal/model"

	"gorm.io/gorm"
)

type TrainingRepository struct {
	DB *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) *TrainingRepository {
	return &TrainingRepository{DB: db}
}

func (r *TrainingRepository) CreateSamples(samples []model.TrainingSample) error {
	if len(samples) == 0 {
		return nil
	}
	return r.DB.CreateInBatches(samples, 100).Error
}

func (r *TrainingRepository) CountSamples() (int64, error) {
	var total int64
	err := r.DB.Model(&model.TrainingSample{}).Count(&total).Error
	return total, err
}

func (r *TrainingRepository) ListAllSamples() ([]model.TrainingSample, error) {
	var samples []model.TrainingSample
	err := r.DB.Order("created_at asc").Find(&samples).Error
	return samples, err
}
