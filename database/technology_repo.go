package database

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type TechnologyRepo struct {
	db *gorm.DB
}

func NewTechnologyRepo(db *gorm.DB) *TechnologyRepo {
	return &TechnologyRepo{db}
}

// FindAll returns every technology ordered by id
func (r *TechnologyRepo) FindAll(ctx context.Context) ([]models.Technology, error) {
	technologies := []models.Technology{}
	err := r.db.WithContext(ctx).Order("id ASC").Find(&technologies).Error
	return technologies, err
}

// FindShownInPortfolio returns the technologies flagged for the portfolio skills section
func (r *TechnologyRepo) FindShownInPortfolio(ctx context.Context) ([]models.Technology, error) {
	technologies := []models.Technology{}
	err := r.db.WithContext(ctx).
		Where("show_in_portfolio = ?", true).
		Order("id ASC").
		Find(&technologies).Error
	return technologies, err
}

// FindByName returns the technology with exactly this name.
func (r *TechnologyRepo) FindByName(ctx context.Context, name string) (*models.Technology, error) {
	var technology models.Technology
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&technology).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("technology")
	}
	if err != nil {
		return nil, err
	}
	return &technology, nil
}

// Add inserts a technology; a duplicate name is a conflict.
func (r *TechnologyRepo) Add(ctx context.Context, technology *models.Technology) error {
	_, err := r.FindByName(ctx, technology.Name)
	switch {
	case err == nil:
		return errs.NewAlreadyExists("technology")
	case !errs.IsNotFound(err):
		return err
	}
	return r.db.WithContext(ctx).Create(technology).Error
}
