package database

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type ContactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db}
}

// FindAll returns all contact messages, newest first
func (r *ContactRepo) FindAll(ctx context.Context) ([]models.ContactMessage, error) {
	messages := []models.ContactMessage{}
	err := r.db.WithContext(ctx).Order("enviada_em DESC").Order("id DESC").Find(&messages).Error
	return messages, err
}

// Add stores a new message
func (r *ContactRepo) Add(ctx context.Context, message *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// SetRead updates the read flag and returns the updated message.
func (r *ContactRepo) SetRead(ctx context.Context, id uint, lida bool) (*models.ContactMessage, error) {
	var message models.ContactMessage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&message, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NewNotFound("contact message")
			}
			return err
		}
		message.Lida = lida
		return tx.Model(&message).Update("lida", lida).Error
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}
