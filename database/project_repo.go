package database

import (
	"context"
	"errors"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TechnologySelection is the desired technology set of a project: ids of technologies that
// already exist plus names that may still need a row.
type TechnologySelection struct {
	ExistingIDs []uint
	NewNames    []string
}

// ImageSelection is the desired image list of a project.
type ImageSelection struct {
	URLs []string
}

// Relations describes which relation sets a write replaces. A nil member leaves that set as it is.
type Relations struct {
	Technologies *TechnologySelection
	Images       *ImageSelection
}

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Technologies.Technology").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("images.id ASC") })
}

// FindAll returns the projects matching filter, newest first
func (r *ProjectRepo) FindAll(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.WithContext(ctx).
		Scopes(filter.Scope(), withRelations).
		Order("projects.created_at DESC").
		Order("projects.id DESC").
		Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	return findProject(r.db.WithContext(ctx), id)
}

func findProject(db *gorm.DB, id uint) (*models.Project, error) {
	var project models.Project
	err := db.Scopes(withRelations).First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("project")
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Create inserts the project and its relations in one transaction and returns the stored row.
func (r *ProjectRepo) Create(ctx context.Context, project *models.Project, rel Relations) (*models.Project, error) {
	var created *models.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project.Technologies = nil
		project.Images = nil
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		if err := reconcile(tx, project.ID, project.Title, rel); err != nil {
			return err
		}

		var err error
		created, err = findProject(tx, project.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies the column changes and replaces the given relation sets in one transaction.
func (r *ProjectRepo) Update(ctx context.Context, id uint, changes map[string]any, rel Relations) (*models.Project, error) {
	var updated *models.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NewNotFound("project")
			}
			return err
		}

		if len(changes) > 0 {
			if err := tx.Model(&models.Project{ID: id}).Updates(changes).Error; err != nil {
				return err
			}
		}

		title := project.Title
		if t, ok := changes["title"].(string); ok {
			title = t
		}
		if err := reconcile(tx, id, title, rel); err != nil {
			return err
		}

		var err error
		updated, err = findProject(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a project and everything it owns
func (r *ProjectRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.TechnologyOnProject{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NewNotFound("project")
		}
		return nil
	})
}

// reconcile replaces the project's technology links and images wholesale. It must run inside
// the caller's transaction so a failure between delete and recreate rolls back.
func reconcile(tx *gorm.DB, projectID uint, altText string, rel Relations) error {
	if rel.Technologies != nil {
		ids, err := resolveTechnologies(tx, *rel.Technologies)
		if err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", projectID).Delete(&models.TechnologyOnProject{}).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			links := make([]models.TechnologyOnProject, 0, len(ids))
			for _, id := range ids {
				links = append(links, models.TechnologyOnProject{ProjectID: projectID, TechnologyID: id})
			}
			// repeated ids collapse onto the composite key
			if err := tx.Omit("Technology").
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&links).Error; err != nil {
				return err
			}
		}
	}

	if rel.Images != nil {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Image{}).Error; err != nil {
			return err
		}

		images := make([]models.Image, 0, len(rel.Images.URLs))
		for _, url := range rel.Images.URLs {
			if url = strings.TrimSpace(url); url == "" {
				continue
			}
			alt := altText
			images = append(images, models.Image{ProjectID: projectID, URL: url, AltText: &alt})
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// resolveTechnologies inserts the missing names and returns existing ids followed by the ids of
// every named technology.
func resolveTechnologies(tx *gorm.DB, sel TechnologySelection) ([]uint, error) {
	ids := append([]uint(nil), sel.ExistingIDs...)

	names := make([]string, 0, len(sel.NewNames))
	for _, name := range sel.NewNames {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ids, nil
	}

	technologies := make([]models.Technology, 0, len(names))
	for _, name := range names {
		technologies = append(technologies, models.Technology{
			Name:     name,
			Category: models.DefaultTechnologyCategory,
		})
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&technologies).Error; err != nil {
		return nil, err
	}

	var newIDs []uint
	if err := tx.Model(&models.Technology{}).
		Where("name IN ?", names).
		Order("id ASC").
		Pluck("id", &newIDs).Error; err != nil {
		return nil, err
	}

	return append(ids, newIDs...), nil
}
