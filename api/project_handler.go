package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
}

func newProjectHandler(projectRepo *database.ProjectRepo) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
	}
}

// technologiesInput picks a project's technologies: ids that already exist plus names that are
// created on the fly when missing.
type technologiesInput struct {
	ExistingIDs []uint   `json:"existingIds"`
	NewNames    []string `json:"newNames" validate:"dive,max=100"`
}

// projectInput is the body of create and update. Pointer fields tell an absent field from an
// empty one.
type projectInput struct {
	Title             *string               `json:"title" validate:"omitempty,min=1,max=200"`
	Description       *string               `json:"description" validate:"omitempty,min=1"`
	LinkRepo          *string               `json:"linkRepo" validate:"omitempty,max=2048"`
	LinkDemo          *string               `json:"linkDemo" validate:"omitempty,max=2048"`
	ProjectDate       *flexibleDate         `json:"projectDate"`
	Proposito         *string               `json:"proposito"`
	Aprendizados      *[]string             `json:"aprendizados"`
	MediaPrincipalURL *string               `json:"media_principal_url" validate:"omitempty,max=2048"`
	Status            *models.ProjectStatus `json:"status"`
	Technologies      *technologiesInput    `json:"technologies"`
	Images            *[]string             `json:"images" validate:"omitempty,dive,max=2048"`
}

func (in projectInput) checkRequired() error {
	switch {
	case in.Title == nil:
		return errs.NewMissingRequiredFieldError("title")
	case in.Description == nil:
		return errs.NewMissingRequiredFieldError("description")
	case in.LinkRepo == nil:
		return errs.NewMissingRequiredFieldError("linkRepo")
	case in.LinkDemo == nil:
		return errs.NewMissingRequiredFieldError("linkDemo")
	case in.ProjectDate == nil:
		return errs.NewMissingRequiredFieldError("projectDate")
	}
	return nil
}

// toProject builds a new project; checkRequired must have passed.
func (in projectInput) toProject() *models.Project {
	project := &models.Project{
		Title:             *in.Title,
		Description:       *in.Description,
		LinkRepo:          *in.LinkRepo,
		LinkDemo:          *in.LinkDemo,
		ProjectDate:       in.ProjectDate.Time,
		Proposito:         in.Proposito,
		MediaPrincipalURL: in.MediaPrincipalURL,
		Status:            models.StatusConcluido,
	}
	if in.Aprendizados != nil {
		project.Aprendizados = datatypes.JSONSlice[string](*in.Aprendizados)
	}
	if in.Status != nil {
		project.Status = *in.Status
	}
	return project
}

// changes lists the columns an update touches.
func (in projectInput) changes() map[string]any {
	changes := map[string]any{}
	if in.Title != nil {
		changes["title"] = *in.Title
	}
	if in.Description != nil {
		changes["description"] = *in.Description
	}
	if in.LinkRepo != nil {
		changes["link_repo"] = *in.LinkRepo
	}
	if in.LinkDemo != nil {
		changes["link_demo"] = *in.LinkDemo
	}
	if in.ProjectDate != nil {
		changes["project_date"] = in.ProjectDate.Time
	}
	if in.Proposito != nil {
		changes["proposito"] = *in.Proposito
	}
	if in.Aprendizados != nil {
		changes["aprendizados"] = datatypes.JSONSlice[string](*in.Aprendizados)
	}
	if in.MediaPrincipalURL != nil {
		changes["media_principal_url"] = *in.MediaPrincipalURL
	}
	if in.Status != nil {
		changes["status"] = *in.Status
	}
	return changes
}

func (in projectInput) relations() database.Relations {
	var rel database.Relations
	if in.Technologies != nil {
		rel.Technologies = &database.TechnologySelection{
			ExistingIDs: in.Technologies.ExistingIDs,
			NewNames:    in.Technologies.NewNames,
		}
	}
	if in.Images != nil {
		rel.Images = &database.ImageSelection{URLs: *in.Images}
	}
	return rel
}

// getAllProjects lists projects, optionally filtered
// @Summary List projects
// @Description Projects newest first. tech is a comma separated list of technology names (any of), year a calendar year, search a case-insensitive substring of title, description or purpose.
// @Tags Projects
// @Produce json
// @Param tech query string false "Technology names, comma separated"
// @Param year query int false "Project year"
// @Param search query string false "Free text"
// @Success 200 {array} models.Project
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid year"
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := database.ParseProjectFilter(r.URL.Query())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projects, err := h.projectRepo.FindAll(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, projects)
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid id"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{id} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uintParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, project)
	}
}

// createProject creates a project together with its technologies and images
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param project body projectInput true "Project data"
// @Success 201 {object} models.Project
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in projectInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := in.checkRequired(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.Create(r.Context(), in.toProject(), in.relations())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		h.logger.Info().Uint("projectID", project.ID).Msg("Project created")
		h.responder.WriteJSON(w, http.StatusCreated, project)
	}
}

// updateProject applies a partial update. technologies and images replace the current sets
// when present and are left alone when absent.
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param project body projectInput true "Fields to change"
// @Success 200 {object} models.Project
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{id} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uintParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in projectInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.Update(r.Context(), id, in.changes(), in.relations())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		h.logger.Info().Uint("projectID", project.ID).Msg("Project updated")
		h.responder.WriteJSON(w, http.StatusOK, project)
	}
}

// deleteProject deletes a project with its images and technology links
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{id} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uintParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		h.logger.Info().Uint("projectID", id).Msg("Project deleted")
		h.responder.WriteMessage(w, http.StatusOK, "Projeto removido com sucesso.")
	}
}
