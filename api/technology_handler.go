package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type technologyHandler struct {
	responder      Responder
	logger         zerolog.Logger
	technologyRepo *database.TechnologyRepo
}

func newTechnologyHandler(technologyRepo *database.TechnologyRepo) technologyHandler {
	logger := log.With().Str("handlerName", "technologyHandler").Logger()

	return technologyHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		technologyRepo: technologyRepo,
	}
}

type technologyInput struct {
	Name            string  `json:"name" validate:"required,max=100"`
	Category        string  `json:"category" validate:"required,max=100"`
	Icon            *string `json:"icon" validate:"omitempty,max=2048"`
	Color           *string `json:"color" validate:"omitempty,max=32"`
	ShowInPortfolio *bool   `json:"showInPortfolio"`
}

// getSkills lists every technology
// @Summary List technologies
// @Tags Skills
// @Produce json
// @Success 200 {array} models.Technology
// @Router /api/skills [get]
func (h technologyHandler) getSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		technologies, err := h.technologyRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "technologies", err))
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, technologies)
	}
}

// getMySkills lists the technologies shown in the portfolio
// @Summary List portfolio technologies
// @Tags Skills
// @Produce json
// @Success 200 {array} models.Technology
// @Router /api/my-skills [get]
func (h technologyHandler) getMySkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		technologies, err := h.technologyRepo.FindShownInPortfolio(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "technologies", err))
			return
		}
		h.responder.WriteJSON(w, http.StatusOK, technologies)
	}
}

// createSkill adds a technology to the portfolio. showInPortfolio defaults to true.
// @Summary Create technology
// @Tags Skills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param technology body technologyInput true "Technology"
// @Success 201 {object} models.Technology
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Conflict - Name already taken"
// @Router /api/my-skills [post]
func (h technologyHandler) createSkill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in technologyInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		technology := models.Technology{
			Name:            strings.TrimSpace(in.Name),
			Category:        strings.TrimSpace(in.Category),
			Icon:            in.Icon,
			Color:           in.Color,
			ShowInPortfolio: true,
		}
		if technology.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}
		if in.ShowInPortfolio != nil {
			technology.ShowInPortfolio = *in.ShowInPortfolio
		}

		if err := h.technologyRepo.Add(r.Context(), &technology); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "technology", err))
			return
		}

		h.logger.Info().Uint("technologyID", technology.ID).Str("name", technology.Name).Msg("Technology created")
		h.responder.WriteJSON(w, http.StatusCreated, technology)
	}
}
