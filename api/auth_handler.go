package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder     Responder
	logger        zerolog.Logger
	authenticator *auth.Authenticator
}

func newAuthHandler(authenticator *auth.Authenticator) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		authenticator: authenticator,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login exchanges credentials for an access token
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "E-mail and password"
// @Success 200 {object} auth.LoginResult
// @Failure 400 {object} ErrorResponse "Missing e-mail or password"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /api/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.authenticator.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			h.logger.Info().Str("email", req.Email).Err(err).Msg("Login rejected")
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Uint("userID", result.User.ID).Msg("User logged in")
		h.responder.WriteJSON(w, http.StatusOK, result)
	}
}
