package api

import (
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Database      database.Database
	Tokens        *auth.TokenCodec
	Authenticator *auth.Authenticator
	Notifier      services.ContactNotifier
	// Images is optional; the upload route is only mounted when it is set.
	Images ImageStore
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies) *routeHandlers {
	handlers := &routeHandlers{
		authHandler:       newAuthHandler(deps.Authenticator),
		projectHandler:    newProjectHandler(deps.Database.ProjectRepo()),
		technologyHandler: newTechnologyHandler(deps.Database.TechnologyRepo()),
		contactHandler:    newContactHandler(deps.Database.ContactRepo(), deps.Notifier),
	}
	if deps.Images != nil {
		handlers.uploadHandler = newUploadHandler(deps.Images)
	}
	return handlers
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
