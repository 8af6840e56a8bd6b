package api

import (
	"time"

	"github.com/rpupo63/project-showcase-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, sessions SessionResolver, startupTime time.Time, maxBodyBytes int64) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(database.ProjectRepo(), sessions, newBodyValidator(maxBodyBytes)),
		healthHandler:  newHealthHandler(database, startupTime),
	}
}
