package main

import (
	"os"

	"github.com/yigit/enrollment/internal/pkg/logger"
	"github.com/yigit/enrollment/internal/server"
)

// @title School Enrollment API
// @version 1.0
// @description Backend for the school enrollment form: application sections, documents, financing, risk checks and payments.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Identity provider JWT, sent as "Bearer <token>"

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Setup functions log their own details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
