// Package main is the entry point for the loan-request-service application.
//
// @title           Loan Request Service API
// @version         1.0.0
// @description     Backend for the school equipment loan request form.
//
//	The service loads the equipment inventory, matches typed names against it and
//	sends one loan request per cart item to the inventory API.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/loan-request-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for administrative routes. Required if authentication is enabled.
//
// @tag.name        Products
// @tag.description Equipment inventory and name matching
//
// @tag.name        Sessions
// @tag.description Loan request form sessions
//
// @tag.name        Submissions
// @tag.description Submission audit trail
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	_ "github.com/guttosm/loan-request-service/docs" // swagger docs

	"github.com/guttosm/loan-request-service/config"
	"github.com/guttosm/loan-request-service/internal/app"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg := config.Load()

	ctx := context.Background()

	application := app.InitializeApp(ctx, cfg)
	server := app.NewServer(application.Router, cfg.Server)

	if err := server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Server error")
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := application.Close(closeCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown error")
	}
}
