package app

import (
	"fmt"

	"github.com/hiringbull/server/api"
	"github.com/hiringbull/server/config"
	"github.com/hiringbull/server/database"
	"github.com/hiringbull/server/router"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Defer Closing DB
	defer store.Close()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes (includes the security middleware stack)
	router.SetupRoutes(app, store)

	// Get the PORT & Start the Server
	return server.Run()
}
