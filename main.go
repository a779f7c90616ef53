package main

import (
	"github.com/Tamurbek/dacha-bron/config"
	"github.com/Tamurbek/dacha-bron/models"
	"github.com/Tamurbek/dacha-bron/routes"
	"github.com/Tamurbek/dacha-bron/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Listing{},
		&models.Booking{},
		&models.Review{},
		&models.Amenity{},
		&models.Setting{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
