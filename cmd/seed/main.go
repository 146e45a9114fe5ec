package main

import (
	"context"
	"flag"
	"log"

	"family-board/internal/config"
	"family-board/internal/logger"
	"family-board/internal/model"
	"family-board/internal/repository"

	"github.com/joho/godotenv"
)

func main() {
	configFile := flag.String("config", "etc/config-dev.yaml", "config file")
	force := flag.Bool("force", false, "seed even if categories already exist")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(config.LogConfig{Level: "info", Console: true})

	cfg := config.Load(*configFile)
	db, err := cfg.OpenGormDB()
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatal("migrate failed:", err)
	}

	n, err := repository.NewCategoryRepo(db).Count()
	if err != nil {
		log.Fatal(err)
	}
	if n > 0 && !*force {
		logger.Info("seed: data already present, nothing to do", "categories", n)
		return
	}

	ctx := context.Background()

	// Step 1: accounts + categories
	who, err := seedPeople(ctx, db)
	if err != nil {
		log.Fatal("users failed:", err)
	}
	cats, err := seedCategories(ctx, db)
	if err != nil {
		log.Fatal("categories failed:", err)
	}

	// Step 2: posts + surveys
	if err := seedBoards(ctx, db, who, cats); err != nil {
		log.Fatal("boards failed:", err)
	}
	if err := seedSurveys(ctx, db, who); err != nil {
		log.Fatal("surveys failed:", err)
	}

	logger.Info("=== seed done ===")
}
