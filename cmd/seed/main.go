package main

import (
	"context"
	"log"

	"cortex-analyst-be/internal/config"
	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/repository/unitofwork"
	"cortex-analyst-be/pkg/database"
)

// demo registry for local runs against a fresh database
var demoApp = entity.App{
	Name:     "Sales Analyst",
	Active:   true,
	Database: "ANALYTICS",
	Schema:   "SALES",
	Stage:    "SEMANTIC_MODELS",
}

var demoModels = []entity.SemanticModel{
	{Name: "Revenue", File: "revenue.yaml", Active: true},
	{Name: "Customers", File: "customers.yaml", Active: true},
}

var demoKeyQuestions = []string{
	"What was total revenue last month?",
	"Which region grew fastest this year?",
	"Who are our top 10 customers by revenue?",
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.NewGormDBFromDSN(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	apps, err := uow.AppRepository().FindAll(ctx)
	if err != nil {
		log.Fatalf("Error: Failed to list apps: %v", err)
	}
	for _, a := range apps {
		if a.Name == demoApp.Name {
			log.Printf("App '%s' already exists (id %d), skipping...", a.Name, a.Id)
			return
		}
	}

	log.Println("Seeding demo app...")
	if err := uow.Begin(ctx); err != nil {
		log.Fatalf("Error: Failed to begin transaction: %v", err)
	}

	app := demoApp
	if err := seed(ctx, uow, &app, cfg.Feedback.SharedUsername, cfg.Feedback.DefaultLang); err != nil {
		_ = uow.Rollback()
		log.Fatalf("Error: seeding failed: %v", err)
	}
	if err := uow.Commit(); err != nil {
		log.Fatalf("Error: Failed to commit: %v", err)
	}

	log.Printf("Created app: %s (id %d) with %d models and %d key questions", app.Name, app.Id, len(demoModels), len(demoKeyQuestions))
}

func seed(ctx context.Context, uow unitofwork.UnitOfWork, app *entity.App, sharedUsername, lang string) error {
	if err := uow.AppRepository().Create(ctx, app); err != nil {
		return err
	}
	for _, m := range demoModels {
		m.AppId = app.Id
		if err := uow.SemanticModelRepository().Create(ctx, &m); err != nil {
			return err
		}
	}
	for _, q := range demoKeyQuestions {
		bk := &entity.Bookmark{AppId: app.Id, Username: sharedUsername, Question: q, Lang: lang}
		if err := uow.BookmarkRepository().Create(ctx, bk); err != nil {
			return err
		}
	}
	return nil
}
