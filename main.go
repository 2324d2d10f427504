package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"travelbot-backend/auth"
	"travelbot-backend/bot"
	"travelbot-backend/cache"
	"travelbot-backend/conn"
	"travelbot-backend/dashboard"
	"travelbot-backend/expenses"
	"travelbot-backend/itinerary"
	"travelbot-backend/migrations"
	"travelbot-backend/openai"
	"travelbot-backend/payments"
	"travelbot-backend/scheduler"
	"travelbot-backend/trips"
	"travelbot-backend/users"
	"travelbot-backend/webchat"
	"travelbot-backend/whatsapp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[main][env] no .env file, using process environment")
	}

	db, err := conn.NewMySQL()
	if err != nil {
		log.Fatalf("[main][db_failed] err=%v", err)
	}
	migrations.Init(db)
	if err := migrations.Migrate(); err != nil {
		log.Fatalf("[main][migrate_failed] err=%v", err)
	}

	ai := openai.NewClient()
	redis := cache.NewFromEnv()

	userRepo := users.NewRepository(db)
	tripRepo := trips.NewRepository(db)
	expenseRepo := expenses.NewRepository(db)
	chatRepo := webchat.NewRepository(db)

	tokens := auth.NewTokens()
	generator := itinerary.NewGenerator(ai, redis)
	ocr := expenses.NewOCRService(context.Background(), expenseRepo)

	router := bot.NewRouter(userRepo, tripRepo, expenseRepo, ai, generator, tokens, auth.DashboardURL)

	meta := whatsapp.NewMetaProviderFromEnv()
	chatProvider := webchat.NewProvider(chatRepo)

	stripeSvc := payments.NewFromEnv(userRepo)
	if stripeSvc == nil {
		log.Printf("[main][stripe] disabled, STRIPE_SECRET_KEY not set")
	}

	r := gin.Default()

	users.NewHandler(userRepo).RegisterRoutes(r)
	trips.NewHandler(tripRepo, generator).RegisterRoutes(r)
	expenses.NewHandler(expenseRepo, ocr).RegisterRoutes(r)
	whatsapp.NewHandler(userRepo, router, meta).RegisterRoutes(r)
	webchat.NewHandler(chatRepo, userRepo, router, chatProvider).RegisterRoutes(r)
	auth.NewHandler(userRepo, tokens, redis, meta).RegisterRoutes(r)
	dashboard.NewHandler(tokens, userRepo, tripRepo, expenseRepo).RegisterRoutes(r)
	payments.NewHandler(stripeSvc).RegisterRoutes(r)

	scheduler.New(scheduler.NewDBState(db), userRepo, chatRepo).Start()

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Printf("[main][listening] port=%s whatsapp_configured=%v", port, meta.IsConfigured())
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("[main][server_failed] err=%v", err)
	}
}
