package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"

	"clubreview/internal/database"
	"clubreview/internal/handlers"
	"clubreview/internal/middleware"
	"clubreview/internal/repositories"
	"clubreview/internal/services"
	"clubreview/pkg/rabbitmq"

	"github.com/spf13/viper"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "clubreview.db")
	viper.SetDefault("JWT_SECRET", "supersecretkey")
	viper.SetDefault("TOKEN_TTL_MINUTES", 60)
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("SEED_DB", false)
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")
	tokenTTL := time.Duration(viper.GetInt("TOKEN_TTL_MINUTES")) * time.Minute

	// --- Database ---
	db, err := database.Open(viper.GetString("DB_DRIVER"), viper.GetString("DB_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	// Event publishing is best-effort; with no broker configured the services
	// simply skip it.
	var mqClient *rabbitmq.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Printf("Warning: failed to initialize RabbitMQ client, events disabled: %v", err)
			mqClient = nil
		} else {
			defer mqClient.Close()
		}
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	clubRepo := repositories.NewGORMClubRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	tagRepo := repositories.NewGORMTagRepository(db)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, jwtSecret, tokenTTL)
	clubService := services.NewClubService(clubRepo, userRepo, mqClient)
	reviewService := services.NewReviewService(reviewRepo, clubRepo, mqClient)
	tagService := services.NewTagService(tagRepo)
	userService := services.NewUserService(userRepo)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	clubHandler := handlers.NewClubHandler(clubService, reviewService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	tagHandler := handlers.NewTagHandler(tagService)
	userHandler := handlers.NewUserHandler(userService, reviewService, authService)

	// --- Seed data ---
	if viper.GetBool("SEED_DB") {
		seedData(authService, clubService)
	}

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New())

	// --- Base routes ---
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Welcome to Penn Club Review!")
	})

	// --- API Routes ---
	api := app.Group("/api")
	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to the Penn Club Review API!."})
	})

	authGuard := middleware.AuthRequired(authService)
	authHandler.RegisterRoutes(api, authGuard)
	clubHandler.RegisterRoutes(api, authGuard)
	reviewHandler.RegisterRoutes(api, authGuard)
	tagHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api, authGuard)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for club events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received %s event (Tag: %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeClubEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// seedData populates a fresh database with a starter user and a few clubs so
// the API has something to serve out of the box.
func seedData(authService *services.AuthService, clubService *services.ClubService) {
	if _, err := authService.RegisterUser("josh", "password123"); err != nil {
		log.Printf("Error seeding user josh: %v", err)
	} else {
		log.Println("Seeded user: josh")
	}

	clubs := []struct {
		name        string
		code        string
		description string
		tags        []string
	}{
		{"Penn Labs", "pennlabs", "Student-run software development organization.", []string{"Technology", "Community Service"}},
		{"Penn Club Golf", "pcgolf", "Golf for players of all levels.", []string{"Athletics"}},
		{"Penn Debate Society", "penndebate", "Competitive parliamentary debate.", []string{"Academic"}},
	}
	for _, club := range clubs {
		if _, err := clubService.CreateClub(club.name, club.code, club.description, club.tags); err != nil {
			log.Printf("Error seeding club %s: %v", club.name, err)
		} else {
			log.Printf("Seeded club: %s (code: %s)", club.name, club.code)
		}
	}
}
