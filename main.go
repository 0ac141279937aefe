package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskhub/internal/handlers"
	"taskhub/internal/middleware"
	"taskhub/internal/models"
	"taskhub/internal/repositories"
	"taskhub/internal/services"
	"taskhub/internal/views"
	"taskhub/pkg/events"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "taskhub.db")
	viper.SetDefault("SESSION_SECRET", "change-me-in-production")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables event publishing
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	sessionSecret := viper.GetString("SESSION_SECRET")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	// --- Database ---
	db, err := openDatabase(viper.GetString("DB_DRIVER"), viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Event Publishing (optional) ---
	var mqClient *events.Client
	if rabbitMQURL != "" {
		mqClient, err = events.NewClient(events.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	taskRepo := repositories.NewGORMTaskRepository(db)

	// Optionally seed an admin account from the environment.
	seedAdminUser(userRepo,
		viper.GetString("ADMIN_USERNAME"),
		viper.GetString("ADMIN_EMAIL"),
		viper.GetString("ADMIN_PASSWORD"))

	// --- Services ---
	authService := services.NewAuthService(userRepo, sessionSecret)
	taskService := services.NewTaskService(taskRepo, mqClient)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// --- Fiber App ---
	app := fiber.New(fiber.Config{
		Views:        views.Engine(),
		ViewsLayout:  "layouts/main",
		ErrorHandler: handlers.ErrorHandler,
	})

	// --- Middleware ---
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(middleware.LoadUser(authService))

	// --- Routes ---
	authHandler.RegisterRoutes(app, middleware.AnonymousOnly(), middleware.RequireUser())
	taskHandler.RegisterRoutes(app, middleware.RequireUser())

	// Root redirects to the task list, which in turn sends anonymous
	// visitors to the login page.
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/tasks", fiber.StatusSeeOther)
	})

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Task Event Consumer (optional) ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for task events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received task event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeTaskEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

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

// openDatabase opens a GORM connection for the configured driver.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, errors.New("unsupported DB_DRIVER: " + driver)
	}
}

// seedAdminUser creates an admin account when one is configured and does not
// exist yet. All three values must be set; otherwise seeding is skipped.
func seedAdminUser(repo repositories.UserRepository, username, email, password string) {
	if username == "" || email == "" || password == "" {
		return
	}
	if existing, err := repo.GetByEmail(email); err == nil && existing != nil {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}
	admin := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleAdmin,
	}
	if err := repo.Create(admin); err != nil {
		log.Printf("Error seeding admin user %s: %v", username, err)
	} else {
		log.Printf("Seeded admin user: %s (ID: %s)", admin.Username, admin.ID)
	}
}
