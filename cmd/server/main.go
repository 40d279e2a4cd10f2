package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"

	"tableorder_backend/internal/database"
	"tableorder_backend/internal/events"
	"tableorder_backend/internal/router"
	"tableorder_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize Logger
	utils.InitLogger()

	utils.SetJWTSecret(utils.Getenv("JWT_SECRET", "dev-only-insecure-secret"))

	// Database. STORE_MODE=memory or an unreachable database both select the
	// in-memory store with the seeded tables and house menu.
	var db *sql.DB
	if utils.Getenv("STORE_MODE", "postgres") == "memory" {
		utils.LogWarn("STORE_MODE=memory, running local-only with the in-memory store")
	} else {
		dbHost := utils.Getenv("DB_HOST", "localhost")
		dbPort := utils.Getenv("DB_PORT", "5432")
		dbUser := utils.Getenv("DB_USER", "tableorder_user")
		dbPassword := utils.Getenv("DB_PASSWORD", "tableorder_password")
		dbName := utils.Getenv("DB_NAME", "tableorder_db")
		dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
		dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "")

		var err error
		db, err = database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath)
		if err != nil {
			utils.LogWarn("Database unreachable, falling back to the in-memory store", map[string]interface{}{"error": err.Error()})
			db = nil
		} else {
			utils.LogInfo("Database initialized", map[string]interface{}{"configured_from_env": true})
			defer db.Close()
		}
	}

	// Event publisher. AMQP is optional; without a broker URL every event is
	// dropped on the floor.
	var publisher events.Publisher = events.NoopPublisher{}
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(amqpURL)
		if err != nil {
			utils.LogWarn("AMQP broker unreachable, order events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			publisher = amqpPublisher
			defer amqpPublisher.Close()
		}
	}

	engine := gin.Default()

	// Add GinLogger middleware for request logging
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Device-Token"}
	config.ExposeHeaders = []string{"X-Device-Token"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Setup all application routes
	router.Setup(engine, db, publisher)

	// Server port configuration
	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port, "configured_from_env": true})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
