package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mechanicshop-backend/config"
	"mechanicshop-backend/routes"
	"mechanicshop-backend/services"
	"mechanicshop-backend/store"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found")
	}
	config.InitLogger()
	config.ConnectDB()

	if err := store.Migrate(config.DB); err != nil {
		panic("Failed to migrate database")
	}
}

func main() {

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	st := store.New(config.DB)
	notifier := services.NewNotificationService(st)
	notifier.StartScheduler()

	r := routes.SetupRouter(st, notifier)
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
