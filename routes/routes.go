package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	"mechanicshop-backend/config"
	"mechanicshop-backend/controllers"
	"mechanicshop-backend/services"
	"mechanicshop-backend/store"
	"mechanicshop-backend/utils"
)

// SetupRouter wires the services and controllers onto the HTTP
// surface. The notifier may be nil (tests, notifications disabled).
func SetupRouter(st *store.Store, notifier services.Notifier) *gin.Engine {
	customerCache := services.NewCustomerCache()
	customerService := services.NewCustomerService(st, customerCache)
	mechanicService := services.NewMechanicService(st)
	inventoryService := services.NewInventoryService(st)
	ticketService := services.NewTicketService(st, customerService, mechanicService, inventoryService, notifier)

	customerController := &controllers.CustomerController{Customers: customerService, Tickets: ticketService}
	mechanicController := &controllers.MechanicController{Mechanics: mechanicService}
	inventoryController := &controllers.InventoryController{Inventory: inventoryService}
	ticketController := &controllers.TicketController{Tickets: ticketService}

	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	r.Use(config.PerformanceLogger())

	// Creation endpoints are rate limited per client ip, mirroring the
	// limits the service has always advertised.
	createLimit := rateLimit("10-M")
	inventoryCreateLimit := rateLimit("20-M")

	customers := r.Group("/customers")
	{
		customers.POST("", createLimit, customerController.Register)
		customers.POST("/login", customerController.Login)
		customers.GET("", customerController.List)
		customers.GET("/my-tickets", utils.AuthMiddleware(), customerController.MyTickets)
		customers.GET("/:id", customerController.Get)

		customers.PUT("/:id", utils.AuthMiddleware(), customerController.Update)
		customers.DELETE("/:id", utils.AuthMiddleware(), customerController.Delete)
	}

	mechanics := r.Group("/mechanics")
	{
		mechanics.POST("", createLimit, mechanicController.Create)
		mechanics.GET("", mechanicController.List)
		mechanics.GET("/:id", mechanicController.Get)
		mechanics.PUT("/:id", mechanicController.Update)
		mechanics.DELETE("/:id", mechanicController.Delete)
	}

	inventory := r.Group("/inventory")
	{
		inventory.POST("", inventoryCreateLimit, inventoryController.Create)
		inventory.GET("", inventoryController.List)
		inventory.GET("/:id", inventoryController.Get)
		inventory.PUT("/:id", inventoryController.Update)
		inventory.DELETE("/:id", inventoryController.Delete)
	}

	tickets := r.Group("/service-tickets")
	{
		tickets.POST("", ticketController.Create)
		tickets.GET("", ticketController.List)
		tickets.GET("/customer/:customerId", ticketController.ListByCustomer)
		tickets.GET("/mechanic/:mechanicId", ticketController.ListByMechanic)
		tickets.GET("/:id", ticketController.Get)
		tickets.PUT("/:id", ticketController.Update)
		tickets.DELETE("/:id", ticketController.Delete)

		tickets.PUT("/:id/assign-mechanic/:mechanicId", ticketController.AssignMechanic)
		tickets.PUT("/:id/remove-mechanic/:mechanicId", ticketController.RemoveMechanic)
		tickets.PUT("/:id/add-part/:partId", ticketController.AddPart)
		tickets.PUT("/:id/remove-part/:partId", ticketController.RemovePart)
		tickets.POST("/:id/parts", ticketController.AddParts)
	}

	return r
}

func rateLimit(format string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(format)
	if err != nil {
		panic("invalid rate limit format: " + format)
	}
	return mgin.NewMiddleware(limiter.New(memorystore.NewStore(), rate))
}
