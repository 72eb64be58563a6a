package main

import (
	"fmt"
	"log"
	"os"

	"main/config"
	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	// Check required environment variables
	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()
	utils.InitMongoClient()
}

func setupRouter(serverCfg config.ServerConfig, workdayCfg config.WorkdayConfig) *gin.Engine {
	router := gin.Default()

	// Initialize repositories
	tasksRepo := repository.GetRecurringTasksRepo(utils.MongoClient)
	completionsRepo := repository.GetCompletionsRepo(utils.MongoClient)
	clientsRepo := repository.GetClientsRepo(utils.MongoClient)
	employeesRepo := repository.GetEmployeesRepo(utils.MongoClient)
	attendanceRepo := repository.GetAttendanceRepo(utils.MongoClient)

	// Initialize services
	tasksService := usecase.NewRecurringTasksService(tasksRepo, services.GlobalTaskCache, serverCfg.OperationTimeout)
	completionsService := usecase.NewCompletionsService(tasksRepo, completionsRepo, serverCfg.OperationTimeout)
	clientsService := usecase.NewClientsService(clientsRepo, serverCfg.OperationTimeout)
	employeesService := usecase.NewEmployeesService(employeesRepo, serverCfg.OperationTimeout)
	attendanceService := usecase.NewAttendanceService(attendanceRepo, employeesRepo, workdayCfg.StandardDay, serverCfg.OperationTimeout)

	// Initialize handlers
	taskHandler := handler.NewTaskHandler(tasksService)
	completionHandler := handler.NewCompletionHandler(completionsService)
	clientHandler := handler.NewClientHandler(clientsService)
	employeeHandler := handler.NewEmployeeHandler(employeesService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestSizeLimiter(serverCfg.MaxBodyBytes))

	// Public routes
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected routes (authentication required)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		tasks := protected.Group("/tasks")
		{
			tasks.GET("/", taskHandler.ListTasks)
			tasks.POST("/", taskHandler.CreateTask)
			tasks.GET("/stats", middleware.CacheControlMiddleware("60"), taskHandler.GetStats)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)

			// Lifecycle actions
			tasks.POST("/:id/pause", taskHandler.PauseTask)
			tasks.POST("/:id/resume", taskHandler.ResumeTask)
			tasks.POST("/:id/complete", taskHandler.CompleteCycle)

			// Per-client completion ledger
			tasks.GET("/:id/completions", completionHandler.ListCompletions)
			tasks.GET("/:id/completions/:clientId/:monthKey", completionHandler.GetCompletion)
			tasks.POST("/:id/completions", completionHandler.MarkCompleted)
			tasks.DELETE("/:id/completions/:clientId/:monthKey", completionHandler.MarkIncomplete)
			tasks.POST("/:id/completions/toggle", completionHandler.ToggleCompletion)
			tasks.POST("/:id/completions/bulk", completionHandler.BulkUpdate)
		}

		clients := protected.Group("/clients")
		{
			clients.GET("/", clientHandler.ListClients)
			clients.POST("/", clientHandler.CreateClient)
			clients.GET("/:id", clientHandler.GetClient)
			clients.PUT("/:id", clientHandler.UpdateClient)
			clients.DELETE("/:id", clientHandler.DeleteClient)
		}

		employees := protected.Group("/employees")
		{
			employees.GET("/", employeeHandler.ListEmployees)
			employees.POST("/", employeeHandler.CreateEmployee)
			employees.GET("/roster", employeeHandler.GetRoster)
			employees.GET("/:id", employeeHandler.GetEmployee)
			employees.PUT("/:id", employeeHandler.UpdateEmployee)
			employees.DELETE("/:id", employeeHandler.DeleteEmployee)
			employees.POST("/:id/roster", employeeHandler.AssignShift)

			// Attendance
			employees.POST("/:id/attendance/check-in", attendanceHandler.CheckIn)
			employees.POST("/:id/attendance/check-out", attendanceHandler.CheckOut)
			employees.PUT("/:id/attendance/breaks", attendanceHandler.RecordBreaks)
			employees.GET("/:id/attendance/summary", attendanceHandler.GetSummary)
		}
	}

	return router
}

func main() {
	serverCfg := config.LoadServerConfig()
	cacheCfg := config.LoadCacheConfig()
	workdayCfg := config.LoadWorkdayConfig()
	dbCfg := config.LoadDatabaseConfig()

	// Warm up the task cache; the service degrades to direct reads when
	// Redis is unavailable
	cache, err := services.NewTaskCache(cacheCfg.RedisURL, cacheCfg.TaskTTL)
	if err != nil {
		log.Printf("Task cache disabled: %v", err)
	} else {
		services.GlobalTaskCache = cache
	}

	if err := repository.SetupIndexes(utils.MongoClient.Database(dbCfg.DatabaseName)); err != nil {
		log.Printf("Index setup failed: %v", err)
	}

	router := setupRouter(serverCfg, workdayCfg)

	serverAddr := fmt.Sprintf(":%s", serverCfg.Port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
