package handler

import (
	"context"
	"main/utils"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthCheck reports process and backend health for probes
func HealthCheck(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if utils.MongoClient == nil {
		dbStatus = "not connected"
		status = "degraded"
	} else if err := utils.MongoClient.Ping(ctx, readpref.Primary()); err != nil {
		dbStatus = err.Error()
		status = "degraded"
	}

	utils.Success(c, gin.H{
		"status":       status,
		"database":     dbStatus,
		"cpu_usage":    utils.GetCPUUsage(),
		"memory_usage": utils.GetMemoryUsage(),
	})
}
