package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipperdesk/clipperdesk-api/internal/config"
	dbpkg "github.com/clipperdesk/clipperdesk-api/internal/db"
	"github.com/clipperdesk/clipperdesk-api/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)
	rdb := dbpkg.NewRedis(cfg)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	dispatcher := routes.RegisterRoutes(r, db, rdb, cfg)
	defer dispatcher.Close()

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
