package main

import (
	"log"

	_ "lemonspace/docs"
	"lemonspace/internal/config"
	"lemonspace/internal/server"
)

// @title           Lemonspace Page Builder API
// @version         1.0
// @description     Boards, canvas editing and sessions for the drag-and-drop page builder.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
