package main

import (
	"github.com/joho/godotenv"

	"atskpi/internal/app/server"
)

func main() {
	_ = godotenv.Load()
	server.Run()
}
