package main

import (
	"context"
	"log"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/bootstrap"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/config"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/server"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/tracer"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
