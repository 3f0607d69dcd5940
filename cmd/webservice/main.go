package main

import (
	"os"
	"os/signal"
	"syscall"

	_ "time/tzdata"

	"github.com/mechinweb/mechinweb-service/config"
	"github.com/mechinweb/mechinweb-service/internal/app"
	"github.com/mechinweb/mechinweb-service/internal/infrastructure/database/postgres"
	"github.com/mechinweb/mechinweb-service/internal/infrastructure/message-queue/kafka"
	"github.com/rs/zerolog/log"
)

func main() {
	config := config.CreateNewConfig()

	app.InitLogger(config.Environment)

	if err := config.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	db, err := postgres.GetDBInstance(config.PostgreSQLConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	application := &app.App{
		DB:        db,
		Config:    config,
		Publisher: kafka.LogPublisher{},
	}

	if config.KafkaConfig.BrokerAddress != "" {
		kafkaProducer, err := kafka.CreateKafkaProducer(config)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Kafka")
		}
		defer kafkaProducer.Close()

		application.Publisher = kafka.CreatePublisher(kafkaProducer)
	}

	if err := application.Setup(); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up application")
	}

	go func() {
		if err := application.Start(); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	if err := application.StopServer(); err != nil {
		log.Error().Err(err).Msg("Failed to shut down cleanly")
	}
}
