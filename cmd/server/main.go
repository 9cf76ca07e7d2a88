package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"robotwars/internal/config"
	"robotwars/internal/kernel"
	"robotwars/internal/sampleagent"
	"robotwars/internal/telemetry"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file found, using environment variables only")
		}
	} else {
		log.Println("loaded environment from ../.env")
	}

	log.Println("================================")
	log.Println(" ROBOTWARS - SIMULATION KERNEL")
	log.Println("================================")

	cfg := config.Load()
	log.Printf("config: %d calcs/sec, order every %d ticks, arena %dx%d cm",
		cfg.Sim.CalcsPerSec, cfg.Sim.OrderFreq, int(cfg.Arena.WidthCM), int(cfg.Arena.HeightCM))

	engine := kernel.NewEngine(cfg)
	engine.OnFatal(func(err *kernel.FatalError) {
		log.Fatalf("fatal simulation error: %s", err.Message)
	})

	registerDefaultMatch(engine)

	engine.StartEventLog()
	log.Println("event log started")

	engine.Start()
	log.Println("simulation kernel running")

	tickInterval := time.Second / time.Duration(cfg.Sim.CalcsPerSec)
	server := telemetry.NewServer(engine, tickInterval, cfg.Sim.OrderFreq)

	port := strconv.Itoa(cfg.Server.Port)
	addr := ":" + port

	go func() {
		log.Printf("telemetry server on http://localhost%s", addr)
		log.Printf("metrics: http://localhost%s/metrics", addr)
		if err := server.Start(addr); err != nil {
			log.Printf("telemetry server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("ready, press ctrl+c to stop")
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Printf("telemetry server shutdown error: %v", err)
	}
	engine.Stop()
	log.Println("stopped")
}

// registerDefaultMatch seeds a two-robot exhibition match; replace or
// extend with real agent packages for a competitive run.
func registerDefaultMatch(engine *kernel.Engine) {
	hunterConfigure, hunterActions := sampleagent.NewHunter()
	engine.RegisterRobot("juan", kernel.ColorRed, hunterActions, hunterConfigure, "", 0, 0, 0, true)

	sentryConfigure, sentryActions := sampleagent.NewSentry()
	engine.RegisterRobot("bender", kernel.ColorBlue, sentryActions, sentryConfigure, "", 0, 0, 0, true)
}
