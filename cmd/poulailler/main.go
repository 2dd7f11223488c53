package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	_ "poulailler/docs"
	"poulailler/internal"
	"poulailler/internal/config"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title           Poulailler API
// @version         1.0
// @description     Coworking stats dashboard: new and total coworkers per day, week, month or year
// @BasePath        /

var (
	port    string
	envFile string
)

func main() {
	flag.StringVar(&port, "port", ":8080", "HTTP server port (e.g. ':8080')")
	flag.StringVar(&envFile, "env", config.EnvFile, "Path to the .env file")
	flag.Parse()

	log.SetTimeFormat(time.Stamp)
	log.SetReportCaller(true)

	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}
	log.SetLevel(cfg.LogLevel)

	server, err := poulailler.NewServer(cfg)
	if err != nil {
		log.Fatal("Failed to initialize server", "error", err)
	}

	http.Handle("/", server.SetupRoutes())
	http.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	log.Info("Server starting on", "port", port)
	log.Fatal(http.ListenAndServe(port, nil))
}
