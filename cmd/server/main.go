package main

import (
	"context"
	"log"
	"os"

	"github.com/lvdopqt/carteira-digital-api/internal/buildinfo"
	"github.com/lvdopqt/carteira-digital-api/internal/server"
	"github.com/lvdopqt/carteira-digital-api/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

}
