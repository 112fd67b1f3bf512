package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lvdopqt/carteira-digital-api/internal/admin"
	"github.com/lvdopqt/carteira-digital-api/internal/buildinfo"
	"github.com/lvdopqt/carteira-digital-api/internal/server/auth"
	"github.com/lvdopqt/carteira-digital-api/internal/server/config"
	"github.com/lvdopqt/carteira-digital-api/internal/server/repositories/repomanager"
	"github.com/lvdopqt/carteira-digital-api/internal/server/services"
)

func main() {
	os.Exit(run())
}

func run() int {

	buildinfo.PrintBuildData(os.Stdout)

	if _, _, ok := admin.Command(os.Args[1:]); !ok {
		admin.Usage(os.Stderr)
		return 2
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Printf("db init error: %v", err)
		return 1
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	rm := repomanager.NewPostgresRepositoryManager()
	users := services.NewUserService(db, rm,
		auth.NewPasswordHasher(cfg.BcryptCost),
		auth.NewTokenService([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration))

	documents := services.NewDocumentService(db, rm, cfg)

	app := admin.NewApp(db, rm, users, documents, os.Stdin, os.Stdout, int(os.Stdin.Fd()))
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Printf("%v", err)
		return 1
	}

	return 0
}
