package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/examind/proctor-backend/internal/config"
	"github.com/examind/proctor-backend/internal/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	path := flag.String("path", "migrations", "path to migration files")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: migrate [-path dir] <up|down|force VERSION>")
		os.Exit(2)
	}

	m, err := migrate.New("file://"+*path, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open migrations")
	}
	defer m.Close()

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "force":
		if flag.NArg() < 2 {
			log.Fatal().Msg("force requires a version")
		}
		var version int
		version, err = strconv.Atoi(flag.Arg(1))
		if err != nil {
			log.Fatal().Err(err).Msg("parse version")
		}
		err = m.Force(version)
	default:
		log.Fatal().Str("command", cmd).Msg("unknown command")
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Msg("migrate")
	}

	version, dirty, _ := m.Version()
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
}
