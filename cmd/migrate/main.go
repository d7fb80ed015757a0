package main

import (
	"context"
	"database/sql"
	"flag"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/folioworks/vitae/pkg/configuration"
)

// Usage: migrate [up|down|status|version] [args...]
func main() {
	flag.Parse()
	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	conf := configuration.Use()
	defer conf.Unload()

	db, err := sql.Open("pgx", conf.Database.Opts)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set dialect: %v", err)
	}

	var args []string
	if flag.NArg() > 1 {
		args = flag.Args()[1:]
	}
	if err := goose.RunContext(context.Background(), command, db, conf.MigrationsDir, args...); err != nil {
		log.Fatalf("migrate %s: %v", command, err)
	}
}
