package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Rakhulsr/go-cartridge/app/configs"
	"github.com/Rakhulsr/go-cartridge/app/db/seeders"
	"github.com/Rakhulsr/go-cartridge/app/helpers"
	"github.com/Rakhulsr/go-cartridge/app/models/migrations"
	"github.com/Rakhulsr/go-cartridge/app/routes"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func RunCli(env configs.ENV) {
	if err := NewCommand(env).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// NewCommand builds the maintenance commands run by passing arguments to the
// server binary.
func NewCommand(env configs.ENV) *cli.Command {
	return &cli.Command{
		Name:  "cartridge",
		Usage: "catalog and checkout server",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Fill the catalog with fake categories and products",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "products",
						Value: 20,
						Usage: "number of products to create",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := openMigrated(env)
					if err != nil {
						return err
					}
					svc, err := routes.NewServices(db, env, routes.Dependencies{})
					if err != nil {
						return err
					}
					if err := seeders.DBSeed(ctx, svc.Catalog, int(c.Int("products"))); err != nil {
						return err
					}
					log.Println("✅ Seeding complete")
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate session cookie and CSRF keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Value: ".env.new_keys",
						Usage: "also write the keys to this file; empty to skip",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateKeys(c.Root().Writer, c.String("out")); err != nil {
						return err
					}
					log.Println("✅ Keys generated. Copy them to .env; new session keys empty existing carts.")
					return nil
				},
			},
			{
				Name:      "hash-password",
				Usage:     "Print the bcrypt hash of an admin password for ADMIN_PASSWORD_HASH",
				ArgsUsage: "<password>",
				Action: func(ctx context.Context, c *cli.Command) error {
					password := c.Args().First()
					if password == "" {
						return errors.New("hash-password needs the password as its argument")
					}
					hash, err := helpers.HashPassword(password)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.Root().Writer, "ADMIN_PASSWORD_HASH=%s\n", hash)
					return nil
				},
			},
			{
				Name:  "prune-carts",
				Usage: "Delete carts that have not been touched for a while",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "older-than",
						Value: 30 * 24 * time.Hour,
						Usage: "delete carts untouched for longer than this",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					svc, err := routes.NewServices(db, env, routes.Dependencies{})
					if err != nil {
						return err
					}
					deleted, err := svc.Carts.PruneCarts(ctx, time.Now().Add(-c.Duration("older-than")))
					if err != nil {
						return err
					}
					log.Printf("✅ Pruned %d carts", deleted)
					return nil
				},
			},
		},
	}
}

func openMigrated(env configs.ENV) (*gorm.DB, error) {
	db, err := configs.OpenConnection(env)
	if err != nil {
		return nil, err
	}
	if err := migrations.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
