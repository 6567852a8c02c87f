package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Rakhulsr/go-cartridge/app/cmd"
	"github.com/Rakhulsr/go-cartridge/app/configs"
	"github.com/Rakhulsr/go-cartridge/app/routes"
	"github.com/Rakhulsr/go-cartridge/app/services"
	"github.com/Rakhulsr/go-cartridge/app/utils/sessions"
)

func main() {
	env := configs.LoadEnv()
	if len(os.Args) > 1 {
		cmd.RunCli(env)
		return
	}

	db, err := configs.OpenConnection(env)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("✅ Database connected.")

	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		log.Fatalf("Session keys not usable: %v. Run `generate-keys` and copy them to .env.", err)
	}
	store := sessions.NewCookieSessionStore(env.IsProduction(), keys.AuthKey, keys.EncKey)
	log.Println("✅ Session store initialized.")

	deps := routes.Dependencies{SessionStore: store}

	if snapClient := configs.NewMidtransSnapClient(env); snapClient != nil {
		deps.Snap = snapClient
	}

	redisClient, err := configs.NewRedisClient(env)
	if err != nil {
		log.Printf("Warning: %v, product actions are counted in the database", err)
	} else if redisClient != nil {
		deps.Actions = services.NewRedisActionRecorder(redisClient)
		defer redisClient.Close()
	}

	mailConfig := services.Config{
		Host:     env.EmailHost,
		Port:     env.EmailPort,
		Username: env.EmailUsername,
		Password: env.EmailPassword,
		From:     env.EmailFrom,
	}
	if mailConfig.Enabled() {
		deps.Receipts = services.NewMailer(mailConfig)
	}

	router, err := routes.NewRouter(db, env, deps)
	if err != nil {
		log.Fatalf("Router setup failed: %v", err)
	}

	server := http.Server{
		Addr:              ":" + env.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Printf("failed to start the server: %v", err)
	}
}
