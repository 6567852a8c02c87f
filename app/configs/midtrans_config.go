package configs

import (
	"log"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// NewMidtransSnapClient returns a Snap client for the configured server key,
// or nil when payments are not configured.
func NewMidtransSnapClient(env ENV) *snap.Client {
	if env.MIDTRANS_SERVER_KEY == "" {
		log.Println("Warning: MIDTRANS_SERVER_KEY not set, payments disabled")
		return nil
	}

	environment := midtrans.Sandbox
	if env.IsProduction() {
		environment = midtrans.Production
	}

	var client snap.Client
	client.New(env.MIDTRANS_SERVER_KEY, environment)
	midtrans.ClientKey = env.MIDTRANS_CLIENT_KEY
	midtrans.ServerKey = env.MIDTRANS_SERVER_KEY
	midtrans.Environment = environment
	log.Println("✅ Midtrans Snap Client initialized.")
	return &client
}
