// Command ari-example is a minimal demo application built on the ari
// client: it connects to a server, answers every channel that starts the
// configured Stasis application, and hangs it up once the caller sends a
// DTMF "#".
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/asterisk-go/ari"
	"github.com/joho/godotenv"
)

// Config holds the demo's own configuration; the ari.Client itself takes
// no environment configuration.
type Config struct {
	URL        string
	User       string
	Secret     string
	App        string
	MaxRetries int
}

// LoadConfig loads configuration from the environment, optionally seeded
// by a .env file if one is present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		URL:        getEnv("ARI_URL", "http://localhost:8088"),
		User:       getEnv("ARI_USER", "asterisk"),
		Secret:     getEnv("ARI_SECRET", "asterisk"),
		App:        getEnv("ARI_APP", "ari-example"),
		MaxRetries: getEnvAsInt("ARI_MAX_RETRIES", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func main() {
	cfg := LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("received shutdown signal")
		cancel()
	}()

	client, err := ari.New(cfg.URL, cfg.User, cfg.Secret)
	if err != nil {
		log.Fatalf("ari: invalid connection settings: %v", err)
	}

	client.On("APILoadError", func(args ...interface{}) {
		log.Printf("ari: schema load failed: %v", args)
	})

	if err := client.Connect(ctx); err != nil {
		log.Fatalf("ari: connect failed: %v", err)
	}
	log.Printf("ari: connected, resources: %v", client.ResourceNames())

	client.On("WebSocketConnected", func(args ...interface{}) {
		log.Println("ari: event socket connected")
	})
	client.On("WebSocketReconnecting", func(args ...interface{}) {
		log.Printf("ari: event socket reconnecting: %v", args)
	})
	client.On("WebSocketMaxRetries", func(args ...interface{}) {
		log.Printf("ari: event socket gave up reconnecting: %v", args)
		cancel()
	})

	client.OnEvent("StasisStart", func(event *ari.Event, resources interface{}) {
		channel, ok := resources.(*ari.Instance)
		if !ok {
			return
		}
		handleNewChannel(ctx, channel)
	})

	if err := client.Start(ctx, cfg.App); err != nil {
		log.Fatalf("ari: start failed: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-client.Closed():
	}

	client.Stop()
	log.Println("ari-example stopped")
}

func handleNewChannel(ctx context.Context, channel *ari.Instance) {
	log.Printf("ari: StasisStart on channel %s", channel.ID())

	channel.ManageInstance()

	if _, err := channel.Call(ctx, "answer", nil); err != nil {
		log.Printf("ari: failed to answer channel %s: %v", channel.ID(), err)
		return
	}

	channel.On("ChannelDtmfReceived", func(event *ari.Event, self *ari.Instance) {
		digit, _ := event.Get("digit")
		if digit != "#" {
			return
		}
		if _, err := self.Call(ctx, "hangup", nil); err != nil {
			log.Printf("ari: failed to hang up channel %s: %v", self.ID(), err)
		}
	})
}
