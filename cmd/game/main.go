package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Crazy-Trade/Crypto-Game-AI/internal/config"
	"github.com/Crazy-Trade/Crypto-Game-AI/internal/engine"
	"github.com/Crazy-Trade/Crypto-Game-AI/internal/oracle"
	"github.com/Crazy-Trade/Crypto-Game-AI/internal/store"
	"github.com/Crazy-Trade/Crypto-Game-AI/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	st := store.New(cfg.SaveDir)

	apiKey, err := resolveAPIKey(cfg, st)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	client, err := oracle.NewClient(ctx, apiKey, cfg.Model)
	if err != nil {
		fmt.Printf("Error creating oracle client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	eng := engine.New(client, st)

	saved, err := st.Load()
	if err != nil {
		// A corrupt save should not brick the game; start fresh.
		fmt.Printf("Warning: %v — starting fresh\n", err)
		_ = st.Delete()
		saved = nil
	}

	if err := tui.Run(eng, saved != nil, cfg.Language); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// resolveAPIKey prefers the environment, falls back to the stored
// credential, and finally prompts on stdin, remembering the answer.
func resolveAPIKey(cfg *config.Config, st *store.Store) (string, error) {
	if cfg.GeminiAPIKey != "" {
		return cfg.GeminiAPIKey, nil
	}
	key, err := st.LoadAPIKey()
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, store.ErrCredentialMissing) {
		return "", err
	}

	fmt.Print("Enter your Gemini API key: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", store.ErrCredentialMissing
	}
	key = strings.TrimSpace(scanner.Text())
	if key == "" {
		return "", store.ErrCredentialMissing
	}
	if err := st.SaveAPIKey(key); err != nil {
		fmt.Printf("Warning: could not remember API key: %v\n", err)
	}
	return key, nil
}
