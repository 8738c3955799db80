// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// coherctl is a small operational CLI over a receipt log and registry
// manifest on disk: verify-chain, inspect-episode, check-registry.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/noeticanlabs/cnsc-haai-sub001/receipt"
	"github.com/noeticanlabs/cnsc-haai-sub001/registry"
)

// Exit codes per spec §6's hosted-CLI exit taxonomy.
const (
	exitSuccess           = 0
	exitValidationError   = 1
	exitProcessingTimeout = 2
	exitBudgetExceeded    = 3
	exitInternalError     = 4
	exitRegistryLoadError = 5
)

var logger = slog.Default().With("module", "coherctl")

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(exitValidationError)
	}

	switch os.Args[1] {
	case "verify-chain":
		verifyChain(os.Args[2:])
	case "inspect-episode":
		inspectEpisode(os.Args[2:])
	case "check-registry":
		checkRegistry(os.Args[2:])
	default:
		usage()
		os.Exit(exitValidationError)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: coherctl <verify-chain|inspect-episode|check-registry> [flags]")
}

// receiptLog is the on-disk shape these subcommands read: a flat JSON
// array of receipts spanning one or more episodes, in emission order.
type receiptLog []receipt.Receipt

func loadReceiptLog(path string) (receiptLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var log receiptLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, err
	}
	return log, nil
}

func buildStore(log receiptLog, chainDigestsOn bool) *receipt.Store {
	store := receipt.NewStore(chainDigestsOn)
	for _, r := range log {
		_ = store.Emit(r)
	}
	return store
}

func verifyChain(args []string) {
	fs := flag.NewFlagSet("verify-chain", flag.ExitOnError)
	logPath := fs.String("log", "", "path to a JSON receipt log")
	episodeID := fs.String("episode", "", "episode id to verify")
	keyHex := fs.String("key", "", "hex-encoded HMAC signing key")
	chainDigests := fs.Bool("chain-digests", true, "whether the log carries chain digests")
	fs.Parse(args)

	if *logPath == "" || *episodeID == "" || *keyHex == "" {
		logger.Error("missing required flag", "need", "--log --episode --key")
		os.Exit(exitValidationError)
	}

	key, err := hex.DecodeString(*keyHex)
	if err != nil {
		logger.Error("invalid signing key", "error", err)
		os.Exit(exitValidationError)
	}

	log, err := loadReceiptLog(*logPath)
	if err != nil {
		logger.Error("failed to load receipt log", "error", err)
		os.Exit(exitInternalError)
	}

	store := buildStore(log, *chainDigests)
	if err := receipt.VerifyEpisode(store, *episodeID, key); err != nil {
		logger.Error("chain verification failed", "episode", *episodeID, "error", err)
		os.Exit(exitValidationError)
	}

	fmt.Printf("episode %s: chain verified, %d receipts\n", *episodeID, len(store.ByEpisode(*episodeID)))
	os.Exit(exitSuccess)
}

func inspectEpisode(args []string) {
	fs := flag.NewFlagSet("inspect-episode", flag.ExitOnError)
	logPath := fs.String("log", "", "path to a JSON receipt log")
	episodeID := fs.String("episode", "", "episode id to inspect")
	fs.Parse(args)

	if *logPath == "" || *episodeID == "" {
		logger.Error("missing required flag", "need", "--log --episode")
		os.Exit(exitValidationError)
	}

	log, err := loadReceiptLog(*logPath)
	if err != nil {
		logger.Error("failed to load receipt log", "error", err)
		os.Exit(exitInternalError)
	}

	store := buildStore(log, false)
	ids := store.ByEpisode(*episodeID)
	if len(ids) == 0 {
		fmt.Printf("episode %s: no receipts found\n", *episodeID)
		os.Exit(exitValidationError)
	}

	for i, id := range ids {
		r, _ := store.Get(id)
		decision := ""
		if r.Core.Decision != nil {
			decision = string(*r.Core.Decision)
		}
		fmt.Printf("%3d  %-20s  %-6s  %s  t=%d\n", i, r.Core.StepKind, decision, id.String(), r.Core.TimestampMS)
	}
	os.Exit(exitSuccess)
}

func checkRegistry(args []string) {
	fs := flag.NewFlagSet("check-registry", flag.ExitOnError)
	manifestPath := fs.String("manifest", "", "path to a YAML registry manifest")
	domain := fs.String("domain", "", "print the resolved proposer order for this domain")
	fs.Parse(args)

	if *manifestPath == "" {
		logger.Error("missing required flag", "need", "--manifest")
		os.Exit(exitValidationError)
	}

	data, err := os.ReadFile(*manifestPath)
	if err != nil {
		logger.Error("failed to read manifest", "error", err)
		os.Exit(exitRegistryLoadError)
	}

	manifest, err := registry.LoadManifest(data)
	if err != nil {
		logger.Error("failed to parse manifest", "error", err)
		os.Exit(exitRegistryLoadError)
	}

	hash, err := registry.Hash(manifest)
	if err != nil {
		logger.Error("failed to hash manifest", "error", err)
		os.Exit(exitInternalError)
	}

	fmt.Printf("registry_hash: %s\n", hash.String())
	fmt.Printf("registry_name: %s (version %s)\n", manifest.RegistryName, manifest.RegistryVersion)

	if *domain != "" {
		order := manifest.ProposerOrder(*domain)
		if len(order) == 0 {
			fmt.Printf("domain %q: disabled or unknown\n", *domain)
		} else {
			fmt.Printf("domain %q proposer order: %v\n", *domain, order)
		}
	}
	os.Exit(exitSuccess)
}
