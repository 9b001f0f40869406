package common

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log"
	"os"
	"strings"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/journal"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/models"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/vault"
)

// init loads environment variables from .env file if it exists
func init() {
	// Try to load .env file - if it doesn't exist, that's okay
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	Journal *journal.Service
	Vault   *vault.Client
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices dials the vault's network, loads its metadata, and
// opens the local submission journal. Pass withSigner for commands that
// submit transactions; read-only commands leave the key unloaded.
func InitializeServices(ctx context.Context, cfg *models.Config, withSigner bool) (*Services, error) {
	journalService, err := journal.NewService(ctx, cfg.Journal)
	if err != nil {
		return nil, err
	}

	var options []vault.Option
	if withSigner {
		key, err := LoadSignerKey()
		if err != nil {
			journalService.Close()
			return nil, err
		}
		options = append(options, vault.WithSignerKey(key))
	}

	vaultClient, err := vault.NewClient(ctx, cfg.Chain, options...)
	if err != nil {
		journalService.Close()
		return nil, err
	}

	if _, err := vaultClient.LoadMetadata(ctx); err != nil {
		journalService.Close()
		return nil, err
	}

	return &Services{
		Journal: journalService,
		Vault:   vaultClient,
	}, nil
}

func (cs *Services) Close() {
	if cs.Journal != nil {
		cs.Journal.Close()
	}
}

// LoadSignerKey reads the hex-encoded signing key from the environment.
// The key authorizes real transactions on the test network; it is never
// written anywhere by this tool.
func LoadSignerKey() (*ecdsa.PrivateKey, error) {
	raw := os.Getenv("VAULT_SIGNER_KEY")
	if raw == "" {
		return nil, fmt.Errorf("missing required signer key: VAULT_SIGNER_KEY")
	}

	key, err := gethcrypto.HexToECDSA(strings.TrimPrefix(raw, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid VAULT_SIGNER_KEY: %w", err)
	}
	return key, nil
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
