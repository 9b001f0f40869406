package common

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// VaultConfig describes one known vault deployment.
type VaultConfig struct {
	Name    string `yaml:"name"`
	Network string `yaml:"network"`
	ChainID int64  `yaml:"chain_id"`
	Address string `yaml:"address"`
}

type VaultsConfig struct {
	Vaults []VaultConfig `yaml:"vaults"`
}

// LoadVaultRegistry reads the registry of known vault deployments. The
// registry is informational: it labels the configured vault and helps
// spot a chain id that doesn't match the deployment's network.
func LoadVaultRegistry(vaultsFile string) ([]VaultConfig, error) {
	var vaultsPath string
	if filepath.IsAbs(vaultsFile) {
		vaultsPath = vaultsFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		vaultsPath = filepath.Join(wd, vaultsFile)
	}

	data, err := os.ReadFile(vaultsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", vaultsFile, err)
	}

	var config VaultsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", vaultsFile, err)
	}

	for i, vault := range config.Vaults {
		if vault.Name == "" {
			return nil, fmt.Errorf("vault at index %d missing name", i)
		}
		if vault.Address == "" {
			return nil, fmt.Errorf("vault at index %d missing address", i)
		}
		if vault.ChainID == 0 {
			return nil, fmt.Errorf("vault at index %d missing chain_id", i)
		}
	}

	return config.Vaults, nil
}

// FindVaultByAddress looks up a registry entry by contract address.
func FindVaultByAddress(vaults []VaultConfig, address string) *VaultConfig {
	for i := range vaults {
		if equalAddress(vaults[i].Address, address) {
			return &vaults[i]
		}
	}
	return nil
}

func equalAddress(a, b string) bool {
	trim := func(s string) string {
		if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
			s = s[2:]
		}
		result := make([]byte, len(s))
		for i := 0; i < len(s); i++ {
			c := s[i]
			if c >= 'A' && c <= 'F' {
				c += 'a' - 'A'
			}
			result[i] = c
		}
		return string(result)
	}
	return trim(a) == trim(b)
}
