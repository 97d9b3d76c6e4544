package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"

	"github.com/ruteri/memory-registry-backend/interfaces"
)

// VaultStore implements a registry store on HashiCorp Vault's KV v2
// engine. Each container region is one secret keyed by its location hex,
// with the image stored base64-encoded. KV writes replace the secret
// version as a whole, which carries the all-or-nothing write guarantee.
type VaultStore struct {
	client      *api.Client
	mountPath   string
	dataPath    string
	log         *slog.Logger
	locationURI string
}

// NewVaultStore creates a Vault-backed registry store. Address and token
// fall back to the standard VAULT_ADDR / VAULT_TOKEN environment when
// empty.
func NewVaultStore(address, token, mountPath, dataPath string, log *slog.Logger) (*VaultStore, error) {
	config := api.DefaultConfig()
	if address != "" {
		config.Address = address
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}

	mountPath = strings.TrimSuffix(mountPath, "/")
	dataPath = strings.Trim(dataPath, "/")

	return &VaultStore{
		client:      client,
		mountPath:   mountPath,
		dataPath:    dataPath,
		log:         log,
		locationURI: fmt.Sprintf("vault://%s/%s/%s", config.Address, mountPath, dataPath),
	}, nil
}

// Allocate creates a zero-filled region secret after checking none exists
// at the location.
func (s *VaultStore) Allocate(ctx context.Context, loc interfaces.RegistryLocation, size int) error {
	_, err := s.readRegion(ctx, loc)
	if err == nil {
		return interfaces.ErrAlreadyExists
	}
	if !errors.Is(err, interfaces.ErrRegistryNotFound) {
		return fmt.Errorf("%w: %v", interfaces.ErrAllocationFailed, err)
	}

	if err := s.writeRegion(ctx, loc, make([]byte, size)); err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrAllocationFailed, err)
	}

	s.log.Debug("Allocated registry region in Vault",
		slog.String("location", loc.String()),
		slog.Int("size", size))
	return nil
}

// Read returns the full stored region.
func (s *VaultStore) Read(ctx context.Context, loc interfaces.RegistryLocation) ([]byte, error) {
	return s.readRegion(ctx, loc)
}

// Write atomically replaces the stored region.
func (s *VaultStore) Write(ctx context.Context, loc interfaces.RegistryLocation, data []byte) error {
	existing, err := s.readRegion(ctx, loc)
	if err != nil {
		return err
	}
	if len(data) < len(existing) {
		return fmt.Errorf("write below reservation: region %d bytes, image %d", len(existing), len(data))
	}

	if err := s.writeRegion(ctx, loc, data); err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrResourceExhausted, err)
	}
	return nil
}

// Reserved returns the stored region size.
func (s *VaultStore) Reserved(ctx context.Context, loc interfaces.RegistryLocation) (int, error) {
	data, err := s.readRegion(ctx, loc)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// Available checks that Vault is initialized and unsealed.
func (s *VaultStore) Available(ctx context.Context) bool {
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := s.client.Sys().HealthWithContext(healthCtx)
	if err != nil {
		s.log.Debug("Vault health check failed", "err", err)
		return false
	}
	if !health.Initialized || health.Sealed {
		s.log.Debug("Vault is not available",
			slog.Bool("initialized", health.Initialized),
			slog.Bool("sealed", health.Sealed))
		return false
	}
	return true
}

// Name returns a unique identifier for this store.
func (s *VaultStore) Name() string {
	return fmt.Sprintf("vault-%s-%s", s.mountPath, s.dataPath)
}

// LocationURI returns the URI that identifies this store.
func (s *VaultStore) LocationURI() string {
	return s.locationURI
}

// secretPath builds the KV v2 data path for a registry location.
func (s *VaultStore) secretPath(loc interfaces.RegistryLocation) string {
	return fmt.Sprintf("%s/data/%s/%s", s.mountPath, s.dataPath, loc.String())
}

func (s *VaultStore) readRegion(ctx context.Context, loc interfaces.RegistryLocation) ([]byte, error) {
	secret, err := s.client.Logical().ReadWithContext(ctx, s.secretPath(loc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, interfaces.ErrRegistryNotFound
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid data format in Vault response")
	}
	encoded, ok := data["region"].(string)
	if !ok {
		return nil, fmt.Errorf("region key not found in Vault data")
	}

	region, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrCorruptedContainer, err)
	}
	return region, nil
}

func (s *VaultStore) writeRegion(ctx context.Context, loc interfaces.RegistryLocation, data []byte) error {
	secretData := map[string]interface{}{
		"data": map[string]interface{}{
			"region": base64.StdEncoding.EncodeToString(data),
		},
	}

	_, err := s.client.Logical().WriteWithContext(ctx, s.secretPath(loc), secretData)
	return err
}
