package storage

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/ruteri/memory-registry-backend/interfaces"
)

// StoreFactory creates registry stores from URI strings.
type StoreFactory struct {
	log *slog.Logger
}

// NewStoreFactory creates a new factory instance.
func NewStoreFactory(log *slog.Logger) *StoreFactory {
	return &StoreFactory{log: log}
}

// StoreFor creates a registry store from a location URI.
// The URI format is [scheme]://[auth@]host[:port][/path][?params]
//
// Supported schemes:
//   - mem:// - In-memory store (tests and single-process deployments)
//   - file:// - Local filesystem store
//   - s3:// - Amazon S3 or compatible object storage
//   - vault:// - HashiCorp Vault KV v2 engine
//
// Returns an error if the URI is invalid or the scheme is unsupported.
func (f *StoreFactory) StoreFor(locationURI string) (interfaces.RegistryStore, error) {
	u, err := url.Parse(locationURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidLocationURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "mem":
		return f.createMemoryStore(u)
	case "file":
		return f.createFileStore(u)
	case "s3":
		return f.createS3Store(u)
	case "vault":
		return f.createVaultStore(u)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", interfaces.ErrInvalidLocationURI, u.Scheme)
	}
}

// createMemoryStore creates an in-memory store.
// URI format: mem://?max_bytes=1048576
func (f *StoreFactory) createMemoryStore(u *url.URL) (interfaces.RegistryStore, error) {
	maxBytes := 0
	if v := u.Query().Get("max_bytes"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &maxBytes); err != nil {
			return nil, fmt.Errorf("%w: invalid max_bytes %q", interfaces.ErrInvalidLocationURI, v)
		}
	}
	return NewMemoryStore(maxBytes, f.log), nil
}

// createFileStore creates a filesystem store.
// URI format: file:///var/lib/memory-registry/
func (f *StoreFactory) createFileStore(u *url.URL) (interfaces.RegistryStore, error) {
	baseDir := u.Path
	if u.Host != "" {
		// Support relative paths given as file://dir/path
		baseDir = u.Host + u.Path
	}
	if baseDir == "" {
		return nil, fmt.Errorf("%w: file URI missing path", interfaces.ErrInvalidLocationURI)
	}
	return NewFileStore(baseDir, f.log)
}

// createS3Store creates an S3 store.
// URI format: s3://access:secret@bucket/prefix?region=us-west-2&endpoint=...
func (f *StoreFactory) createS3Store(u *url.URL) (interfaces.RegistryStore, error) {
	bucket := u.Host
	if bucket == "" {
		return nil, fmt.Errorf("%w: s3 URI missing bucket", interfaces.ErrInvalidLocationURI)
	}

	prefix := strings.TrimPrefix(u.Path, "/")
	region := u.Query().Get("region")
	if region == "" {
		region = "us-east-1"
	}
	endpoint := u.Query().Get("endpoint")

	var accessKey, secretKey string
	if u.User != nil {
		accessKey = u.User.Username()
		secretKey, _ = u.User.Password()
	}

	return NewS3Store(bucket, prefix, region, endpoint, accessKey, secretKey, f.log)
}

// createVaultStore creates a Vault store.
// URI format: vault://vault.example.com:8200/secret/memory-registry?token=...
func (f *StoreFactory) createVaultStore(u *url.URL) (interfaces.RegistryStore, error) {
	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: vault URI must include mount and data path", interfaces.ErrInvalidLocationURI)
	}

	scheme := "https"
	if u.Query().Get("insecure") == "true" {
		scheme = "http"
	}
	address := fmt.Sprintf("%s://%s", scheme, u.Host)

	return NewVaultStore(address, u.Query().Get("token"), parts[0], parts[1], f.log)
}
