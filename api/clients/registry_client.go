// Package clients provides HTTP clients for the memory registry API.
package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ruteri/memory-registry-backend/httpserver"
	"github.com/ruteri/memory-registry-backend/interfaces"
)

// RegistryClient talks to a memory registry server over HTTP.
type RegistryClient struct {
	// ServerAddr is the base URL of the registry server.
	ServerAddr string

	// HTTPClient overrides the client used for requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client
}

func (c *RegistryClient) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// CreateRegistry creates the owner's registry on the server.
func (c *RegistryClient) CreateRegistry(owner interfaces.OwnerID) error {
	url := fmt.Sprintf("%s/api/registry/%s", c.ServerAddr, owner.String())

	resp, err := c.client().Post(url, "application/json", nil)
	if err != nil {
		return fmt.Errorf("could not request create endpoint: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp, http.StatusCreated)
}

// AppendEntry registers a content hash in the owner's registry.
func (c *RegistryClient) AppendEntry(owner interfaces.OwnerID, req httpserver.AppendRequest) error {
	url := fmt.Sprintf("%s/api/registry/%s/entries", c.ServerAddr, owner.String())

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("could not encode append request: %w", err)
	}

	resp, err := c.client().Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not request append endpoint: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp, http.StatusCreated)
}

// VerifyEntry checks whether a content hash is registered. A miss is
// reported as interfaces.ErrHashNotFound.
func (c *RegistryClient) VerifyEntry(owner interfaces.OwnerID, hash interfaces.ContentHash) error {
	url := fmt.Sprintf("%s/api/registry/%s/entries/%s", c.ServerAddr, owner.String(), hash.String())

	resp, err := c.client().Get(url)
	if err != nil {
		return fmt.Errorf("could not request verify endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return interfaces.ErrHashNotFound
	}
	return checkStatus(resp, http.StatusOK)
}

// RegistryInfo fetches header metadata of the owner's registry.
func (c *RegistryClient) RegistryInfo(owner interfaces.OwnerID) (*httpserver.RegistryInfoResponse, error) {
	url := fmt.Sprintf("%s/api/registry/%s", c.ServerAddr, owner.String())

	resp, err := c.client().Get(url)
	if err != nil {
		return nil, fmt.Errorf("could not request registry info endpoint: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}

	var info httpserver.RegistryInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("could not parse registry info response: %w", err)
	}
	return &info, nil
}

func checkStatus(resp *http.Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("registry endpoint returned non-%d response: %d", want, resp.StatusCode)
	}
	return fmt.Errorf("registry endpoint returned error %d: %s", resp.StatusCode, string(bodyBytes))
}
