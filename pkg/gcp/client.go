// Package gcp builds client options shared by the Google Cloud backends.
package gcp

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const (
	ScopeDatastore    = "https://www.googleapis.com/auth/datastore"
	ScopeStorageWrite = "https://www.googleapis.com/auth/devstorage.read_write"

	FirestoreEmulatorEnv = "FIRESTORE_EMULATOR_HOST"
	StorageEmulatorEnv   = "STORAGE_EMULATOR_HOST"
)

// Settings locate the credentials or emulator for one client.
type Settings struct {
	// CredentialsPath is a service account JSON file. Empty uses Application Default Credentials.
	CredentialsPath string
	// EmulatorHost, when set, points the client at a local emulator without authentication.
	EmulatorHost string
	// EmulatorEnv is the variable the client library reads the emulator address from.
	EmulatorEnv string
}

// Signer is the identity used to sign URLs without a round trip to IAM.
type Signer struct {
	GoogleAccessID string
	PrivateKey     []byte
}

// ReadCredentials loads the service account JSON at path.
func ReadCredentials(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return data, nil
}

// ClientOptions returns the options for a Google Cloud client with the given scopes.
func ClientOptions(ctx context.Context, s Settings, scopes ...string) ([]option.ClientOption, error) {
	if s.EmulatorHost != "" {
		if s.EmulatorEnv != "" {
			// The client libraries dial the emulator themselves when this is set.
			if err := os.Setenv(s.EmulatorEnv, s.EmulatorHost); err != nil {
				return nil, fmt.Errorf("failed to set %s: %w", s.EmulatorEnv, err)
			}
		}
		return []option.ClientOption{option.WithoutAuthentication()}, nil
	}

	if s.CredentialsPath == "" {
		return nil, nil
	}

	data, err := ReadCredentials(s.CredentialsPath)
	if err != nil {
		return nil, err
	}
	return OptionsFromJSON(ctx, data, scopes...)
}

// OptionsFromJSON authenticates as the service account in credentialsJSON.
func OptionsFromJSON(ctx context.Context, credentialsJSON []byte, scopes ...string) ([]option.ClientOption, error) {
	config, err := google.JWTConfigFromJSON(credentialsJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unsupported credentials format: %w", err)
	}
	return []option.ClientOption{option.WithTokenSource(config.TokenSource(ctx))}, nil
}

// SignerFromJSON extracts the signing identity from service account JSON.
func SignerFromJSON(credentialsJSON []byte) (Signer, error) {
	config, err := google.JWTConfigFromJSON(credentialsJSON)
	if err != nil {
		return Signer{}, fmt.Errorf("unsupported credentials format: %w", err)
	}
	return Signer{GoogleAccessID: config.Email, PrivateKey: config.PrivateKey}, nil
}
