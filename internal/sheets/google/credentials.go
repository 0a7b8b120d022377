package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var ErrNoCredentials = errors.New("missing service account credentials")

// ServiceAccount holds the individual fields of a service account key, for
// deployments that only expose them as separate secrets.
type ServiceAccount struct {
	ProjectID         string
	ClientEmail       string
	PrivateKeyID      string
	PrivateKey        string
	ClientID          string
	ClientX509CertURL string
}

// CredentialSource lists the places a service account key may come from, in
// order of preference.
type CredentialSource struct {
	JSON  string
	File  string
	Parts ServiceAccount
}

func (s ServiceAccount) IsZero() bool {
	return s == ServiceAccount{}
}

// JSON renders the key in the format Google issues for download. Escaped
// newlines in the private key are expanded.
func (s ServiceAccount) JSON() ([]byte, error) {
	if s.PrivateKey == "" || s.ClientEmail == "" {
		return nil, errors.New("service account needs at least a private key and client email")
	}
	key := map[string]string{
		"type":                        "service_account",
		"project_id":                  s.ProjectID,
		"private_key_id":              s.PrivateKeyID,
		"private_key":                 strings.ReplaceAll(s.PrivateKey, `\n`, "\n"),
		"client_email":                s.ClientEmail,
		"client_id":                   s.ClientID,
		"auth_uri":                    "https://accounts.google.com/o/oauth2/auth",
		"token_uri":                   "https://oauth2.googleapis.com/token",
		"auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
		"client_x509_cert_url":        s.ClientX509CertURL,
		"universe_domain":             "googleapis.com",
	}
	return json.Marshal(key)
}

// Load returns the key JSON from the first configured source.
func (src CredentialSource) Load(ctx context.Context) ([]byte, error) {
	switch {
	case strings.TrimSpace(src.JSON) != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		return []byte(src.JSON), nil
	case strings.TrimSpace(src.File) != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", src.File)
		b, err := os.ReadFile(src.File)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	case !src.Parts.IsZero():
		slog.InfoContext(ctx, "Building credentials from service account fields",
			"client_email", src.Parts.ClientEmail)
		return src.Parts.JSON()
	default:
		return nil, ErrNoCredentials
	}
}

// CredentialsOption authenticates the Sheets client with the service account
// key found in src.
func CredentialsOption(ctx context.Context, src CredentialSource) (goption.ClientOption, error) {
	b, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	creds, err := google.CredentialsFromJSON(ctx, b, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}
	return goption.WithCredentials(creds), nil
}
