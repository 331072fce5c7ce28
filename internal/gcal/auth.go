package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// tokenSource prefers the cached token, falling back to a service-account
// credentials file. A token minted from the service account is written
// back to the cache so later runs skip the exchange.
func tokenSource(ctx context.Context, tokenFile, credentialsFile string) (oauth2.TokenSource, error) {
	if tok, err := tokenFromFile(tokenFile); err == nil && tok.Valid() {
		return oauth2.StaticTokenSource(tok), nil
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("no usable cached token and no credentials file: %w", err)
	}
	cfg, err := google.JWTConfigFromJSON(b, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service-account credentials: %w", err)
	}

	ts := cfg.TokenSource(ctx)
	if tok, err := ts.Token(); err == nil && tokenFile != "" {
		// Cache write failure is not worth failing the run over.
		_ = saveToken(tokenFile, tok)
	}
	return ts, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	if path == "" {
		return nil, os.ErrNotExist
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
