package supabase

import (
	"net/url"
	"strings"

	"portfolio-intelligence/pkg/apperror"

	"github.com/supabase-community/postgrest-go"
)

const restPath = "/rest/v1"

// Config holds what is needed to reach a Supabase project's REST endpoint.
type Config struct {
	URL    string
	Key    string
	Schema string
}

// NewClient builds a PostgREST client for the project at cfg.URL, authenticated with cfg.Key.
func NewClient(cfg Config) (*postgrest.Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, &apperror.ConfigurationError{Field: "SUPABASE_URL"}
	}
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, &apperror.ConfigurationError{Field: "SUPABASE_KEY"}
	}

	u, err := url.Parse(strings.TrimSpace(cfg.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &apperror.ConfigurationError{Field: "SUPABASE_URL", Reason: "must be an absolute http(s) URL"}
	}

	schema := cfg.Schema
	if schema == "" {
		schema = "public"
	}

	restURL := strings.TrimRight(u.String(), "/") + restPath
	client := postgrest.NewClient(restURL, schema, map[string]string{
		"apikey":        cfg.Key,
		"Authorization": "Bearer " + cfg.Key,
	})
	if client.ClientError != nil {
		return nil, &apperror.ConfigurationError{Field: "SUPABASE_URL", Reason: client.ClientError.Error()}
	}
	return client, nil
}
