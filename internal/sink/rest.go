package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"esbd-engine/internal/domain"

	"github.com/go-resty/resty/v2"
)

type RESTConfig struct {
	URL          string // project URL, e.g. https://xyz.supabase.co
	Key          string
	Table        string
	ConflictKeys string
	Timeout      time.Duration
}

// RESTSink upserts through a PostgREST endpoint (Supabase).
type RESTSink struct {
	cfg    RESTConfig
	client *resty.Client
}

func NewREST(cfg RESTConfig) *RESTSink {
	if cfg.ConflictKeys == "" {
		cfg.ConflictKeys = DefaultConflictKeys
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &RESTSink{
		cfg:    cfg,
		client: resty.New().SetTimeout(cfg.Timeout),
	}
}

func (s *RESTSink) Name() string { return "rest" }

func (s *RESTSink) Endpoint() string {
	return fmt.Sprintf("%s/rest/v1/%s", strings.TrimRight(s.cfg.URL, "/"), s.cfg.Table)
}

func (s *RESTSink) Upsert(ctx context.Context, records []domain.CanonicalRecord) (Result, error) {
	if records == nil {
		records = []domain.CanonicalRecord{}
	}
	body, err := json.Marshal(records)
	if err != nil {
		return Result{}, fmt.Errorf("rest sink encode: %w", err)
	}

	res, err := s.client.R().
		SetContext(ctx).
		SetHeader("apikey", s.cfg.Key).
		SetAuthToken(s.cfg.Key).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "resolution=merge-duplicates").
		SetQueryParam("on_conflict", s.cfg.ConflictKeys).
		SetBody(body).
		Post(s.Endpoint())
	if err != nil {
		return Result{}, fmt.Errorf("rest sink post: %w", err)
	}
	if !res.IsSuccess() {
		return Result{Status: res.StatusCode()}, &StatusError{Code: res.StatusCode(), Body: res.String()}
	}
	return Result{Status: res.StatusCode(), Rows: len(records)}, nil
}
