package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type postgrest struct {
	http *resty.Client
	log  *zap.Logger
}

// NewPostgREST talks to a PostgREST-style table API (Supabase's /rest/v1).
func NewPostgREST(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) Client {
	if log == nil {
		log = zap.NewNop()
	}
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(base, "/rest/v1") {
		base += "/rest/v1"
	}
	c := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("apikey", apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	return &postgrest{http: c, log: log}
}

func (p *postgrest) FetchAll(ctx context.Context, table string, out any) error {
	resp, err := p.http.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		Get("/" + table)
	if err := check(resp, err, table, "select"); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("remote select %s: decode: %w", table, err)
	}
	p.log.Debug("fetched", zap.String("table", table), zap.Int("bytes", len(resp.Body())))
	return nil
}

func (p *postgrest) Insert(ctx context.Context, table string, record any) error {
	resp, err := p.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody([]any{record}).
		Post("/" + table)
	return check(resp, err, table, "insert")
}

func (p *postgrest) Update(ctx context.Context, table string, f Filter, record any) error {
	resp, err := p.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetQueryParam(f.Column, "eq."+f.Value).
		SetBody(record).
		Patch("/" + table)
	return check(resp, err, table, "update")
}

func (p *postgrest) Delete(ctx context.Context, table string, f Filter) error {
	resp, err := p.http.R().
		SetContext(ctx).
		SetQueryParam(f.Column, "eq."+f.Value).
		Delete("/" + table)
	return check(resp, err, table, "delete")
}

func check(resp *resty.Response, err error, table, op string) error {
	if err != nil {
		return fmt.Errorf("remote %s %s: %w", op, table, err)
	}
	if resp.IsError() {
		return &APIError{Table: table, Op: op, Status: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
	}
	return nil
}
