// Package relay forwards contact and inquiry forms to a third-party form endpoint.
package relay

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Submission is one form post. Subject is free text shown to whoever reads the inbox.
type Submission struct {
	Subject string
	Fields  map[string]string
}

type Relay struct {
	http      *resty.Client
	endpoint  string
	accessKey string
	log       *zap.Logger
}

// New returns a relay posting to endpoint. An empty endpoint gives a relay whose
// Submit always reports failure.
func New(endpoint, accessKey string, timeout time.Duration, log *zap.Logger) *Relay {
	if log == nil {
		log = zap.NewNop()
	}
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Relay{http: c, endpoint: endpoint, accessKey: accessKey, log: log}
}

func (r *Relay) Enabled() bool { return r.endpoint != "" }

// Submit posts {access_key, subject, ...fields} and reports whether the endpoint
// answered 2xx. Form fields cannot override access_key or subject.
func (r *Relay) Submit(ctx context.Context, s Submission) bool {
	if !r.Enabled() {
		r.log.Warn("form relay not configured, dropping submission", zap.String("subject", s.Subject))
		return false
	}
	body := make(map[string]string, len(s.Fields)+2)
	for k, v := range s.Fields {
		body[k] = v
	}
	body["access_key"] = r.accessKey
	body["subject"] = s.Subject

	resp, err := r.http.R().SetContext(ctx).SetBody(body).Post(r.endpoint)
	if err != nil {
		r.log.Warn("form relay request failed", zap.String("subject", s.Subject), zap.Error(err))
		return false
	}
	if !resp.IsSuccess() {
		r.log.Warn("form relay rejected submission",
			zap.String("subject", s.Subject), zap.Int("status", resp.StatusCode()))
		return false
	}
	return true
}
