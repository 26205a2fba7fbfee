// File path: internal/registry/extractor.go
package registry

import (
	"context"
	"encoding/json"

	"github.com/mkarlsen/trialstream/internal/common"
	"github.com/mkarlsen/trialstream/internal/config"
)

// Extractor drives the client across pages using the API's continuation
// token. Pagination is strictly sequential: each page depends on the token
// returned by the previous one, and the upstream service penalizes
// concurrent request patterns.
type Extractor struct {
	cfg    *config.Config
	client *Client
}

// NewExtractor wires an extractor to a client.
func NewExtractor(cfg *config.Config, client *Client) *Extractor {
	return &Extractor{cfg: cfg, client: client}
}

// Run fetches up to maxRecords records and hands each raw record to yield in
// order. It returns the number of records yielded. Termination: token
// exhaustion, an empty page, maxRecords reached, context cancellation
// (checked at page boundaries), or a fatal fetch error. Records already
// yielded are never rolled back here; persisting partial progress is the
// caller's concern.
func (e *Extractor) Run(ctx context.Context, maxRecords int, yield func(json.RawMessage) error) (int, error) {
	logger := common.Logger()
	if maxRecords <= 0 {
		maxRecords = e.cfg.MaxRecords
	}

	e.client.WarmUp(ctx)

	token := ""
	total := 0
	logger.Info("registry: extraction started", "max_records", maxRecords, "page_size", e.cfg.PageSize)
	for total < maxRecords {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		remaining := maxRecords - total
		size := e.cfg.PageSize
		if remaining < size {
			size = remaining
		}
		page, err := e.client.FetchPage(ctx, token, size)
		if err != nil {
			logger.Error("registry: extraction aborted", "fetched", total, "error", err)
			return total, err
		}
		if len(page.Studies) == 0 {
			logger.Info("registry: no more studies available", "fetched", total)
			break
		}
		for _, raw := range page.Studies {
			if err := yield(raw); err != nil {
				return total, err
			}
			total++
			if total >= maxRecords {
				break
			}
		}
		if page.NextPageToken == "" {
			logger.Info("registry: reached last page", "fetched", total)
			break
		}
		token = page.NextPageToken
		logger.Info("registry: page complete", "fetched", total, "max_records", maxRecords)
	}
	logger.Info("registry: extraction finished", "fetched", total)
	return total, nil
}
