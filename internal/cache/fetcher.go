// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/agustif/llm-arxiv/internal/arxiv"
	"github.com/agustif/llm-arxiv/pkg/types"
)

// Remote is the network side of paper fetching. *arxiv.Client satisfies it.
type Remote interface {
	Metadata(ctx context.Context, id arxiv.Identifier) (*types.Paper, error)
	PDF(ctx context.Context, id arxiv.Identifier) ([]byte, error)
}

// Fetcher serves papers from the local store and falls back to the remote
// catalog, populating the store on the way through. A nil Store disables
// caching entirely.
type Fetcher struct {
	Remote Remote
	Store  *Store
}

// Fetch returns metadata and PDF bytes for the paper.
func (f *Fetcher) Fetch(ctx context.Context, id arxiv.Identifier) (*types.Paper, []byte, error) {
	if f.Store != nil {
		if paper, pdf, err := f.Store.Get(id.String()); err == nil {
			log.Debug().Str("id", id.String()).Msg("paper served from local store")
			return paper, pdf, nil
		}
	}

	paper, err := f.Remote.Metadata(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := f.Remote.PDF(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if f.Store != nil {
		if err := f.Store.Put(paper, pdf); err != nil {
			// The paper is already in hand; a store failure only costs
			// the next invocation a refetch.
			log.Warn().Str("id", id.String()).Err(err).Msg("caching paper failed")
		}
	}
	return paper, pdf, nil
}
