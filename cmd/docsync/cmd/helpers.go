package cmd

import (
	"github.com/agentstation/docsync/internal/config"
	"github.com/agentstation/docsync/internal/remote/notion"
	"github.com/agentstation/docsync/internal/transport"
	"github.com/agentstation/docsync/pkg/mapping"
	"github.com/agentstation/docsync/pkg/sync"
)

// remoteClient builds the collection client from validated configuration.
func remoteClient() (*notion.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := transport.New(cfg.Token, cfg.Version)
	return notion.NewClient(t, cfg.BaseURL, cfg.DatabaseID), nil
}

// loadMapping reads the configured mapping file.
func loadMapping() (*mapping.Mapping, mapping.KeySpec, error) {
	return config.LoadMapping(cfg.MappingFile)
}

// remotePages narrows fetched pages to the view reconciliation needs.
func remotePages(pages []notion.Page) []sync.RemotePage {
	out := make([]sync.RemotePage, 0, len(pages))
	for _, p := range pages {
		out = append(out, sync.RemotePage{ID: p.ID, Key: p.Key})
	}
	return out
}
