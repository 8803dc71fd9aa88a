// Package main hosts the assetcarver CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, applies flag
// overrides, and hands off to the internal packages: extraction runs, the
// persisted history and run ledger, cache purging, log viewing and
// environment status.
//
// Keep this package thin. Behaviour belongs in internal/; commands here only
// translate flags into configuration and render results as tables or JSON.
package main
