// Package source provides tag universes for a gameplaytags.Registry.
//
// Every source returns canonical, de-duplicated paths in a stable order, so
// the same backing data always produces the same registry. Entries that
// fail canonicalization are logged and skipped rather than failing the load.
//
// # Available Sources
//
//   - File: a YAML, TOML, JSON or plain-text tag list on disk
//   - Redis: a Redis list (ordered) or set (sorted on read)
//   - Etcd: every key under a prefix, one tag per key
//   - Chain: several sources concatenated
//
// # Live Reload
//
// FileWatcher and Etcd.Watch call a Reloader, normally the registry itself,
// whenever the backing data changes:
//
//	reg := gameplaytags.NewRegistry(gameplaytags.WithSource(source.NewFile("tags.yaml")))
//	w, err := source.NewFileWatcher("tags.yaml", reg)
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	go w.Run(ctx)
package source
