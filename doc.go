// Package gameplaytags maps hierarchical, dot-separated tag names such as
// "Combat.Damage.Fire" to stable 32-bit identifiers and answers hierarchy
// questions about them without comparing strings at runtime.
//
// # Core Concepts
//
//   - ID: the FNV-1a hash of a canonical tag path. Zero (None) means "no tag".
//     IDs are computed without a registry and are stable across processes,
//     so they are safe to persist as bare integers.
//   - Registry: the index derived from a tag universe (an ordered list of
//     canonical paths). Every non-final prefix of a listed path is an
//     implicit tag, so listing "Combat.Damage.Fire" also registers "Combat"
//     and "Combat.Damage". The registry records each tag's ancestors.
//   - Set: a duplicate-free collection of IDs with hierarchy-aware queries.
//     A Set holding "Status.Debuff.Slow" satisfies HasTag("Status.Debuff").
//
// # Getting Started
//
//	reg := gameplaytags.NewRegistry(
//		gameplaytags.WithPaths("Combat.Damage.Fire", "Status.Debuff.Slow"),
//	)
//	gameplaytags.SetDefault(reg)
//
//	fire := gameplaytags.FromPath("Combat.Damage.Fire")
//	fire.MatchesOrIsDescendantOf(gameplaytags.FromPath("Combat")) // true
//
//	effects := gameplaytags.NewSet(gameplaytags.FromPath("Status.Debuff.Slow"))
//	effects.HasTag(gameplaytags.FromPath("Status.Debuff"))      // true
//	effects.HasTagExact(gameplaytags.FromPath("Status.Debuff")) // false
//
// # Registry Lifecycle
//
// A registry starts unbuilt. Build (from a list) or Reload (from its
// Source) swaps in a complete new index atomically; the first query on an
// unbuilt registry performs an implicit Reload. A Source that fails leaves
// an empty but valid registry, on which every hierarchy query is false.
//
// Builds must be serialized by the caller. Queries may run concurrently
// with each other and with a build.
//
// # Sources
//
// The source sub-package loads tag universes from YAML, TOML, JSON or text
// files, Redis and etcd, and can watch files or etcd prefixes to rebuild
// on change. The query sub-package evaluates boolean tag expressions
// against a Set.
package gameplaytags
