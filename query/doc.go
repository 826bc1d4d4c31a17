// Package query evaluates boolean tag expressions against a tag set.
//
// Expressions are CEL with a single variable, tags, and member functions
// that answer hierarchy questions through a registry:
//
//	tags.has("Status.Debuff")               // held, or a descendant held
//	tags.hasExact("Status.Debuff.Slow")     // held exactly
//	tags.hasAny(["Status.Stun", "Status.Root"])
//	tags.hasAll(["Combat", "Status.Debuff"])
//	tags.hasAnyExact([...]), tags.hasAllExact([...])
//
// Ordinary CEL operators combine them:
//
//	tags.has("Status.Debuff") && !tags.hasExact("Status.Immune")
//
// Names that the registry does not know are hashed like any other path;
// they only match exactly.
package query
