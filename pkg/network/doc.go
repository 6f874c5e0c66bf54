// Package network computes clustered node-link layouts of artist–exhibition
// membership for a single year.
//
// # Overview
//
// The engine turns already-filtered membership records into a renderer-agnostic
// payload: positioned nodes, a deduplicated edge set, per-exhibition groups and
// summary statistics. Nothing here performs I/O; loading tables and rendering
// the result live in pkg/membership and pkg/render.
//
// # Pipeline
//
// [Build] runs the stages in order, each consuming the previous stage's output:
//
//  1. [NewIndex]: per-artist nodes and exhibition → member sets
//  2. [PlanCenters]: one anchor point per exhibition (radial or relaxation)
//  3. [Decide]: full detail or meta-node collapse, per exhibition
//  4. [PlaceCore]: golden-angle spiral placement of unambiguous members
//  5. [PlaceFuzzy] and [ResolveCollisions]: ambiguous members and declutter
//  6. [BuildLinks]: the deduplicated edge set
//  7. [Cull]: per-edge visibility for the caller's view transform
//
// Every stage is deterministic for a fixed [Config] (jitter is drawn from a
// seeded PCG source) and every iterative loop has a fixed iteration budget.
//
// # Nodes and Edges
//
// Nodes live in an arena keyed by id. Artist ids are normalized names
// ([NormalizeName]); synthetic nodes use the "meta:" and "anchor:" prefixes.
// Edges only store id pairs. The identity of an edge is its unordered pair
// ([Edge.Key]); the first registered direction wins.
//
// # Fuzziness
//
// Each artist carries a continuous score, 1 − max(weights), and a boolean
// classification. The boolean comes from the explicit ambiguity marker when a
// record has one and from Fuzziness >= [Config.FuzzyThreshold] otherwise.
// Records with a missing or entirely non-numeric weight vector are fuzzy and
// flagged Invalid; they are placed around the canvas centre.
//
// # View Transform
//
// The pan/zoom [Transform] is owned by the caller. [Build] takes the current
// transform and returns it unchanged on the [Layout]; call [Cull] again when it
// changes instead of rebuilding.
package network
