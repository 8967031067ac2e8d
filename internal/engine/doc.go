// Package engine implements the questionnaire core: normalization,
// conditional logic, validation, and structural editing.
//
// ARCHITECTURE:
//
// Single-writer synchronous store:
// All state lives in a Store owning exactly one (index, answers) pair.
// Every operation runs to completion before returning; there is no
// suspension point inside normalization, condition evaluation, or a
// structural edit. The store assumes one logical writer and is not
// internally locked.
//
// Snapshot discipline:
// Structural edits never mutate the committed index. Each edit clones the
// node map, clones only the nodes it touches, and commits the new snapshot
// atomically. Untouched nodes keep their identity so consumers doing
// shallow equality checks see no spurious change, and readers holding an
// old snapshot never observe a half-applied edit.
//
// Derived state:
// Selectors (visibility, enablement, requiredness, validation, hydration)
// are computed on demand from the current snapshot. Nothing derived is
// cached, so interleaving reads with mutations is always safe.
//
// Totality:
// Condition evaluation never fails. Malformed numbers, missing targets,
// and unsupported operator/value combinations evaluate to false; dangling
// child references hydrate to a default leaf. Structural mutations signal
// failure through binary results ("" or false), never through panics.
package engine
