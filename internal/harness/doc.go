// Package harness provides a YAML-driven conformance harness for the form
// engine.
//
// A scenario file declares a form tree, a sequence of answer and
// structural-edit steps, and assertions over the derived state the engine
// computes after the steps ran. Scenarios exercise the full store surface
// the way an embedding application would: loading a definition, recording
// answers, editing structure, and reading back visibility, validation
// errors, and export output.
//
// Two comparison modes are available:
//
//   - Inline assertions (Scenario.Assertions) check individual facts such
//     as "field details is hidden" or "there are 2 validation errors".
//     Failures carry expected/actual context in Result.Errors.
//
//   - Golden snapshots (RunWithGolden) serialize the complete final state
//     and compare it byte-for-byte against a checked-in golden file.
//     Snapshots catch unintended changes inline assertions never mention.
//
// Scenarios parse with strict field checking: an unknown YAML key is an
// error, not a silently ignored typo. Every run uses a fresh store, so
// scenarios cannot leak state into each other and the same scenario always
// produces an identical snapshot.
package harness
