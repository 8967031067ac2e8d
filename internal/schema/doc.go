// Package schema provides the data model for the questionnaire engine.
//
// This package contains type definitions only. All other internal packages
// import schema; schema imports nothing internal. This keeps the model the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Field definitions and answers are strictly separate: no answer data
//     inside a Field, no structural data inside an Answer
//   - Answer is a sealed union; every consumer switches exhaustively
//   - Field IDs are globally unique across the whole form; option/row/
//     column IDs are unique only within their owning field
//   - The normalized Index is the canonical runtime structure; the nested
//     tree is derived and never separately persisted
package schema
