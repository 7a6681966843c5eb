// Package lower converts a resolved Source Tree into an Output Tree.
//
// One call to Lower consumes one ast.File. The walk is depth-first and
// single-threaded; every rule receives an immutable scopeContext naming the
// container that owns whatever the rule creates. Declarations get their
// symbol before their node exists (declare), the node is built around the
// symbol, and the node is then attached to it (bind). References that do not
// resolve degrade to ErrorCall placeholders with one diagnostic each; broken
// input (an unknown variant, an unresolved type, an undecided modality)
// aborts the call with an *InvariantViolation.
package lower
