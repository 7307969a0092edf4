// Package fixture loads function fixtures from *.scopes.json files.
//
// A fixture bundles everything scope resolution needs for one function:
// the source text, the function's AST as nested nodes, the lowered scope
// tree with its locals, and optional resolution entries for identifier
// patterns. The decoder materializes the nested nodes into arena-backed
// AST storage so the fixture is indistinguishable from parser output.
package fixture
