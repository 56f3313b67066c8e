// Package sqlpp holds the query trees handed to database connectors and the
// protocol used to turn them into SQL text.
//
// Every node implements Node. A connector supplies a Context; nodes write
// their own tokens through Context.Write and hand each child back to
// Context.Serialize, which gives the connector the chance to apply its own
// rules to any node type before falling back to Node.SerializeTo.
//
// Trees are expected to be valid by construction. The package performs no
// type checking of columns, tables or joins.
package sqlpp
