// Package mysql persists relayed message bodies into MySQL.
//
// The store:
//   - inserts one row per message into messages(body) by default
//   - binds the body as the single statement parameter
//   - runs synchronously on a pool limited to one connection (see Connect)
//
// Schema returns the expected table definition. The relay never creates or migrates tables.
package mysql
