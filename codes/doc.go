// Package codes holds the static classification tables of the tag cache.
//
// Three total mappings are provided:
//
//   - [FunctionCategory]: operation code to category (read, write, read-write, status, diagnostic).
//   - [NativeWidth]: operation code to the cache's native data width.
//   - [LinkCategoryOf]: link identifier to transport category (network, serial, serial-over-network).
//
// None of them fail. Input outside the known set yields the Unknown variant of the
// result type, and callers must check for it explicitly before proceeding.
//
// The package also provides [Table], a small name to code association list, and the
// symbolic resolvers [ParseOpCode], [ParseWidth] and [ParseLink] built on it.
package codes
