// Package memory provides mutex-guarded in-memory implementations of the
// store interfaces. They back the service tests and let the server run
// without a database. Values are copied on the way in and out, so callers
// never share memory with the store.
package memory
