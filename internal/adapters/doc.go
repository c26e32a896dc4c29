// Package adapters contains infrastructure implementations of the ports
// declared in pkg/paramconv.
//
// The resolver in pkg/paramconv only knows the DocumentManager, Repository,
// MethodProvider and ClassMetadata interfaces. Adapters implement them on a
// concrete store:
//
//   - outbound/inmemory - document manager and repositories backed by maps,
//     populated from the documents section of the config file
//
// Adapters import from pkg/paramconv and external SDKs. The resolver never
// imports an adapter; cmd/odmconv and internal/config wire them together.
package adapters
