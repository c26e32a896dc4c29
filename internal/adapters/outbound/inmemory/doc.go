// Package inmemory contains an in-process document layer implementing the
// paramconv outbound ports.
//
// Purpose
// -------
// These adapters let the converter run completely in-process without a
// document store. They back the odmconv CLI (fixtures loaded from the config
// file) and the tests, and are not meant for production data.
//
// Files and responsibilities
// --------------------------
//
//   - document_manager.go
//     DocumentManager: implements paramconv.DocumentManager. Seeded with
//     Register(ClassSpec) during bootstrap and sealed with Seal(). Also holds
//     Metadata (paramconv.ClassMetadata) and Document, whose
//     FieldDefinitions report the class fields.
//
//   - repository.go
//     Repository: implements paramconv.Repository and paramconv.MethodProvider.
//     FindOneBy / FindBy match records field by field on string form; finders
//     declared with FinderSpec are registered as paramconv.Method values so
//     signature binding works without reflection. A query on a field the
//     class does not declare fails with a paramconv.ResponseError (400), the
//     way a document store rejects an invalid predicate.
package inmemory
