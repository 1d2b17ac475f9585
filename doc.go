package skemadoc

// Package skemadoc generates JSON Schema (draft 4) documents from declared
// schema graphs, shaped by a role:
//
// - Documents and composite fields form an immutable graph; slots may be
//   role-conditional (Var) and resolve first-match-wins per role
// - Recursive and shared documents compile into named definitions plus
//   JSON-Pointer references instead of infinite inlining
// - Resolution scopes compose nested schema ids into correct reference URIs
// - Ordered output keeps declaration order all the way to JSON/YAML bytes
//
// Design policy:
// - The root package carries the engine: contracts, composites, documents,
//   scopes, definitions, errors. Concrete scalar kinds live under fields/.
// - Declarations are validated when made; compilation assumes a well-formed
//   graph and reports failures as *GenerationError with a processing trail.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  user := skemadoc.New("User").
//      Field("login", fields.String().Required()).
//      MustBuild()
//
//  schema, err := user.GetSchema(skemadoc.WithRole("web"))
//  data, err := user.SchemaJSON(skemadoc.WithOrdered())
//
