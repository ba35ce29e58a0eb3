/*
Package capstore lets an arbitrary subject carry an open-ended, typed set of
capability values (behaviors, policies, metadata) retrievable by exact
registration type, in a deterministic order, or through an orthogonal tag
index. Independent modules extend a shared subject type without inheritance
or circular dependencies.

The workflow is build-once, query-forever:

	type Widget struct{ Name string }

	w := &Widget{Name: "toolbar"}
	b := capstore.New(w)
	_ = b.Add(Renderer{Order: 10})
	_ = b.AddAs(jsonCodec{}, capstore.As[Codec](), capstore.As[Validator]())
	comp, err := b.Build()

	codec, ok := capstore.TryGet[Codec](comp)
	all := capstore.GetAll[Renderer](comp)

Key properties:
  - Contract-only semantics: a capability is retrievable by type T iff T was
    a member of its explicit registration-type set. Implemented but
    unregistered interfaces never match.
  - Stable ordering: buckets sort by (CapabilityOrder, insertion sequence),
    computed once at Build.
  - At most one primary capability per subject, enforced at Build.
  - Optional tag index (none, eager, or threshold-driven auto) whose results
    always equal a linear scan; strategy is a performance choice, never a
    semantics choice.
  - Builders are one-shot and not thread-safe; built Compositions are
    immutable and safe for unsynchronized concurrent reads.

The registry subpackage adds a process-wide subject → Composition directory
with weak (auto-evicting) storage for pointer subjects and strong storage
for value subjects.
*/
package capstore
