/*
Package registry provides the process-wide directory from subject identity
to its built capstore.Composition.

Identity differs by subject kind, so the directory is split across two
backing stores. Pointer subjects are held through a weak association: the
registry never keeps a subject alive, and its entry vanishes automatically
once the subject is collected. Value subjects have no reclaimable identity
and are held by value equality in a strong map until explicit Remove (or
ClearValues); eviction of value subjects is a caller responsibility.

	w := &Widget{Name: "toolbar"}
	b := capstore.New(w)
	_ = b.Add(Renderer{})
	comp, err := registry.BuildAndRegister(registry.Default(), b)

	found, ok := registry.TryFind(registry.Default(), w)

The Provider abstraction replaces the built-in stores behind an identical
query surface; NewExpiringProvider wires a TTL-evicting value store for
deployments with churning value subjects.
*/
package registry
