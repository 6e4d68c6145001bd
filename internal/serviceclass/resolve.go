package serviceclass

// Resolve returns local when it is set and shared otherwise.
func Resolve[T comparable](local, shared T) T {
	var zero T
	if local != zero {
		return local
	}
	return shared
}

// ResolveMap is Resolve for maps, where an empty map counts as unset.
func ResolveMap[K comparable, V any](local, shared map[K]V) map[K]V {
	if len(local) > 0 {
		return local
	}
	return shared
}
