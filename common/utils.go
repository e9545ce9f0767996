package common

// Coalesce returns the first argument that is not the zero value of T.
// It is used to layer explicit settings over defaults, e.g. a glTF name over a generated one.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float32) float32 {
	return max(0, min(v, 1))
}
