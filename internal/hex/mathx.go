package hex

// FloorDiv divides rounding toward negative infinity. n must be > 0.
func FloorDiv(a, n int32) int32 {
	q := int64(a) / int64(n)
	if int64(a)%int64(n) < 0 {
		q--
	}
	return int32(q)
}

// FloorMod returns a mod n in [0, n). n must be > 0. The intermediate is
// 64-bit so the whole int32 range wraps correctly.
func FloorMod(a, n int32) int32 {
	m := int64(a) % int64(n)
	if m < 0 {
		m += int64(n)
	}
	return int32(m)
}
