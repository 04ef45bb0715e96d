package metadata

// SignatureEqual reports whether two argument descriptors agree on every
// field the client-visible ABI depends on. Size and Offset are deliberately
// excluded: they are per-device layout, not signature.
func SignatureEqual(a, b ArgInfo) bool {
	return a.TypeName == b.TypeName &&
		a.Name == b.Name &&
		a.AddressSpace == b.AddressSpace &&
		a.Readable == b.Readable &&
		a.Writable == b.Writable &&
		a.IsConst == b.IsConst &&
		a.IsRestrict == b.IsRestrict &&
		a.IsVolatile == b.IsVolatile
}

// SignaturesEqual reports whether two argument lists declare the identical
// signature, index by index. This is the cross-device consistency check that
// gates multi-device kernel creation.
func SignaturesEqual(a, b []ArgInfo) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !SignatureEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
