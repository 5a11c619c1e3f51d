//go:build !libalpm || !cgo

package backend

import "strings"

// PkgVercmp compares two full version strings ([epoch:]version[-release]).
// It returns <0 if a is older than b, 0 if they are equal and >0 if a is
// newer.
func PkgVercmp(a, b string) int {
	if a == b {
		return 0
	}
	e1, v1, r1, ok1 := parseEVR(a)
	e2, v2, r2, ok2 := parseEVR(b)
	ret := rpmvercmp(e1, e2)
	if ret == 0 {
		ret = rpmvercmp(v1, v2)
		if ret == 0 && ok1 && ok2 {
			ret = rpmvercmp(r1, r2)
		}
	}
	return ret
}

// parseEVR splits epoch, version and release. A missing epoch is "0".
// hasRelease reports whether a "-" was present, so "1.0-" has an empty
// release while "1.0" has none.
func parseEVR(evr string) (epoch, version, release string, hasRelease bool) {
	i := 0
	for i < len(evr) && isDigit(evr[i]) {
		i++
	}
	rest := evr[i:]
	if se := strings.LastIndexByte(rest, '-'); se >= 0 {
		release = rest[se+1:]
		hasRelease = true
		evr = evr[:i+se]
	}
	if i < len(evr) && evr[i] == ':' {
		epoch = evr[:i]
		version = evr[i+1:]
		if epoch == "" {
			epoch = "0"
		}
	} else {
		epoch = "0"
		version = evr
	}
	return epoch, version, release, hasRelease
}

func rpmvercmp(a, b string) int {
	if a == b {
		return 0
	}
	// one/two walk the strings; ptr1/ptr2 mark the end of the last segment.
	one, two := 0, 0
	ptr1, ptr2 := 0, 0
	for one < len(a) && two < len(b) {
		for one < len(a) && !isAlnum(a[one]) {
			one++
		}
		for two < len(b) && !isAlnum(b[two]) {
			two++
		}
		if one >= len(a) || two >= len(b) {
			break
		}
		// different separator lengths decide immediately
		if one-ptr1 != two-ptr2 {
			if one-ptr1 < two-ptr2 {
				return -1
			}
			return 1
		}
		ptr1, ptr2 = one, two

		var isnum bool
		if isDigit(a[ptr1]) {
			for ptr1 < len(a) && isDigit(a[ptr1]) {
				ptr1++
			}
			for ptr2 < len(b) && isDigit(b[ptr2]) {
				ptr2++
			}
			isnum = true
		} else {
			for ptr1 < len(a) && isAlpha(a[ptr1]) {
				ptr1++
			}
			for ptr2 < len(b) && isAlpha(b[ptr2]) {
				ptr2++
			}
		}

		if one == ptr1 {
			return -1
		}
		// numeric segments are always newer than alpha segments
		if two == ptr2 {
			if isnum {
				return 1
			}
			return -1
		}

		seg1, seg2 := a[one:ptr1], b[two:ptr2]
		if isnum {
			seg1 = strings.TrimLeft(seg1, "0")
			seg2 = strings.TrimLeft(seg2, "0")
			if len(seg1) > len(seg2) {
				return 1
			}
			if len(seg2) > len(seg1) {
				return -1
			}
		}
		if c := strings.Compare(seg1, seg2); c != 0 {
			return c
		}
		one, two = ptr1, ptr2
	}

	if one >= len(a) && two >= len(b) {
		return 0
	}
	// A remaining alpha string never beats an empty one.
	if (one >= len(a) && !isAlpha(b[two])) || (one < len(a) && isAlpha(a[one])) {
		return -1
	}
	return 1
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }
