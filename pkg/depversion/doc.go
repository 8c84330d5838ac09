// SPDX-License-Identifier: MPL-2.0

// Package depversion finds the minimum version of a dependency declared by the
// project that encloses a fixed anchor directory.
//
// Starting from the anchor, the resolver moves to the parent directory and
// reads its package.json, repeating until a manifest declares the package or
// the filesystem root has been checked. A missing, unreadable or malformed
// manifest only means "try the next ancestor". The first declaration wins and
// its range is reduced to the lowest version it admits.
//
// The result is never nil. A package declared nowhere resolves to 0.0.0 so
// callers can compare versions without a separate "not found" branch:
//
//	v, err := depversion.MinimumDependencyVersion("vue", false)
//	if err != nil {
//		return err // only a malformed range in the manifest gets here
//	}
//	if v.Major() >= 3 {
//		// Vue 3 rule variant
//	}
//
// Each call walks the tree again; nothing is cached.
package depversion
