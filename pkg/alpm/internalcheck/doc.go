// Package internalcheck holds source-level policy tests for the binding.
//
// The tests load the module with golang.org/x/tools/go/packages and check
// rules the compiler cannot enforce, such as which code may call into C or
// release native lists.
//
// # Internal Use Only
//
// This package has no API. It exists only for its tests.
package internalcheck
