// Package testing provides the conformance test suite for store.IOwnerStore
// implementations.
//
// Usage:
//
//	func TestMyStore(t *testing.T) {
//		storetesting.RunOwnerStoreTests(t, "MyStore", myFactory)
//	}
package testing
