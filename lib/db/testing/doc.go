// Package testing provides standardised tests and benchmarks for
// database implementations that satisfy the db.RecordDB interface.
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() (db.RecordDB, error) {
//		return NewMyDatabase()
//	}
//
//	// Running the standard test suite
//	dbtesting.RunRecordDBTests(t, "MyDatabase", factory)
//
//	// Running performance benchmarks
//	dbtesting.RunRecordDBBenchmarks(b, "MyDatabase", factory)
package testing
