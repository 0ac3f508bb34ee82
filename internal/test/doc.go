// Package test holds the assertion helpers shared by the package tests.
//
// Expect functions report a failure and carry on; Demand functions stop the
// test. Success and failure are judged on bool and error values, a nil error
// being success.
package test
