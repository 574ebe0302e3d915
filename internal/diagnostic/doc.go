// Package diagnostic provides structured errors and warnings found while
// validating class catalogs.
//
// Every diagnostic carries a stable code, a message and optionally the class
// and attribute it relates to.
package diagnostic
