// Package cli implements the failover command line tool.
package cli
