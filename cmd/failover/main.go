// Package main provides the CLI entrypoint for failover.
//
// failover loads a YAML class catalog and:
//   - Constructs classes, failing over to the classes named by failover_to
//   - Rebinds an instance in place to the first subclass that accepts it
//   - Predicts attribute errors before construction
//   - Describes the merged attributes of each class
package main

import "failover-constructor/internal/cli"

func main() {
	cli.Execute()
}
