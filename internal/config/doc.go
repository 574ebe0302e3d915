// Package config loads the failover command line configuration.
package config
