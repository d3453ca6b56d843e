// Package types defines the item list entities, the directory index, the
// key/value store contract, shape validators, and the standard errors shared
// by the storage core and its presentation layers.
package types
