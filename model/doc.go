// Package model defines the types shared between the clustering engine
// and its callers: the immutable per-invocation Settings and the
// ClusterResult handed back.
package model
