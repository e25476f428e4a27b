// Package seeding produces initial centroid sets for the clustering
// engine.
//
// Four strategies are available: random rejection sampling, a
// similarity-grouping pass over a stride subsample (area), the caller's
// selected colors, and scalable k-means++ (k-means||). Every strategy
// tops up a shortfall with random samples, then deduplicates and
// truncates to the requested k.
package seeding
