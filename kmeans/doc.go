// Package kmeans implements the accelerated Lloyd iteration at the
// heart of the palette engine.
//
// The loop uses Hamerly's pruning bound: each sample carries an upper
// bound on the distance to its own centroid and a lower bound on the
// distance to the second-nearest one, so most samples skip the exact
// nearest-centroid scan on most iterations. A final exact re-assignment
// pass corrects any staleness the pruning accumulated.
package kmeans
