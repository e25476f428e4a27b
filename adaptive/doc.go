// Package adaptive grows a clustering from a small seed count by
// repeatedly testing each cluster for a profitable two-way split.
// Two drivers share the split mechanics: XMeans accepts a split when
// the Bayesian Information Criterion improves, GMeans when the cluster
// fails a Jarque-Bera normality test along the split axis.
package adaptive
