package adaptive

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// membership inverts a label vector into one bitmap of sample indices
// per cluster. Out-of-range labels are dropped.
func membership(labels []int, clusterCount int) []*roaring.Bitmap {
	if clusterCount <= 0 {
		return nil
	}

	sets := make([]*roaring.Bitmap, clusterCount)
	for c := range sets {
		sets[c] = roaring.New()
	}
	for idx, label := range labels {
		if label >= 0 && label < clusterCount {
			sets[label].Add(uint32(idx))
		}
	}
	return sets
}
