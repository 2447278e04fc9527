package parameter

// Navigation graph
const (
	// NavBucketSize is the spatial bucket edge length used for edge lookups
	NavBucketSize = 128.0

	// NavWeldDistance joins edge endpoints closer than this into one graph vertex
	NavWeldDistance = 2.0
)
