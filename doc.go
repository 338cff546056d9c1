// Package fcl implements a dynamic AABB-tree broad-phase collision index
// and a continuous-collision dispatch layer for 3D scenes: a
// self-balancing bounding-volume hierarchy, traversal kernels for single-
// object, self, and manager-to-manager queries, octree descent for
// occupancy-volume objects, and naive/conservative-advancement/polynomial
// continuous collision detection between objects moving along a
// parameterized motion.
//
// Narrow-phase geometric queries (exact contact points, penetration depth)
// are out of scope; callers supply a NarrowPhaseSolver collaborator for
// anything beyond AABB overlap and separation bounds.
package fcl
