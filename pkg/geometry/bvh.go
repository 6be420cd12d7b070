package geometry

import "github.com/df07/go-recursive-raytracer/pkg/core"

// Bounded is an object that can be placed in a BVH
type Bounded interface {
	core.Hittable
	BoundingBox() core.AABB
}

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Objects     []Bounded // Objects for leaf nodes (nil for internal nodes)
}

// BVH is a Bounding Volume Hierarchy over a fixed set of objects. It answers the
// same nearest-hit query as HittableList.
type BVH struct {
	Root *BVHNode
}

// Leaf threshold: if we have this many or fewer objects, store them in a leaf node
const leafThreshold = 8

// NewBVH constructs a BVH from a slice of objects. The slice is copied.
func NewBVH(objects []Bounded) *BVH {
	if len(objects) == 0 {
		return &BVH{}
	}

	objectsCopy := make([]Bounded, len(objects))
	copy(objectsCopy, objects)

	return &BVH{Root: buildBVH(objectsCopy)}
}

// buildBVH recursively splits objects at the midpoint of the longest axis
func buildBVH(objects []Bounded) *BVHNode {
	boundingBox := objects[0].BoundingBox()
	for _, object := range objects[1:] {
		boundingBox = boundingBox.Union(object.BoundingBox())
	}

	leaf := &BVHNode{BoundingBox: boundingBox, Objects: objects}
	if len(objects) <= leafThreshold {
		return leaf
	}

	axis := boundingBox.LongestAxis()
	minVal, maxVal := boundingBox.Min.Axis(axis), boundingBox.Max.Axis(axis)
	if maxVal <= minVal {
		return leaf
	}

	left, right := partitionObjects(objects, axis, (minVal+maxVal)*0.5)
	if len(left) == 0 || len(right) == 0 {
		return leaf
	}

	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(left),
		Right:       buildBVH(right),
	}
}

// partitionObjects splits objects by which side of splitPos their box center falls on
func partitionObjects(objects []Bounded, axis int, splitPos float64) (left, right []Bounded) {
	for _, object := range objects {
		if object.BoundingBox().Center().Axis(axis) < splitPos {
			left = append(left, object)
		} else {
			right = append(right, object)
		}
	}
	return left, right
}

// Hit returns the closest hit in (tMin, tMax) among all objects in the hierarchy
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	hit := bvh.hitNode(bvh.Root, ray, tMin, tMax)
	return hit, hit != nil
}

// hitNode returns the closest hit below node, or nil
func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) *core.HitRecord {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil
	}

	var closestHit *core.HitRecord
	closestSoFar := tMax

	if node.Objects != nil {
		for _, object := range node.Objects {
			if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit {
				closestSoFar = hit.T
				closestHit = hit
			}
		}
		return closestHit
	}

	for _, child := range [2]*BVHNode{node.Left, node.Right} {
		if hit := bvh.hitNode(child, ray, tMin, closestSoFar); hit != nil {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit
}

// BoundingBox returns the overall bounding box of the BVH
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.Root == nil {
		return core.AABB{}
	}
	return bvh.Root.BoundingBox
}
