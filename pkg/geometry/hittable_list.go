package geometry

import "github.com/df07/go-recursive-raytracer/pkg/core"

// HittableList is an ordered collection of objects that resolves the nearest hit
// across all of its members. It is append-only while a scene is being built and
// read-only during rendering.
type HittableList struct {
	objects []core.Hittable
}

// NewHittableList creates an empty list. capacity only sizes the backing slice.
func NewHittableList(capacity int) *HittableList {
	return &HittableList{objects: make([]core.Hittable, 0, max(capacity, 0))}
}

// Add appends an object to the list
func (l *HittableList) Add(object core.Hittable) {
	l.objects = append(l.objects, object)
}

// Len returns the number of objects in the list
func (l *HittableList) Len() int {
	return len(l.objects)
}

// Objects returns the objects in insertion order
func (l *HittableList) Objects() []core.Hittable {
	return l.objects
}

// Hit returns the closest hit in (tMin, tMax) among all objects.
// Each object is tested with tMax shrunk to the closest hit found so far.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax

	for _, object := range l.objects {
		if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
