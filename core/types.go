// Package core contains the fundamental types used throughout the paper network.
package core

import "math"

// NoNode marks the absence of a node (nothing dragged, nothing hovered).
const NoNode = -1

// Point represents a 2D coordinate in container-local pixels.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Offset is the fixed vector recorded between two linked nodes.
type Offset = Point

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Neg returns -p.
func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

// Scale returns p * k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Len returns the euclidean length of p.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dist returns the distance between p and q.
func (p Point) Dist(q Point) float64 {
	return p.Sub(q).Len()
}

// Paper is one record of the input data set.
type Paper struct {
	Name   string `json:"name" yaml:"name"`
	Author string `json:"author" yaml:"author"`
	Year   int    `json:"time" yaml:"time"`
}

// Node represents a bubble on the network surface.
type Node struct {
	ID int `json:"id"`
	Paper
	Pos Point `json:"pos"`
}

// Contains checks if a point is inside the node's square bubble box.
func (n Node) Contains(p Point, size float64) bool {
	return p.X >= n.Pos.X && p.X < n.Pos.X+size &&
		p.Y >= n.Pos.Y && p.Y < n.Pos.Y+size
}

// Center returns the center point of the bubble box.
func (n Node) Center(size float64) Point {
	return Point{X: n.Pos.X + size/2, Y: n.Pos.Y + size/2}
}

// Size is a measured container size. The zero value means unmeasured.
type Size struct {
	W float64 `json:"width" yaml:"width"`
	H float64 `json:"height" yaml:"height"`
}

// Known reports whether the size holds a real measurement.
func (s Size) Known() bool {
	return s.W > 0 && s.H > 0
}

// Scale returns the size scaled by the given factors.
func (s Size) Scale(kx, ky float64) Size {
	return Size{W: s.W * kx, H: s.H * ky}
}

// FindNode returns the index of the node with the given id, or -1.
func FindNode(nodes []Node, id int) int {
	for i, n := range nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// CloneNodes returns a copy of the node slice.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	copy(out, nodes)
	return out
}
