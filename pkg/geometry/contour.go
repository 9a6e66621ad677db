package geometry

import (
	"image"
	"math"
)

// BoundingRect returns the axis-aligned bounding rectangle of a point set.
// An empty point set yields the zero RectInt.
func BoundingRect(points []image.Point) RectInt {
	if len(points) == 0 {
		return RectInt{}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y

	for _, pt := range points[1:] {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}

	return RectInt{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX + 1,
		Height: maxY - minY + 1,
	}
}

// ContourArea returns the absolute area enclosed by a closed contour,
// computed with the shoelace formula. Contours with fewer than 3 points
// have zero area.
func ContourArea(contour []image.Point) float64 {
	if len(contour) < 3 {
		return 0
	}

	var sum float64
	n := len(contour)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += float64(contour[i].X)*float64(contour[j].Y) -
			float64(contour[j].X)*float64(contour[i].Y)
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the length of the closed polygonal boundary.
func Perimeter(contour []image.Point) float64 {
	if len(contour) < 2 {
		return 0
	}

	var total float64
	n := len(contour)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		dx := float64(contour[j].X - contour[i].X)
		dy := float64(contour[j].Y - contour[i].Y)
		total += math.Sqrt(dx*dx + dy*dy)
	}
	return total
}

// ConvexHull computes the convex hull of a point set using Graham scan.
// Returns the hull vertices in counter-clockwise order.
func ConvexHull(points []image.Point) []image.Point {
	if len(points) < 3 {
		return points
	}

	pts := make([]image.Point, len(points))
	copy(pts, points)

	// Find the point with lowest y (and leftmost if tied)
	lowest := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[lowest].Y ||
			(pts[i].Y == pts[lowest].Y && pts[i].X < pts[lowest].X) {
			lowest = i
		}
	}

	pts[0], pts[lowest] = pts[lowest], pts[0]
	pivot := pts[0]

	sorted := make([]image.Point, len(pts)-1)
	copy(sorted, pts[1:])

	// Sort by polar angle with respect to pivot
	for i := 0; i < len(sorted)-1; i++ {
		for j := i + 1; j < len(sorted); j++ {
			cross := crossProduct(pivot, sorted[i], sorted[j])
			if cross < 0 || (cross == 0 && distSq(pivot, sorted[i]) > distSq(pivot, sorted[j])) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	hull := []image.Point{pivot}
	for _, p := range sorted {
		for len(hull) > 1 && crossProduct(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull
}

// MinAreaRect computes the minimum-area rotated bounding rectangle of a
// point set using rotating calipers over the convex hull. For tilted
// elongated shapes this is tighter than the axis-aligned bounding box.
func MinAreaRect(points []image.Point) RotatedRect {
	if len(points) == 0 {
		return RotatedRect{}
	}
	if len(points) < 3 {
		r := BoundingRect(points)
		return RotatedRect{
			Center: r.ToFloat().Center(),
			Width:  float64(r.Width),
			Height: float64(r.Height),
		}
	}

	hull := ConvexHull(points)
	if len(hull) < 3 {
		r := BoundingRect(points)
		return RotatedRect{
			Center: r.ToFloat().Center(),
			Width:  float64(r.Width),
			Height: float64(r.Height),
		}
	}

	best := RotatedRect{}
	bestArea := math.Inf(1)

	// One hull edge is always collinear with a side of the minimum rectangle.
	for i := 0; i < len(hull); i++ {
		j := (i + 1) % len(hull)
		edgeX := float64(hull[j].X - hull[i].X)
		edgeY := float64(hull[j].Y - hull[i].Y)
		length := math.Sqrt(edgeX*edgeX + edgeY*edgeY)
		if length == 0 {
			continue
		}
		ux, uy := edgeX/length, edgeY/length // edge direction
		vx, vy := -uy, ux                    // perpendicular

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			pu := float64(p.X)*ux + float64(p.Y)*uy
			pv := float64(p.X)*vx + float64(p.Y)*vy
			minU = math.Min(minU, pu)
			maxU = math.Max(maxU, pu)
			minV = math.Min(minV, pv)
			maxV = math.Max(maxV, pv)
		}

		w := maxU - minU
		h := maxV - minV
		area := w * h
		if area < bestArea {
			bestArea = area
			cu := (minU + maxU) / 2
			cv := (minV + maxV) / 2
			best = RotatedRect{
				Center: Point2D{X: cu*ux + cv*vx, Y: cu*uy + cv*vy},
				Width:  w,
				Height: h,
				Angle:  math.Atan2(uy, ux),
			}
		}
	}

	return best
}

// ApproxPolygon simplifies a closed contour with the Douglas-Peucker
// algorithm. The contour is split at its two most distant vertices so the
// closed curve can be simplified as two open chains.
func ApproxPolygon(contour []image.Point, epsilon float64) []image.Point {
	if len(contour) <= 3 || epsilon <= 0 {
		return contour
	}

	// Find the two most separated vertices to split the ring.
	a, b := 0, 0
	maxD := -1.0
	step := max(1, len(contour)/64)
	for i := 0; i < len(contour); i += step {
		for j := i + 1; j < len(contour); j += step {
			d := distSq(contour[i], contour[j])
			if d > maxD {
				maxD = d
				a, b = i, j
			}
		}
	}

	first := append([]image.Point{}, contour[a:b+1]...)
	second := append([]image.Point{}, contour[b:]...)
	second = append(second, contour[:a+1]...)

	simpleFirst := douglasPeucker(first, epsilon)
	simpleSecond := douglasPeucker(second, epsilon)

	// Join, dropping the duplicated split vertices.
	result := make([]image.Point, 0, len(simpleFirst)+len(simpleSecond)-2)
	result = append(result, simpleFirst...)
	if len(simpleSecond) > 2 {
		result = append(result, simpleSecond[1:len(simpleSecond)-1]...)
	}
	return result
}

// douglasPeucker reduces the number of vertices of an open polyline.
func douglasPeucker(path []image.Point, epsilon float64) []image.Point {
	if len(path) <= 2 {
		return path
	}

	dmax := 0.0
	index := 0
	end := len(path) - 1

	for i := 1; i < end; i++ {
		d := perpendicularDistance(path[i], path[0], path[end])
		if d > dmax {
			dmax = d
			index = i
		}
	}

	if dmax > epsilon {
		left := douglasPeucker(path[:index+1], epsilon)
		right := douglasPeucker(path[index:], epsilon)

		result := make([]image.Point, 0, len(left)+len(right)-1)
		result = append(result, left[:len(left)-1]...)
		result = append(result, right...)
		return result
	}

	return []image.Point{path[0], path[end]}
}

// perpendicularDistance calculates the perpendicular distance from point p to line a-b.
func perpendicularDistance(p, a, b image.Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)

	if dx == 0 && dy == 0 {
		return math.Sqrt(distSq(p, a))
	}

	num := math.Abs(dy*float64(p.X) - dx*float64(p.Y) +
		float64(b.X)*float64(a.Y) - float64(b.Y)*float64(a.X))
	den := math.Sqrt(dx*dx + dy*dy)
	return num / den
}

// crossProduct returns the z component of (b-a) x (c-a).
func crossProduct(a, b, c image.Point) float64 {
	return float64(b.X-a.X)*float64(c.Y-a.Y) - float64(b.Y-a.Y)*float64(c.X-a.X)
}

func distSq(a, b image.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return dx*dx + dy*dy
}
