package skeleton

import (
	"image"
	"math"

	"gocv.io/x/gocv"
)

const sqrt2 = math.Sqrt2

// Points returns the coordinates of all foreground pixels in a thinned mask.
func Points(mask gocv.Mat) []image.Point {
	if mask.Empty() {
		return nil
	}

	var pts []image.Point
	rows, cols := mask.Rows(), mask.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if mask.GetUCharAt(y, x) > 0 {
				pts = append(pts, image.Point{X: x, Y: y})
			}
		}
	}
	return pts
}

// Endpoints returns skeleton pixels with exactly one foreground neighbor.
// A straight unbranched skeleton has two; a closed loop has none.
func Endpoints(mask gocv.Mat) []image.Point {
	var ends []image.Point
	rows, cols := mask.Rows(), mask.Cols()

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if mask.GetUCharAt(y, x) == 0 {
				continue
			}
			if countNeighbors(mask, x, y) == 1 {
				ends = append(ends, image.Point{X: x, Y: y})
			}
		}
	}
	return ends
}

// LongestPath finds the longest shortest-path across the skeleton: a BFS
// from an arbitrary foreground pixel locates one extreme endpoint, and a
// second BFS from there reaches the most separated pixel, reconstructed
// through parent pointers. Diagonal steps accumulate √2 distance.
func LongestPath(mask gocv.Mat) []image.Point {
	start := firstForeground(mask)
	if start == nil {
		return nil
	}

	farthest, _, _ := walk(mask, *start)
	end, _, parents := walk(mask, farthest)

	// Reconstruct from the far end back to the seed.
	var path []image.Point
	for cur := end; ; {
		path = append(path, cur)
		prev, ok := parents[cur]
		if !ok {
			break
		}
		cur = prev
	}

	// Reverse so the path runs seed → far end.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathLength returns the curvilinear length of a pixel path with diagonal
// steps weighted √2.
func PathLength(path []image.Point) float64 {
	if len(path) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(path); i++ {
		dx := abs(path[i].X - path[i-1].X)
		dy := abs(path[i].Y - path[i-1].Y)
		switch {
		case dx+dy == 1:
			total++
		case dx == 1 && dy == 1:
			total += sqrt2
		default:
			// Non-adjacent jump; fall back to Euclidean distance.
			fdx, fdy := float64(dx), float64(dy)
			total += math.Sqrt(fdx*fdx + fdy*fdy)
		}
	}
	return total
}

// walk runs a BFS over 8-connected skeleton pixels from start, tracking
// √2-weighted distances and parent pointers. Returns the farthest pixel,
// its distance, and the parent map for path reconstruction.
func walk(mask gocv.Mat, start image.Point) (image.Point, float64, map[image.Point]image.Point) {
	rows, cols := mask.Rows(), mask.Cols()

	dist := map[image.Point]float64{start: 0}
	parents := make(map[image.Point]image.Point)
	queue := []image.Point{start}

	farthest := start
	maxDist := 0.0

	dirs := [8]image.Point{
		{0, -1}, {1, -1}, {1, 0}, {1, 1},
		{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, d := range dirs {
			next := image.Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			if next.X < 0 || next.X >= cols || next.Y < 0 || next.Y >= rows {
				continue
			}
			if mask.GetUCharAt(next.Y, next.X) == 0 {
				continue
			}
			if _, seen := dist[next]; seen {
				continue
			}

			step := 1.0
			if d.X != 0 && d.Y != 0 {
				step = sqrt2
			}
			dist[next] = dist[cur] + step
			parents[next] = cur
			queue = append(queue, next)

			if dist[next] > maxDist {
				maxDist = dist[next]
				farthest = next
			}
		}
	}

	return farthest, maxDist, parents
}

// firstForeground returns a pointer to the first foreground pixel, scanning
// row-major, or nil for an all-zero mask. Endpoints are preferred as seeds
// when present.
func firstForeground(mask gocv.Mat) *image.Point {
	if mask.Empty() {
		return nil
	}

	if ends := Endpoints(mask); len(ends) > 0 {
		return &ends[0]
	}

	rows, cols := mask.Rows(), mask.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if mask.GetUCharAt(y, x) > 0 {
				return &image.Point{X: x, Y: y}
			}
		}
	}
	return nil
}

// countNeighbors counts foreground pixels in the 8-neighborhood.
func countNeighbors(mask gocv.Mat, x, y int) int {
	rows, cols := mask.Rows(), mask.Cols()
	count := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= cols || ny < 0 || ny >= rows {
				continue
			}
			if mask.GetUCharAt(ny, nx) > 0 {
				count++
			}
		}
	}
	return count
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
