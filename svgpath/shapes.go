package svgpath

import (
	"math"
)

// This file implements the transformation from
// high level shapes to their path equivalent

// maxDx is the maximum radians a cubic splice is allowed to span
// in ellipse parametric when approximating an off-axis ellipse.
const maxDx float64 = math.Pi / 8

// kappa places the control points of a cubic quarter circle.
const kappa = 0.5522847498307936

// AddRect adds a closed rectangle.
func (p *Path) AddRect(minX, minY, maxX, maxY float64) {
	p.Start(Point{minX, minY})
	p.Line(Point{maxX, minY})
	p.Line(Point{maxX, maxY})
	p.Line(Point{minX, maxY})
	p.Stop(true)
}

// AddRoundRect adds a rectangle of the indicated size, with rounded
// corners of radius rx in the x axis and ry in the y axis.
// Radii are clamped to half the rectangle dimensions.
func (p *Path) AddRoundRect(minX, minY, maxX, maxY, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		p.AddRect(minX, minY, maxX, maxY)
		return
	}
	if w := maxX - minX; w < rx*2 {
		rx = w / 2
	}
	if h := maxY - minY; h < ry*2 {
		ry = h / 2
	}
	kx, ky := rx*kappa, ry*kappa

	p.Start(Point{minX + rx, minY})
	p.Line(Point{maxX - rx, minY})
	p.CubeBezier(Point{maxX - rx + kx, minY}, Point{maxX, minY + ry - ky}, Point{maxX, minY + ry})
	p.Line(Point{maxX, maxY - ry})
	p.CubeBezier(Point{maxX, maxY - ry + ky}, Point{maxX - rx + kx, maxY}, Point{maxX - rx, maxY})
	p.Line(Point{minX + rx, maxY})
	p.CubeBezier(Point{minX + rx - kx, maxY}, Point{minX, maxY - ry + ky}, Point{minX, maxY - ry})
	p.Line(Point{minX, minY + ry})
	p.CubeBezier(Point{minX, minY + ry - ky}, Point{minX + rx - kx, minY}, Point{minX + rx, minY})
	p.Stop(true)
}

// AddEllipse adds a closed ellipse centered on (cx, cy),
// made of four cubic quarters, starting at the rightmost point.
func (p *Path) AddEllipse(cx, cy, rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	p.Start(Point{cx + rx, cy})
	p.CubeBezier(Point{cx + rx, cy + ky}, Point{cx + kx, cy + ry}, Point{cx, cy + ry})
	p.CubeBezier(Point{cx - kx, cy + ry}, Point{cx - rx, cy + ky}, Point{cx - rx, cy})
	p.CubeBezier(Point{cx - rx, cy - ky}, Point{cx - kx, cy - ry}, Point{cx, cy - ry})
	p.CubeBezier(Point{cx + kx, cy - ry}, Point{cx + rx, cy - ky}, Point{cx + rx, cy})
	p.Stop(true)
}

// AddPolyline adds the segments joining points, closing the
// result if closed is true. Less than two points add nothing.
func (p *Path) AddPolyline(points [][2]float64, closed bool) {
	if len(points) < 2 {
		return
	}
	p.Start(Point{points[0][0], points[0][1]})
	for _, pt := range points[1:] {
		p.Line(Point{pt[0], pt[1]})
	}
	p.Stop(closed)
}

// arcArgs are the 7 arguments of the arc command:
// rx ry x-axis-rotation large-arc-flag sweep-flag x y
type arcArgs [7]float64

// arcTo adds the elliptical arc from start, following the SVG
// implementation notes for out of range parameters.
func (p *Path) arcTo(start Point, a arcArgs) {
	end := Point{a[5], a[6]}
	if start == end {
		return
	}
	a[0], a[1] = math.Abs(a[0]), math.Abs(a[1])
	if a[0] == 0 || a[1] == 0 {
		p.Line(end)
		return
	}
	cx, cy := findEllipseCenter(&a[0], &a[1], a[2]*math.Pi/180, start.X, start.Y,
		end.X, end.Y, a[4] == 0, a[3] == 0)
	p.addArc(a, cx, cy, start.X, start.Y)
}

// addArc adds an arc to the path p, approximated by cubic splines
func (p *Path) addArc(points arcArgs, cx, cy, px, py float64) (lx, ly float64) {
	rotX := points[2] * math.Pi / 180 // Convert degress to radians
	largeArc := points[3] != 0
	sweep := points[4] != 0
	startAngle := math.Atan2(py-cy, px-cx) - rotX
	endAngle := math.Atan2(points[6]-cy, points[5]-cx) - rotX
	deltaTheta := endAngle - startAngle
	arcBig := math.Abs(deltaTheta) > math.Pi

	// Approximate ellipse using cubic bezeir splines
	etaStart := math.Atan2(math.Sin(startAngle)/points[1], math.Cos(startAngle)/points[0])
	etaEnd := math.Atan2(math.Sin(endAngle)/points[1], math.Cos(endAngle)/points[0])
	deltaEta := etaEnd - etaStart
	if arcBig != largeArc {
		if deltaEta < 0 {
			deltaEta += math.Pi * 2
		} else {
			deltaEta -= math.Pi * 2
		}
	}
	// This check might be needed if the center point of the elipse is
	// at the midpoint of the start and end lines.
	if deltaEta < 0 && sweep {
		deltaEta += math.Pi * 2
	} else if deltaEta >= 0 && !sweep {
		deltaEta -= math.Pi * 2
	}

	// Round up to determine number of cubic splines to approximate bezier curve
	segs := int(math.Abs(deltaEta)/maxDx) + 1
	dEta := deltaEta / float64(segs) // span of each segment
	// Approximate the ellipse using a set of cubic bezier curves by the method of
	// L. Maisonobe, "Drawing an elliptical arc using polylines, quadratic
	// or cubic Bezier curves", 2003
	// https://www.spaceroots.org/documents/elllipse/elliptical-arc.pdf
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3
	lx, ly = px, py
	sinTheta, cosTheta := math.Sin(rotX), math.Cos(rotX)
	ldx, ldy := ellipsePrime(points[0], points[1], sinTheta, cosTheta, etaStart)
	for i := 1; i <= segs; i++ {
		eta := etaStart + dEta*float64(i)
		var px, py float64
		if i == segs {
			px, py = points[5], points[6] // Just makes the end point exact; no roundoff error
		} else {
			px, py = ellipsePointAt(points[0], points[1], sinTheta, cosTheta, eta, cx, cy)
		}
		dx, dy := ellipsePrime(points[0], points[1], sinTheta, cosTheta, eta)
		p.CubeBezier(Point{lx + alpha*ldx, ly + alpha*ldy},
			Point{px - alpha*dx, py - alpha*dy}, Point{px, py})
		lx, ly, ldx, ldy = px, py, dx, dy
	}
	return lx, ly
}

// ellipsePrime gives tangent vectors for parameterized elipse; a, b, radii, eta parameter
func ellipsePrime(a, b, sinTheta, cosTheta, eta float64) (px, py float64) {
	bCosEta := b * math.Cos(eta)
	aSinEta := a * math.Sin(eta)
	px = -aSinEta*cosTheta - bCosEta*sinTheta
	py = -aSinEta*sinTheta + bCosEta*cosTheta
	return
}

// ellipsePointAt gives points for parameterized elipse; a, b, radii, eta parameter, center cx, cy
func ellipsePointAt(a, b, sinTheta, cosTheta, eta, cx, cy float64) (px, py float64) {
	aCosEta := a * math.Cos(eta)
	bSinEta := b * math.Sin(eta)
	px = cx + aCosEta*cosTheta - bSinEta*sinTheta
	py = cy + aCosEta*sinTheta + bSinEta*cosTheta
	return
}

// findEllipseCenter locates the center of the Ellipse if it exists. If it does not exist,
// the radius values will be increased minimally for a solution to be possible
// while preserving the ra to rb ratio.  ra and rb arguments are pointers that can be
// checked after the call to see if the values changed. This method uses coordinate transformations
// to reduce the problem to finding the center of a circle that includes the origin
// and an arbitrary point. The center of the circle is then transformed
// back to the original coordinates and returned.
func findEllipseCenter(ra, rb *float64, rotX, startX, startY, endX, endY float64, sweep, smallArc bool) (cx, cy float64) {
	cos, sin := math.Cos(rotX), math.Sin(rotX)

	// Move origin to start point
	nx, ny := endX-startX, endY-startY

	// Rotate ellipse x-axis to coordinate x-axis
	nx, ny = nx*cos+ny*sin, -nx*sin+ny*cos
	// Scale X dimension so that ra = rb
	nx *= *rb / *ra // Now the ellipse is a circle radius rb; therefore foci and center coincide

	midX, midY := nx/2, ny/2
	midlenSq := midX*midX + midY*midY

	var hr float64
	if *rb**rb < midlenSq {
		// Requested ellipse does not exist; scale ra, rb to fit. Length of
		// span is greater than max width of ellipse, must scale *ra, *rb
		nrb := math.Sqrt(midlenSq)
		if *ra == *rb {
			*ra = nrb // prevents roundoff
		} else {
			*ra = *ra * nrb / *rb
		}
		*rb = nrb
	} else {
		hr = math.Sqrt(*rb**rb-midlenSq) / math.Sqrt(midlenSq)
	}
	// Notice that if hr is zero, both answers are the same.
	if (sweep && smallArc) || (!sweep && !smallArc) {
		cx = midX + midY*hr
		cy = midY - midX*hr
	} else {
		cx = midX - midY*hr
		cy = midY + midX*hr
	}

	// reverse scale
	cx *= *ra / *rb
	//Reverse rotate and translate back to original coordinates
	return cx*cos - cy*sin + startX, cx*sin + cy*cos + startY
}
