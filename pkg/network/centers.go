package network

import (
	"math"
)

// PlanCenters assigns one anchor point per exhibition using the configured
// strategy. It never touches artist positions.
func PlanCenters(idx *Index, cfg Config) map[string]Point {
	titles := idx.Titles()
	if cfg.Centers == CentersRelaxation {
		return relaxCenters(idx, titles, cfg)
	}
	return radialCenters(titles, cfg)
}

// layoutRadius is the ring radius of the radial planner.
func layoutRadius(cfg Config) float64 {
	if cfg.LayoutRadius > 0 {
		return cfg.LayoutRadius
	}
	return min(cfg.Width, cfg.Height) * 0.38
}

// radialCenters spaces the titles evenly on a ring around the canvas centre:
// angle = 2π·i/n. A single exhibition sits at the centre.
func radialCenters(titles []string, cfg Config) map[string]Point {
	centers := make(map[string]Point, len(titles))
	c := midpoint(cfg.Width, cfg.Height)
	if len(titles) == 1 {
		centers[titles[0]] = c
		return centers
	}
	r := layoutRadius(cfg)
	for i, t := range titles {
		angle := 2 * math.Pi * float64(i) / float64(len(titles))
		centers[t] = c.add(polar(r, angle))
	}
	return centers
}

// body is one exhibition in the relaxation.
type body struct {
	pos    Point
	vel    Point
	radius float64
}

// relaxCenters runs a fixed number of steps of centring, pairwise repulsion and
// attraction weighted by shared fuzzy artists. Bodies start on the radial ring
// so the result is deterministic. Each step's displacement is bounded by
// MaxStep and a non-finite update reverts the body, so the system cannot
// diverge for finite input.
func relaxCenters(idx *Index, titles []string, cfg Config) map[string]Point {
	start := radialCenters(titles, cfg)
	if len(titles) < 2 {
		return start
	}

	rc := cfg.Relaxation
	maxSize := idx.MaxGroupSize()
	bodies := make([]body, len(titles))
	for i, t := range titles {
		bodies[i] = body{
			pos:    start[t],
			radius: ClusterRadius(len(idx.Groups[t]), maxSize, cfg),
		}
	}

	type link struct {
		i, j   int
		weight float64
	}
	var links []link
	shared := idx.SharedFuzzy()
	for i := range titles {
		for j := i + 1; j < len(titles); j++ {
			if k := shared[edgeKey(titles[i], titles[j])]; k > 0 {
				// Bounded in (0, 1) so heavy sharing cannot overshoot.
				links = append(links, link{i, j, float64(k) / float64(k+1)})
			}
		}
	}

	center := midpoint(cfg.Width, cfg.Height)
	alpha := 1.0
	alphaDecay := 1 - math.Pow(0.001, 1/float64(rc.Iterations))

	for step := 0; step < rc.Iterations; step++ {
		for i := range bodies {
			b := &bodies[i]
			b.vel = b.vel.add(center.sub(b.pos).scale(rc.CenterStrength * alpha))
		}

		for i := range bodies {
			for j := i + 1; j < len(bodies); j++ {
				a, b := &bodies[i], &bodies[j]
				delta, d := separation(a.pos, b.pos, i, j)
				dir := delta.scale(1 / d)

				force := rc.Charge * alpha / math.Max(d*d, 1)
				if minD := a.radius + b.radius + rc.Padding; d < minD {
					force += (minD - d) / 2
				}
				a.vel = a.vel.sub(dir.scale(force))
				b.vel = b.vel.add(dir.scale(force))
			}
		}

		for _, l := range links {
			a, b := &bodies[l.i], &bodies[l.j]
			delta, d := separation(a.pos, b.pos, l.i, l.j)
			rest := a.radius + b.radius + rc.Padding
			f := (d - rest) / d * rc.LinkStrength * alpha * l.weight
			a.vel = a.vel.add(delta.scale(f / 2))
			b.vel = b.vel.sub(delta.scale(f / 2))
		}

		for i := range bodies {
			b := &bodies[i]
			b.vel = clampLen(b.vel.scale(rc.VelocityDecay), rc.MaxStep)
			next := b.pos.add(b.vel)
			if !next.finite() {
				b.vel = Point{}
				continue
			}
			b.pos = next
		}
		alpha *= 1 - alphaDecay
	}

	centers := make(map[string]Point, len(titles))
	for i, t := range titles {
		centers[t] = bodies[i].pos
	}
	return centers
}

// separation returns b−a and its length. Coincident points get a
// deterministic unit direction derived from their indices.
func separation(a, b Point, i, j int) (Point, float64) {
	delta := b.sub(a)
	d := delta.len()
	if d < 1e-9 {
		delta = polar(1, float64(i*31+j)*goldenAngle)
		d = 1
	}
	return delta, d
}

// clampLen shortens v to at most limit, mapping non-finite vectors to zero.
func clampLen(v Point, limit float64) Point {
	l := v.len()
	if !isFinite(l) {
		return Point{}
	}
	if l > limit {
		return v.scale(limit / l)
	}
	return v
}
