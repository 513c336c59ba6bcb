package svgdoc

import (
	"strings"

	"github.com/benoitkugler/svgdom/svgattr"
	"go.uber.org/zap"
)

// maximum length of a chain of gradient href
const maxHrefDepth = 16

// Resolver turns paint attribute values into paints.
// It holds the gradients of one document, and caches the
// colors already decoded.
type Resolver struct {
	gradients map[string]*svgattr.Gradient
	order     []*svgattr.Gradient // registration order
	colors    map[string]svgattr.Color
}

// NewResolver returns an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{
		gradients: make(map[string]*svgattr.Gradient),
		colors:    make(map[string]svgattr.Color),
	}
}

// Register indexes g by its id, replacing any gradient
// previously registered with the same id.
func (r *Resolver) Register(g *svgattr.Gradient) {
	r.order = append(r.order, g)
	if g.ID != "" {
		r.gradients[g.ID] = g
	}
}

// Gradient returns the gradient registered for id.
func (r *Resolver) Gradient(id string) (*svgattr.Gradient, bool) {
	g, ok := r.gradients[id]
	return g, ok
}

// Resolve returns the paint described by raw.
// A url(#id) reference returns the registered gradient, or nil
// if no gradient with this id has been closed yet.
// "none" is transparent. Other values are colors.
// An empty value returns nil.
func (r *Resolver) Resolve(raw string, loc svgattr.Location) (svgattr.Paint, error) {
	s := strings.TrimSpace(raw)
	if id, ok := svgattr.ParseURLReference(s); ok {
		if g, ok := r.gradients[id]; ok {
			return g, nil
		}
		return nil, nil
	}
	if c, ok := r.colors[s]; ok {
		return c, nil
	}
	c, ok, err := svgattr.ParseColor(s, loc)
	if err != nil || !ok {
		return nil, err
	}
	r.colors[s] = c
	return c, nil
}

// inheritStops copies the stops of the referenced gradient
// into the gradients which define none.
func (r *Resolver) inheritStops(log *zap.Logger) {
	for _, g := range r.order {
		if g.Href == "" || len(g.Stops) != 0 {
			continue
		}
		target, depth := g, 0
		for target.Href != "" && len(target.Stops) == 0 && depth < maxHrefDepth {
			next, ok := r.gradients[target.Href]
			if !ok {
				log.Warn("gradient href not found", zap.String("gradient", g.ID), zap.String("href", target.Href))
				break
			}
			target = next
			depth++
		}
		g.Stops = append(g.Stops, target.Stops...)
	}
}
