package observer

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// DefaultScrollFrames is the number of animation frames a smooth scroll
// takes in a Viewport.
const DefaultScrollFrames = 8

// Rect is a vertical extent in document coordinates.
type Rect struct {
	Top    float64
	Height float64
}

// Bottom returns Top+Height.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Viewport is a deterministic host for the intersection feed and the
// smooth-scroll primitive. Element geometry is supplied with Place or
// LayoutFlow; scrolling re-evaluates every registered feed and delivers
// batches synchronously.
type Viewport struct {
	Height        float64
	ContentHeight float64 // 0 disables scroll clamping
	Frames        int

	scrollY float64
	boxes   map[*html.Node]Rect
	feeds   []*viewportFeed
	anim    *animation
}

type animation struct {
	from, to float64
	frame    int
	frames   int
}

// NewViewport creates a viewport of the given height scrolled to the top.
func NewViewport(height float64) *Viewport {
	return &Viewport{
		Height: height,
		Frames: DefaultScrollFrames,
		boxes:  make(map[*html.Node]Rect),
	}
}

// Place sets the geometry of n.
func (v *Viewport) Place(n *html.Node, top, height float64) {
	v.boxes[n] = Rect{Top: top, Height: height}
}

// Box returns the geometry of n. Unplaced nodes sit at the top of their
// nearest placed ancestor with zero height, which is where an empty inline
// marker at the start of a block renders.
func (v *Viewport) Box(n *html.Node) (Rect, bool) {
	if r, ok := v.boxes[n]; ok {
		return r, true
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if r, ok := v.boxes[p]; ok {
			return Rect{Top: r.Top}, true
		}
	}
	return Rect{}, false
}

// ScrollY returns the current scroll offset.
func (v *Viewport) ScrollY() float64 { return v.scrollY }

// SetScroll jumps to y, cancelling any smooth scroll in flight, and
// evaluates intersections.
func (v *Viewport) SetScroll(y float64) {
	v.anim = nil
	v.scrollY = v.clamp(y)
	v.Evaluate()
}

// ScrollTo starts a smooth scroll that aligns the top of target with the top
// of the viewport. A new request replaces the one in flight. Unknown targets
// are ignored.
func (v *Viewport) ScrollTo(target *html.Node) {
	r, ok := v.Box(target)
	if !ok {
		return
	}
	frames := v.Frames
	if frames <= 0 {
		frames = 1
	}
	v.anim = &animation{from: v.scrollY, to: v.clamp(r.Top), frames: frames}
}

// Scrolling reports whether a smooth scroll is in flight.
func (v *Viewport) Scrolling() bool { return v.anim != nil }

// Step advances the smooth scroll by one frame and evaluates intersections.
// It returns true while the animation is still running.
func (v *Viewport) Step() bool {
	a := v.anim
	if a == nil {
		return false
	}
	a.frame++
	t := float64(a.frame) / float64(a.frames)
	// ease-in-out
	t = t * t * (3 - 2*t)
	v.scrollY = a.from + (a.to-a.from)*t
	if a.frame >= a.frames {
		v.scrollY = a.to
		v.anim = nil
	}
	v.Evaluate()
	return v.anim != nil
}

// Settle runs the smooth scroll in flight to completion.
func (v *Viewport) Settle() {
	for v.Step() {
	}
}

func (v *Viewport) clamp(y float64) float64 {
	if y < 0 {
		return 0
	}
	if v.ContentHeight > 0 {
		return math.Min(y, math.Max(0, v.ContentHeight-v.Height))
	}
	return y
}

// Factory returns an observer.Factory bound to this viewport.
func (v *Viewport) Factory() Factory {
	return func(cb Callback, opts Options) (Feed, error) {
		if opts.Root != nil {
			return nil, fmt.Errorf("%w: viewport host only supports the document root", ErrInvalidOptions)
		}
		margin, err := ParseMargin(opts.RootMargin)
		if err != nil {
			return nil, err
		}
		thresholds, err := normalizeThresholds(opts.Thresholds)
		if err != nil {
			return nil, err
		}
		f := &viewportFeed{
			vp:         v,
			cb:         cb,
			margin:     margin,
			thresholds: thresholds,
			last:       make(map[*html.Node]Entry),
		}
		v.feeds = append(v.feeds, f)
		return f, nil
	}
}

// Evaluate computes intersections for every feed and delivers a batch to each
// feed that has changes. Targets observed since the previous evaluation get an
// initial entry.
func (v *Viewport) Evaluate() {
	for _, f := range slices.Clone(v.feeds) {
		f.evaluate()
	}
}

// rootRect returns the viewport rect grown or shrunk by margin.
func (v *Viewport) rootRect(m Margin) (top, bottom float64) {
	top = v.scrollY - m.Top.Resolve(v.Height)
	bottom = v.scrollY + v.Height + m.Bottom.Resolve(v.Height)
	return top, bottom
}

func (v *Viewport) removeFeed(f *viewportFeed) {
	v.feeds = slices.DeleteFunc(v.feeds, func(o *viewportFeed) bool { return o == f })
}

type viewportFeed struct {
	vp         *Viewport
	cb         Callback
	margin     Margin
	thresholds []float64

	targets []*html.Node
	last    map[*html.Node]Entry
}

func (f *viewportFeed) Observe(target *html.Node) {
	if slices.Contains(f.targets, target) {
		return
	}
	f.targets = append(f.targets, target)
}

func (f *viewportFeed) Unobserve(target *html.Node) {
	f.targets = slices.DeleteFunc(f.targets, func(n *html.Node) bool { return n == target })
	delete(f.last, target)
}

func (f *viewportFeed) Disconnect() {
	f.targets = nil
	f.last = make(map[*html.Node]Entry)
	f.vp.removeFeed(f)
}

func (f *viewportFeed) evaluate() {
	rootTop, rootBottom := f.vp.rootRect(f.margin)
	var batch []Entry
	for _, target := range f.targets {
		cur := Entry{Target: target}
		if r, ok := f.vp.Box(target); ok {
			cur.Ratio, cur.Intersecting = intersect(r, rootTop, rootBottom)
		}
		prev, seen := f.last[target]
		f.last[target] = cur
		if !seen || crossed(f.thresholds, prev, cur) {
			batch = append(batch, cur)
		}
	}
	if len(batch) > 0 {
		f.cb(batch)
	}
}

// intersect computes the visible ratio of r inside [rootTop, rootBottom].
// Edge-adjacent and zero-area targets inside the root count as intersecting.
func intersect(r Rect, rootTop, rootBottom float64) (float64, bool) {
	if rootBottom < rootTop {
		return 0, false
	}
	if r.Top > rootBottom || r.Bottom() < rootTop {
		return 0, false
	}
	if r.Height == 0 {
		return 1, true
	}
	overlap := math.Min(r.Bottom(), rootBottom) - math.Max(r.Top, rootTop)
	if overlap < 0 {
		overlap = 0
	}
	return overlap / r.Height, true
}

var flowLeaves = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "li": true, "pre": true, "blockquote": true, "dt": true, "dd": true,
	"tr": true, "figcaption": true, "summary": true,
}

var flowSkip = map[string]bool{
	"head": true, "script": true, "style": true, "template": true, "noscript": true,
}

// LayoutFlow stacks the block elements under root vertically and places each
// of them. Leaf blocks take one line per charsPerLine characters of text;
// containers span their children. It returns the total height and records it
// as ContentHeight.
func (v *Viewport) LayoutFlow(root *html.Node, lineHeight float64, charsPerLine int) float64 {
	if charsPerLine <= 0 {
		charsPerLine = 80
	}
	var cursor float64
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if flowSkip[n.Data] {
				return
			}
			if flowLeaves[n.Data] {
				lines := len([]rune(collapsedText(n)))/charsPerLine + 1
				h := float64(lines) * lineHeight
				v.Place(n, cursor, h)
				cursor += h
				return
			}
		}
		start := cursor
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			v.Place(n, start, cursor-start)
		}
	}
	walk(root)
	v.ContentHeight = cursor
	return cursor
}

func collapsedText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}
