package reproject

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	mt "github.com/rustyoz/Mtransform"
	gl "github.com/rustyoz/genericlexer"
)

// Path is a motion path normalized to absolute move/line/curve/close
// commands so a matrix can be applied to every coordinate pair.
type Path struct {
	commands []pathCommand
}

type pathCommand struct {
	letter byte // 'M', 'L', 'C' or 'Z'
	points []point
}

type point struct {
	x, y float64
}

// ParsePath lexes an SVG path description into absolute commands.
// Relative commands and H/V shorthands are normalized away. Commands
// outside the M/L/H/V/C/Z families are rejected so the caller can
// leave the original string untouched.
func ParsePath(d string) (*Path, error) {
	lex, _ := gl.Lex("path", d)
	p := &Path{}
	var cur, start point
	var err error
	for {
		item := lex.NextItem()
		switch item.Type {
		case gl.ItemError:
			return nil, fmt.Errorf("path lex: %s", item.Value)
		case gl.ItemEOS:
			if len(p.commands) == 0 {
				return nil, fmt.Errorf("empty path")
			}
			return p, nil
		case gl.ItemLetter:
			cur, start, err = p.parseCommand(lex, item.Value, cur, start)
			if err != nil {
				return nil, err
			}
		}
	}
}

func (p *Path) parseCommand(lex *gl.Lexer, letter string, cur, start point) (point, point, error) {
	rel := letter >= "a" && letter <= "z"
	switch strings.ToUpper(letter) {
	case "M":
		tuples, err := parseTuples(lex)
		if err != nil || len(tuples) == 0 {
			return cur, start, fmt.Errorf("moveto: %v", err)
		}
		cur = resolve(tuples[0], cur, rel)
		start = cur
		p.commands = append(p.commands, pathCommand{letter: 'M', points: []point{cur}})
		// Trailing pairs after a moveto are implicit linetos.
		for _, t := range tuples[1:] {
			cur = resolve(t, cur, rel)
			p.commands = append(p.commands, pathCommand{letter: 'L', points: []point{cur}})
		}
	case "L":
		tuples, err := parseTuples(lex)
		if err != nil || len(tuples) == 0 {
			return cur, start, fmt.Errorf("lineto: %v", err)
		}
		for _, t := range tuples {
			cur = resolve(t, cur, rel)
			p.commands = append(p.commands, pathCommand{letter: 'L', points: []point{cur}})
		}
	case "H":
		nums, err := parseNumbers(lex)
		if err != nil || len(nums) == 0 {
			return cur, start, fmt.Errorf("h-lineto: %v", err)
		}
		for _, n := range nums {
			if rel {
				cur.x += n
			} else {
				cur.x = n
			}
			p.commands = append(p.commands, pathCommand{letter: 'L', points: []point{cur}})
		}
	case "V":
		nums, err := parseNumbers(lex)
		if err != nil || len(nums) == 0 {
			return cur, start, fmt.Errorf("v-lineto: %v", err)
		}
		for _, n := range nums {
			if rel {
				cur.y += n
			} else {
				cur.y = n
			}
			p.commands = append(p.commands, pathCommand{letter: 'L', points: []point{cur}})
		}
	case "C":
		tuples, err := parseTuples(lex)
		if err != nil || len(tuples) == 0 || len(tuples)%3 != 0 {
			return cur, start, fmt.Errorf("curveto: want control-point triples, got %d tuples", len(tuples))
		}
		for j := 0; j < len(tuples)/3; j++ {
			c1 := resolve(tuples[j*3], cur, rel)
			c2 := resolve(tuples[j*3+1], cur, rel)
			end := resolve(tuples[j*3+2], cur, rel)
			cur = end
			p.commands = append(p.commands, pathCommand{letter: 'C', points: []point{c1, c2, end}})
		}
	case "Z":
		cur = start
		p.commands = append(p.commands, pathCommand{letter: 'Z'})
	default:
		return cur, start, fmt.Errorf("unsupported path command %q", letter)
	}
	return cur, start, nil
}

func resolve(t point, cur point, rel bool) point {
	if rel {
		return point{cur.x + t.x, cur.y + t.y}
	}
	return t
}

func parseNumbers(lex *gl.Lexer) ([]float64, error) {
	var nums []float64
	lex.ConsumeWhiteSpace()
	for lex.PeekItem().Type == gl.ItemNumber {
		item := lex.NextItem()
		v, err := strconv.ParseFloat(item.Value, 64)
		if err != nil {
			return nil, err
		}
		nums = append(nums, v)
		lex.ConsumeWhiteSpace()
		lex.ConsumeComma()
		lex.ConsumeWhiteSpace()
	}
	return nums, nil
}

func parseTuples(lex *gl.Lexer) ([]point, error) {
	nums, err := parseNumbers(lex)
	if err != nil {
		return nil, err
	}
	if len(nums)%2 != 0 {
		return nil, fmt.Errorf("odd coordinate count %d", len(nums))
	}
	tuples := make([]point, 0, len(nums)/2)
	for i := 0; i < len(nums); i += 2 {
		tuples = append(tuples, point{nums[i], nums[i+1]})
	}
	return tuples, nil
}

// Transform applies a matrix to every coordinate pair in place.
func (p *Path) Transform(t mt.Transform) {
	for i := range p.commands {
		for j := range p.commands[i].points {
			pt := &p.commands[i].points[j]
			pt.x, pt.y = t.Apply(pt.x, pt.y)
		}
	}
}

// String serializes the normalized path.
func (p *Path) String() string {
	var b strings.Builder
	for i, c := range p.commands {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(c.letter)
		for _, pt := range c.points {
			b.WriteByte(' ')
			b.WriteString(fmtCoord(pt.x))
			b.WriteByte(',')
			b.WriteString(fmtCoord(pt.y))
		}
	}
	return b.String()
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

const curveFlattenSteps = 16

// Flatten approximates the path with a polyline. Curves are sampled at
// a fixed step count, enough for bounds and arc-length positioning.
func (p *Path) Flatten() [][2]float64 {
	var pts [][2]float64
	var cur, startPt point
	for _, c := range p.commands {
		switch c.letter {
		case 'M':
			cur = c.points[0]
			startPt = cur
			pts = append(pts, [2]float64{cur.x, cur.y})
		case 'L':
			cur = c.points[0]
			pts = append(pts, [2]float64{cur.x, cur.y})
		case 'C':
			p0 := cur
			c1, c2, end := c.points[0], c.points[1], c.points[2]
			for s := 1; s <= curveFlattenSteps; s++ {
				t := float64(s) / curveFlattenSteps
				x := cubic(p0.x, c1.x, c2.x, end.x, t)
				y := cubic(p0.y, c1.y, c2.y, end.y, t)
				pts = append(pts, [2]float64{x, y})
			}
			cur = end
		case 'Z':
			cur = startPt
			pts = append(pts, [2]float64{cur.x, cur.y})
		}
	}
	return pts
}

func cubic(p0, p1, p2, p3, t float64) float64 {
	u := 1 - t
	return u*u*u*p0 + 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t*p3
}

// PointAt returns the position at the given fraction of the path's
// arc length, clamped to [0,1].
func (p *Path) PointAt(frac float64) (float64, float64) {
	pts := p.Flatten()
	if len(pts) == 0 {
		return 0, 0
	}
	if len(pts) == 1 || frac <= 0 {
		return pts[0][0], pts[0][1]
	}
	total := 0.0
	lengths := make([]float64, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		lengths[i-1] = math.Hypot(pts[i][0]-pts[i-1][0], pts[i][1]-pts[i-1][1])
		total += lengths[i-1]
	}
	if total == 0 || frac >= 1 {
		last := pts[len(pts)-1]
		return last[0], last[1]
	}
	want := frac * total
	run := 0.0
	for i, l := range lengths {
		if run+l >= want && l > 0 {
			t := (want - run) / l
			return pts[i][0] + (pts[i+1][0]-pts[i][0])*t,
				pts[i][1] + (pts[i+1][1]-pts[i][1])*t
		}
		run += l
	}
	last := pts[len(pts)-1]
	return last[0], last[1]
}

// Bounds returns the extremes of the flattened path.
func (p *Path) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	pts := p.Flatten()
	if len(pts) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, maxX = pts[0][0], pts[0][0]
	minY, maxY = pts[0][1], pts[0][1]
	for _, pt := range pts[1:] {
		minX = math.Min(minX, pt[0])
		maxX = math.Max(maxX, pt[0])
		minY = math.Min(minY, pt[1])
		maxY = math.Max(maxY, pt[1])
	}
	return minX, minY, maxX, maxY, true
}
