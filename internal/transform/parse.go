package transform

import (
	"math"
	"strconv"
	"strings"

	mt "github.com/rustyoz/Mtransform"
)

// Parse interprets an SVG transform attribute ("translate(10,20)
// rotate(45) scale(2)") into a single matrix. Unrecognized or
// malformed functions are skipped, best effort; an empty or fully
// malformed attribute yields the identity.
func Parse(attr string) mt.Transform {
	acc := mt.Identity()
	rest := attr
	for {
		open := strings.IndexByte(rest, '(')
		if open < 0 {
			break
		}
		name := strings.TrimSpace(strings.Trim(rest[:open], ", \t\n"))
		close := strings.IndexByte(rest[open:], ')')
		if close < 0 {
			break
		}
		args := parseArgs(rest[open+1 : open+close])
		rest = rest[open+close+1:]

		if m, ok := build(name, args); ok {
			acc = mt.MultiplyTransforms(acc, m)
		}
	}
	return acc
}

func parseArgs(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil
		}
		out = append(out, v)
	}
	return out
}

func build(name string, args []float64) (mt.Transform, bool) {
	switch name {
	case "translate":
		switch len(args) {
		case 1:
			return Translation(args[0], 0), true
		case 2:
			return Translation(args[0], args[1]), true
		}
	case "scale":
		switch len(args) {
		case 1:
			return Scaling(args[0], args[0]), true
		case 2:
			return Scaling(args[0], args[1]), true
		}
	case "rotate":
		switch len(args) {
		case 1:
			return Rotation(args[0], 0, 0), true
		case 3:
			return Rotation(args[0], args[1], args[2]), true
		}
	case "skewX":
		if len(args) == 1 {
			t := mt.Identity()
			t[0][1] = tanDeg(args[0])
			return t, true
		}
	case "skewY":
		if len(args) == 1 {
			t := mt.Identity()
			t[1][0] = tanDeg(args[0])
			return t, true
		}
	case "matrix":
		if len(args) == 6 {
			t := mt.Identity()
			t[0][0], t[1][0] = args[0], args[1]
			t[0][1], t[1][1] = args[2], args[3]
			t[0][2], t[1][2] = args[4], args[5]
			return t, true
		}
	}
	return mt.Identity(), false
}

func tanDeg(deg float64) float64 {
	return math.Tan(deg * math.Pi / 180)
}
