package anim

import (
	"strconv"
	"strings"
)

// RotateValue is one keyframe of a rotate transform animation:
// "angle" with an implicit (0,0) center, or "angle,cx,cy".
type RotateValue struct {
	Angle     float64
	CX, CY    float64
	HasCenter bool
}

// ParseRotateValue parses a single rotate keyframe. Separators may be
// commas, spaces or both. ok is false when the value is not a 1- or
// 3-number rotate form.
func ParseRotateValue(s string) (RotateValue, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	nums := make([]float64, 0, 3)
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return RotateValue{}, false
		}
		nums = append(nums, v)
	}
	switch len(nums) {
	case 1:
		return RotateValue{Angle: nums[0]}, true
	case 3:
		return RotateValue{Angle: nums[0], CX: nums[1], CY: nums[2], HasCenter: true}, true
	default:
		return RotateValue{}, false
	}
}

// Center returns the rotation center, materializing the implicit
// origin.
func (v RotateValue) Center() (float64, float64) {
	if v.HasCenter {
		return v.CX, v.CY
	}
	return 0, 0
}

// String renders the keyframe back to its attribute form.
func (v RotateValue) String() string {
	if !v.HasCenter {
		return formatNumber(v.Angle)
	}
	return formatNumber(v.Angle) + "," + formatNumber(v.CX) + "," + formatNumber(v.CY)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
