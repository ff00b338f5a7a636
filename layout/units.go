package layout

import (
	"strconv"
	"strings"
)

// 排版引擎内部以像素（CSS px，96dpi）计量；配置与 DSL 中的长度保留原始单位，使用时再换算。

// Unit 是长度值书写时的单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位数值，例如倍数
	UnitPX
	UnitPT
	UnitMM
	UnitCM
	UnitIN
)

// 单位换算常量。
const (
	PtToMm = 25.4 / 72
	MmToPt = 1.0 / PtToMm
	PxToPt = 0.75
	PtToPx = 1.0 / PxToPt
	PxToMm = PxToPt * PtToMm
	MmToPx = 1.0 / PxToMm
)

var unitSuffixes = []struct {
	s string
	u Unit
}{{"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}}

func (u Unit) String() string {
	for _, suf := range unitSuffixes {
		if suf.u == u {
			return suf.s
		}
	}
	return ""
}

// Length 保留数值及其单位。
type Length struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// toMM 把绝对长度换算为毫米；无单位数值按像素处理。
func (l Length) toMM() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PtToMm
	case UnitMM:
		return l.Value
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	default:
		return l.Value * PxToMm
	}
}

// To 把长度换算到目标单位。
func (l Length) To(target Unit) float64 {
	if l.Unit == target || (l.Unit == UnitNone && target == UnitPX) {
		return l.Value
	}
	mm := l.toMM()
	switch target {
	case UnitPT:
		return mm * MmToPt
	case UnitCM:
		return mm / 10
	case UnitIN:
		return mm / 25.4
	case UnitMM:
		return mm
	default:
		return mm * MmToPx
	}
}

func (l Length) ToPX() float64 { return l.To(UnitPX) }
func (l Length) ToMM() float64 { return l.To(UnitMM) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }

// ParseRawLengthStr 解析形如 "16px"、"12pt"、"15mm" 的长度，保留单位；无法解析时返回零值。
func ParseRawLengthStr(value string) Length {
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" {
		return Length{}
	}
	unit := UnitNone
	num := lower
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(lower, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}
	}
	return Length{Value: f, Unit: unit}
}

// LineHeightKind 区分倍数行高与绝对行高。
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec 保留行高的书写方式：倍数（1.5 或 1.5x）或绝对长度（24px）。
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeight 解析行高。带 x 后缀或无单位的数值是倍数。
func ParseLineHeight(value string) LineHeightSpec {
	v := strings.ToLower(strings.TrimSpace(value))
	if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64); err == nil {
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}
	}
	l := ParseRawLengthStr(v)
	if l.IsZero() {
		return LineHeightSpec{Kind: LineHeightFactor}
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}
}

// Spacing 把行高换算为相对 fontSize（像素）的倍数，即 FontDescriptor.LineSpacing。
// 无效值回退到 1.5。
func (s LineHeightSpec) Spacing(fontSize float64) float64 {
	switch {
	case s.Kind == LineHeightFactor && s.Factor > 0:
		return s.Factor
	case s.Kind == LineHeightAbsolute && fontSize > 0 && s.Len.Value > 0:
		return s.Len.ToPX() / fontSize
	default:
		return defaultLineSpacing
	}
}
