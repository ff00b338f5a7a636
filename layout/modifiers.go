package layout

// ProcessModifiers 扫描段落标注，得到逐字符样式、widget 表、对齐、layer 标记以及整段图片。
// 非法区间与缺少数据的 widget 会被静默忽略。
func ProcessModifiers(mods []Modifier, contentLength int) ProcessedModifiers {
	pm := ProcessedModifiers{
		Styles:    make([]StyleSet, contentLength),
		Widgets:   map[int]Modifier{},
		Alignment: AlignLeft,
	}

	for _, m := range mods {
		switch m.Type {
		case ModAlignCenter:
			pm.Alignment = AlignCenter
		case ModAlignRight:
			pm.Alignment = AlignRight
		case ModLayer:
			pm.Layer = true
		case ModWidget:
			if !m.IsImage() && !m.IsEmoji() {
				continue
			}
			if m.Start < 0 || m.Start >= contentLength {
				continue
			}
			pm.Widgets[m.Start] = m
			if m.IsImage() {
				pm.ParaImage = promoteParagraphImage(pm.ParaImage, m, contentLength)
			}
		default:
			style := styleForModifier(m.Type)
			if style == 0 || m.End <= m.Start || m.End <= 0 {
				continue
			}
			start, end := m.Start, m.End
			if start < 0 {
				start = 0
			}
			if end > contentLength {
				end = contentLength
			}
			for i := start; i < end; i++ {
				pm.Styles[i] |= style
			}
		}
	}
	return pm
}

// promoteParagraphImage 按优先级决定整段图片：
// 位于 0 且段落仅一个字符居中；位于 0 靠左；位于末尾且此前没有靠左/居中图片时靠右。
func promoteParagraphImage(current *ParagraphImage, m Modifier, contentLength int) *ParagraphImage {
	var align Alignment
	switch {
	case m.Start == 0 && contentLength == 1:
		align = AlignCenter
	case m.Start == 0:
		align = AlignLeft
	case m.Start == contentLength-1:
		if current != nil && current.Alignment <= AlignCenter {
			return current
		}
		align = AlignRight
	default:
		return current
	}
	w, h := widgetDimensions(m)
	return &ParagraphImage{Alignment: align, URL: m.Data.URL, W: w, H: h}
}

// widgetDimensions 返回图片尺寸，缺失时回退到 50x50。
func widgetDimensions(m Modifier) (float64, float64) {
	w, h := widgetFallbackDimension, widgetFallbackDimension
	if m.Data != nil {
		if m.Data.W > 0 {
			w = m.Data.W
		}
		if m.Data.H > 0 {
			h = m.Data.H
		}
	}
	return w, h
}

// widgetWidth 返回 widget 在行内占用的宽度：图片按行高等比缩放，emoji 为正方形。
func widgetWidth(m Modifier, lineHeight float64) float64 {
	if !m.IsImage() {
		return lineHeight
	}
	w, h := widgetDimensions(m)
	return lineHeight * w / h
}
