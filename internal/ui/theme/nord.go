package theme

// Nord colour palette, https://www.nordtheme.com/docs/colors-and-palettes
var Nord Theme = palette{
	primary:   adaptive("#5E81AC", "#88C0D0"),
	secondary: adaptive("#4C566A", "#81A1C1"),
	accent:    adaptive("#D08770", "#EBCB8B"),
	err:       adaptive("#BF616A", "#BF616A"),
	success:   adaptive("#A3BE8C", "#A3BE8C"),
	text:      adaptive("#2E3440", "#ECEFF4"),
	muted:     adaptive("#4C566A", "#D8DEE9"),
	selection: adaptive("#E5E9F0", "#434C5E"),
	border:    adaptive("#D8DEE9", "#4C566A"),
}

func init() {
	RegisterTheme("nord", Nord)
}
