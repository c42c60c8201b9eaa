package theme

// Dracula colour palette, https://draculatheme.com/contribute
var Dracula Theme = palette{
	primary:   adaptive("#7e57c2", "#bd93f9"),
	secondary: adaptive("#0097a7", "#8be9fd"),
	accent:    adaptive("#f9a825", "#f1fa8c"),
	err:       adaptive("#d32f2f", "#ff5555"),
	success:   adaptive("#388e3c", "#50fa7b"),
	text:      adaptive("#212121", "#f8f8f2"),
	muted:     adaptive("#757575", "#6272a4"),
	selection: adaptive("#e0e0e0", "#44475a"),
	border:    adaptive("#bdbdbd", "#6272a4"),
}

func init() {
	RegisterTheme("dracula", Dracula)
}
