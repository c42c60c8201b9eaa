package theme

// Azure follows the Azure DevOps web colours.
var Azure Theme = palette{
	primary:   adaptive("#0078d4", "#2899f5"),
	secondary: adaptive("#005a9e", "#6cb8f6"),
	accent:    adaptive("#8a6d00", "#ffc83d"),
	err:       adaptive("#a4262c", "#f1707b"),
	success:   adaptive("#107c10", "#6ccb5f"),
	text:      adaptive("#201f1e", "#f3f2f1"),
	muted:     adaptive("#605e5c", "#a19f9d"),
	selection: adaptive("#c7e0f4", "#004578"),
	border:    adaptive("#c8c6c4", "#484644"),
}

func init() {
	RegisterTheme("azure", Azure)
}
