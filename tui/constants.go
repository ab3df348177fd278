package tui

const (
	planIndexColumn   = 0
	planMethodColumn  = 1
	planPathColumn    = 2
	planTokenColumn   = 3
	planProfileColumn = 4
	planParamsColumn  = 5

	minPathColumnWidth = 20
	maxParamsWidth     = 60

	tokenMarker   = "refresh"
	profileMarker = "profile"
)
