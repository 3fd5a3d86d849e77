package store

// ClickArea names the region a ButtonPress landed in (§4.1 "Classify the
// click region"). Lives in store (rather than events or bar) so both the
// dispatcher and the bar renderer can share it without an import cycle.
type ClickArea int

const (
	ClickTagBar ClickArea = iota
	ClickLtSymbol
	ClickStatusText
	ClickWinTitle
	ClickClientWin
	ClickRootWin
)
