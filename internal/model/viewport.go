package model

// Viewport is a canvas preview size.
type Viewport struct {
	Name  string `json:"name"`
	Width int    `json:"width"`
}

var (
	ViewportDesktop = Viewport{Name: "desktop", Width: 1280}
	ViewportTablet  = Viewport{Name: "tablet", Width: 768}
	ViewportMobile  = Viewport{Name: "mobile", Width: 375}
)

// ViewportByName falls back to desktop for unknown names.
func ViewportByName(name string) Viewport {
	switch name {
	case ViewportTablet.Name:
		return ViewportTablet
	case ViewportMobile.Name:
		return ViewportMobile
	default:
		return ViewportDesktop
	}
}
