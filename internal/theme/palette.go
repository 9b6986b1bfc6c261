package theme

// PaletteOverrides are the named color roles replaced on top of the light palette.
type PaletteOverrides struct {
	Primary           Color            `json:"primary"`
	Secondary         Color            `json:"secondary"`
	Error             Color            `json:"error"`
	Warning           Color            `json:"warning"`
	Info              Color            `json:"info"`
	Success           Color            `json:"success"`
	Background        BackgroundColors `json:"background"`
	Banner            BannerColors     `json:"banner"`
	ErrorBackground   Color            `json:"errorBackground"`
	WarningBackground Color            `json:"warningBackground"`
	InfoBackground    Color            `json:"infoBackground"`
	Navigation        NavigationColors `json:"navigation"`
}

type BackgroundColors struct {
	Default Color `json:"default"`
	Paper   Color `json:"paper"`
}

type BannerColors struct {
	Info  Color `json:"info"`
	Error Color `json:"error"`
	Text  Color `json:"text"`
	Link  Color `json:"link"`
}

type NavigationColors struct {
	Background    Color         `json:"background"`
	Indicator     Color         `json:"indicator"`
	SelectedColor Color         `json:"selectedColor"`
	Color         Color         `json:"color"`
	Submenu       SubmenuColors `json:"submenu"`
	NavItem       NavItemColors `json:"navItem"`
}

type SubmenuColors struct {
	Background Color `json:"background"`
}

type NavItemColors struct {
	HoverBackground Color `json:"hoverBackground"`
}

// ComponentOverrides holds per-component style overrides.
type ComponentOverrides struct {
	SidebarItem     SidebarItemStyle `json:"sidebarItem"`
	ButtonPrimary   ButtonStyle      `json:"buttonContainedPrimary"`
	ButtonSecondary ButtonStyle      `json:"buttonContainedSecondary"`
}

type SidebarItemStyle struct {
	TextDecorationLine string `json:"textDecorationLine"`
}

type ButtonStyle struct {
	HoverBackground Color `json:"hoverBackground"`
	Color           Color `json:"color"`
}

const (
	skyBlue  Color = "#35abe2"
	slate    Color = "#565a6e"
	wine     Color = "#8c4351"
	ochre    Color = "#8f5e15"
	ink      Color = "#343b58"
	white    Color = "#ffffff"
	paper    Color = "#f4f4f4"
	btnLabel Color = "#FFFFFF"
)

func defaultPalette() PaletteOverrides {
	return PaletteOverrides{
		Primary:   skyBlue,
		Secondary: slate,
		Error:     wine,
		Warning:   ochre,
		Info:      skyBlue,
		Success:   skyBlue,
		Background: BackgroundColors{
			Default: white,
			Paper:   paper,
		},
		Banner: BannerColors{
			Info:  skyBlue,
			Error: wine,
			Text:  ink,
			Link:  slate,
		},
		ErrorBackground:   wine,
		WarningBackground: ochre,
		InfoBackground:    ink,
		Navigation: NavigationColors{
			Background:    paper,
			Indicator:     BrandPurple,
			SelectedColor: BrandPurple,
			Color:         BrandBlue,
			Submenu:       SubmenuColors{Background: skyBlue},
			NavItem:       NavItemColors{HoverBackground: skyBlue},
		},
	}
}

func defaultComponents() ComponentOverrides {
	return ComponentOverrides{
		SidebarItem:     SidebarItemStyle{TextDecorationLine: "none"},
		ButtonPrimary:   ButtonStyle{HoverBackground: skyBlue, Color: btnLabel},
		ButtonSecondary: ButtonStyle{HoverBackground: skyBlue, Color: btnLabel},
	}
}
