package theme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// PageCategory identifies the kind of content a page shows.
type PageCategory string

const (
	CategoryHome          PageCategory = "home"
	CategoryDocumentation PageCategory = "documentation"
	CategoryProject       PageCategory = "project"
	CategoryTool          PageCategory = "tool"
	CategoryLibrary       PageCategory = "library"
	CategoryTechnique     PageCategory = "technique"
	CategoryOther         PageCategory = "other"
	CategoryAPIs          PageCategory = "apis"
)

// ShapeKind is the decorative shape drawn behind page headers.
type ShapeKind string

const (
	ShapeWave  ShapeKind = "wave"
	ShapeRound ShapeKind = "round"
)

// Color is a CSS hex color.
type Color string

// Brand colors.
const (
	BrandBlue   Color = "#0d456b"
	BrandPurple Color = "#9d599f"

	defaultFontColor Color = "#ffffff"
)

var (
	// ErrUnknownCategory is returned when a category name is not in the closed set.
	ErrUnknownCategory = errors.New("unknown page category")
	// ErrInvalidColor is returned by Validate for a color that is not hex.
	ErrInvalidColor = errors.New("invalid color")
	// ErrMissingPageTheme is returned by Validate when a category has no descriptor.
	ErrMissingPageTheme = errors.New("missing page theme")
)

// Valid reports whether c parses as a hex color.
func (c Color) Valid() bool {
	_, err := colorful.Hex(string(c))
	return err == nil
}

// Blend mixes c towards other by t in [0,1] and returns a hex color.
// Invalid inputs return c unchanged.
func (c Color) Blend(other Color, t float64) Color {
	from, err := colorful.Hex(string(c))
	if err != nil {
		return c
	}
	to, err := colorful.Hex(string(other))
	if err != nil {
		return c
	}
	return Color(from.BlendLab(to, t).Clamped().Hex())
}

// ThemeDescriptor is the header styling applied to a page of one category.
type ThemeDescriptor struct {
	Colors          [2]Color  `json:"colors"`
	Shape           ShapeKind `json:"shape"`
	FontColor       Color     `json:"fontColor"`
	BackgroundImage string    `json:"backgroundImage"`
}

// Theme is the full portal theme.
type Theme struct {
	Palette    PaletteOverrides                 `json:"palette"`
	Pages      map[PageCategory]ThemeDescriptor `json:"pageTheme"`
	Components ComponentOverrides               `json:"components"`
}

var categories = [...]PageCategory{
	CategoryHome,
	CategoryDocumentation,
	CategoryProject,
	CategoryTool,
	CategoryLibrary,
	CategoryTechnique,
	CategoryOther,
	CategoryAPIs,
}

var shapeImages = map[ShapeKind]string{
	ShapeWave:  `url("/backstage/img/shapes/wave.svg")`,
	ShapeRound: `url("/backstage/img/shapes/round.svg")`,
}

type pageStyle struct {
	colors [2]Color
	shape  ShapeKind
}

// Categories outside this table render with CategoryOther.
var pageStyles = map[PageCategory]pageStyle{
	CategoryHome:          {colors: [2]Color{BrandBlue, BrandPurple}, shape: ShapeWave},
	CategoryDocumentation: {colors: [2]Color{BrandBlue, BrandPurple}, shape: ShapeWave},
	CategoryProject:       {colors: [2]Color{BrandBlue, BrandBlue}, shape: ShapeWave},
	CategoryTool:          {colors: [2]Color{BrandPurple, BrandPurple}, shape: ShapeRound},
	CategoryLibrary:       {colors: [2]Color{BrandPurple, BrandPurple}, shape: ShapeRound},
	CategoryTechnique:     {colors: [2]Color{BrandPurple, BrandPurple}, shape: ShapeRound},
	CategoryOther:         {colors: [2]Color{BrandBlue, BrandPurple}, shape: ShapeWave},
	CategoryAPIs:          {colors: [2]Color{BrandBlue, BrandPurple}, shape: ShapeWave},
}

// Categories returns the closed set of page categories in declaration order.
func Categories() []PageCategory {
	out := make([]PageCategory, len(categories))
	copy(out, categories[:])
	return out
}

// ParseCategory maps a case-insensitive name to a PageCategory.
func ParseCategory(name string) (PageCategory, error) {
	candidate := PageCategory(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := pageStyles[candidate]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return candidate, nil
}

// Build returns a fresh copy of the portal theme. It never fails and two calls
// return structurally identical values.
func Build() Theme {
	pages := make(map[PageCategory]ThemeDescriptor, len(pageStyles))
	for _, category := range categories {
		style := pageStyles[category]
		pages[category] = genPageTheme(style.colors, style.shape)
	}
	return Theme{
		Palette:    defaultPalette(),
		Pages:      pages,
		Components: defaultComponents(),
	}
}

// Descriptor returns the page theme for category, falling back to CategoryOther.
func (t Theme) Descriptor(category PageCategory) ThemeDescriptor {
	if d, ok := t.Pages[category]; ok {
		return d
	}
	return t.Pages[CategoryOther]
}

// Validate checks that every category has a descriptor and that every palette,
// component and descriptor color parses as hex.
func (t Theme) Validate() error {
	var errs []error
	for _, role := range t.colorRoles() {
		if !role.color.Valid() {
			errs = append(errs, fmt.Errorf("%w: %s = %q", ErrInvalidColor, role.name, role.color))
		}
	}
	for _, category := range categories {
		if _, ok := t.Pages[category]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingPageTheme, category))
		}
	}
	return errors.Join(errs...)
}

type colorRole struct {
	name  string
	color Color
}

func (t Theme) colorRoles() []colorRole {
	p, c := t.Palette, t.Components
	roles := []colorRole{
		{"palette.primary", p.Primary},
		{"palette.secondary", p.Secondary},
		{"palette.error", p.Error},
		{"palette.warning", p.Warning},
		{"palette.info", p.Info},
		{"palette.success", p.Success},
		{"palette.background.default", p.Background.Default},
		{"palette.background.paper", p.Background.Paper},
		{"palette.banner.info", p.Banner.Info},
		{"palette.banner.error", p.Banner.Error},
		{"palette.banner.text", p.Banner.Text},
		{"palette.banner.link", p.Banner.Link},
		{"palette.errorBackground", p.ErrorBackground},
		{"palette.warningBackground", p.WarningBackground},
		{"palette.infoBackground", p.InfoBackground},
		{"palette.navigation.background", p.Navigation.Background},
		{"palette.navigation.indicator", p.Navigation.Indicator},
		{"palette.navigation.selectedColor", p.Navigation.SelectedColor},
		{"palette.navigation.color", p.Navigation.Color},
		{"palette.navigation.submenu.background", p.Navigation.Submenu.Background},
		{"palette.navigation.navItem.hoverBackground", p.Navigation.NavItem.HoverBackground},
		{"components.buttonContainedPrimary.hoverBackground", c.ButtonPrimary.HoverBackground},
		{"components.buttonContainedPrimary.color", c.ButtonPrimary.Color},
		{"components.buttonContainedSecondary.hoverBackground", c.ButtonSecondary.HoverBackground},
		{"components.buttonContainedSecondary.color", c.ButtonSecondary.Color},
	}
	for _, category := range categories {
		d, ok := t.Pages[category]
		if !ok {
			continue
		}
		prefix := "pageTheme." + string(category)
		roles = append(roles,
			colorRole{prefix + ".colors[0]", d.Colors[0]},
			colorRole{prefix + ".colors[1]", d.Colors[1]},
			colorRole{prefix + ".fontColor", d.FontColor},
		)
	}
	return roles
}

func genPageTheme(colors [2]Color, shape ShapeKind) ThemeDescriptor {
	return ThemeDescriptor{
		Colors:          colors,
		Shape:           shape,
		FontColor:       defaultFontColor,
		BackgroundImage: fmt.Sprintf("%s, linear-gradient(90deg, %s, %s)", shapeImages[shape], colors[0], colors[1]),
	}
}
