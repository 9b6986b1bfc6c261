// Package theme builds the portal's immutable visual theme: palette overrides,
// component style overrides and one page theme per content category.
//
// Integration example:
//
//	th := theme.Build()
//	header := th.Descriptor(theme.CategoryHome)
//	banner.SetBackground(header.BackgroundImage)
//	banner.SetForeground(string(header.FontColor))
//	nav.SetHover(string(th.Palette.Navigation.NavItem.HoverBackground))
//
// Build once at startup and pass the value to every consumer.
package theme
