package ui

import "github.com/charmbracelet/glamour"

const helpMarkdown = `# Phylo Movies Player

## Playback

| Key | Action |
|-----|--------|
| space | play / pause |
| → / ← | step one position |
| shift+→ / shift+← | jump to next / previous full tree |
| ] / [ | jump to next / previous consensus tree |
| n / p | jump across s-edge blocks |
| home / end | first / last position |
| + / - | change playback speed |

## View

| Key | Action |
|-----|--------|
| m | toggle monophyletic group coloring |
| d | dim branches outside the active edits |
| D | dim marked branches instead of tinting |
| u | toggle uniform scaling across trees |
| t | cycle the branch length transform |
| b | cycle the distance chart series |

## Other

| Key | Action |
|-----|--------|
| y | copy the nearest full tree as Newick |
| s | save an SVG snapshot of the current frame |
| ? | toggle this help |
| q | quit |
`

// renderHelp renders the help markdown for a terminal of the given width.
// Falls back to the raw markdown when the renderer cannot be built.
func renderHelp(width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
