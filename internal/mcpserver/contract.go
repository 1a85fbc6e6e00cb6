package mcpserver

import (
	"fmt"

	"github.com/starford/corkboard/internal/models"
)

// boardRules describes the board's coordinate system and note rules for
// LLM consumers placing notes.
func boardRules(limit int) string {
	return fmt.Sprintf(`# Corkboard Rules

The board is an unbounded 2D plane measured in world units. A note is a
150 x 100 card centered on (x, y); y grows downward.

## Placing notes

1. **A token is required.** Pass the bearer token returned by login or
   registration as the token argument of create_note and get_quota.
2. **Content** is plain text, 1 to %d characters after counting in UTF-16
   code units. Whitespace-only content is rejected.
3. **Coordinates** x and y are finite numbers. Any position is allowed and
   notes may overlap.
4. **Daily limit:** each user may place %d notes per calendar day. Call
   get_quota before a batch to see what is left.
5. Notes are permanent. There is no edit or delete.

## Viewing the board

render_board returns an SVG of the visible area for a zoom between 0.1 and
5 and a pan offset in world units. Text is hidden at zoom 0.5 and below.
`, models.MaxContentLength, limit)
}
