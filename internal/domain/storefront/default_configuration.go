package storefront

import (
	"encoding/json"
	"time"
)

// slot mirrors the editor's slot-tree node shape. The lifecycle engine
// never reads these back; they exist only to seed brand-new scopes with a
// sensible baseline layout.
type slot struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Content string         `json:"content,omitempty"`
	Style   map[string]any `json:"style,omitempty"`
	Parent  *string        `json:"parent"`
	Layout  map[string]any `json:"layout,omitempty"`
}

type slotTree struct {
	Slots    map[string]slot `json:"slots"`
	Metadata struct {
		CreatedAt    string `json:"createdAt"`
		LastModified string `json:"lastModified"`
		PageType     string `json:"pageType"`
	} `json:"metadata"`
}

// DefaultConfiguration returns the baseline slot tree used when a scope has
// no published history and the caller supplied no configuration. Each call
// produces a fresh document with fresh timestamps; callers own the copy.
func DefaultConfiguration(pageType string) (string, error) {
	root := "root"
	tree := slotTree{
		Slots: map[string]slot{
			"root": {
				ID:     "root",
				Type:   "container",
				Parent: nil,
				Layout: map[string]any{"columns": 12, "gap": 16},
			},
			"header": {
				ID:      "header",
				Type:    "header",
				Content: "Your Cart",
				Parent:  &root,
				Style:   map[string]any{"fontSize": "2xl", "fontWeight": "bold"},
				Layout:  map[string]any{"row": 0, "colSpan": 12},
			},
			"empty_cart": {
				ID:      "empty_cart",
				Type:    "text",
				Content: "Your cart is empty. Continue shopping to add items.",
				Parent:  &root,
				Style:   map[string]any{"textAlign": "center", "color": "muted"},
				Layout:  map[string]any{"row": 1, "colSpan": 12},
			},
			"coupon": {
				ID:      "coupon",
				Type:    "coupon_input",
				Content: "Apply coupon",
				Parent:  &root,
				Layout:  map[string]any{"row": 2, "colSpan": 6},
			},
			"order_summary": {
				ID:     "order_summary",
				Type:   "order_summary",
				Parent: &root,
				Layout: map[string]any{"row": 2, "colSpan": 6},
			},
		},
	}

	now := time.Now().UTC().Format(time.RFC3339)
	tree.Metadata.CreatedAt = now
	tree.Metadata.LastModified = now
	tree.Metadata.PageType = pageType

	raw, err := json.Marshal(tree)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
