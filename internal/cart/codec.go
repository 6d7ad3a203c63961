package cart

import "encoding/json"

// Persistence keys inside a session namespace.
const (
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
)

type Line struct {
	ProductID int `json:"id"`
	Qty       int `json:"qty"`
}

func EncodeCart(lines []Line) string {
	if lines == nil {
		lines = []Line{}
	}
	b, _ := json.Marshal(lines)
	return string(b)
}

// DecodeCart never fails: missing or unparsable input is an empty cart.
// Lines with qty below 1 are dropped and repeated product ids are merged into
// the first line, so a restored cart holds one line per product.
func DecodeCart(raw string) []Line {
	var stored []Line
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return []Line{}
	}

	lines := make([]Line, 0, len(stored))
	at := make(map[int]int, len(stored))
	for _, l := range stored {
		if l.Qty < 1 {
			continue
		}
		if i, ok := at[l.ProductID]; ok {
			lines[i].Qty = addQty(lines[i].Qty, l.Qty)
			continue
		}
		at[l.ProductID] = len(lines)
		lines = append(lines, l)
	}
	return lines
}

func EncodeWishlist(ids []int) string {
	if ids == nil {
		ids = []int{}
	}
	b, _ := json.Marshal(ids)
	return string(b)
}

// DecodeWishlist keeps the first occurrence of each id.
func DecodeWishlist(raw string) []int {
	var stored []int
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return []int{}
	}

	ids := make([]int, 0, len(stored))
	seen := make(map[int]struct{}, len(stored))
	for _, id := range stored {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
