package catalog

// Bundle is a purchasable product (an expansion pack) identified by its SKU.
type Bundle struct {
	SKU      string    `json:"sku" yaml:"sku"`                         // Unique product code
	Name     string    `json:"name" yaml:"name"`                       // Display name
	Wave     int       `json:"wave" yaml:"wave"`                       // Release wave, 0 for core sets
	Quirk    string    `json:"quirk,omitempty" yaml:"quirk,omitempty"` // Known data caveat, reported on use
	Contents []Content `json:"contents" yaml:"contents"`               // Ordered contents; may be empty
}

// Content is one row of a bundle's contents.
type Content struct {
	Item  ItemID `json:"item" yaml:"item"`
	Count int    `json:"count" yaml:"count"`
}

// ItemCount returns the total number of physical items in one copy of the bundle.
func (b *Bundle) ItemCount() int {
	total := 0
	for _, c := range b.Contents {
		total += c.Count
	}
	return total
}

// Source records that a bundle contains an item.
type Source struct {
	SKU   string `json:"sku" yaml:"sku"`
	Name  string `json:"name" yaml:"name"`
	Wave  int    `json:"wave" yaml:"wave"`
	Count int    `json:"count" yaml:"count"` // Copies of the item per bundle
}
