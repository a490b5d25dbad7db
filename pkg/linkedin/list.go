package linkedin

import "github.com/PuerkitoBio/goquery"

// topLevelItems returns the section's list items that are not nested inside a
// sub-component block. Nested items belong to the entry that contains them.
func (e *Extractor) topLevelItems(section *goquery.Selection) []*goquery.Selection {
	if section == nil || section.Length() == 0 {
		return nil
	}
	var items []*goquery.Selection
	section.Find(e.sel.ListItem).Each(func(_ int, li *goquery.Selection) {
		if li.Closest(e.sel.SubComponents).Length() > 0 {
			return
		}
		items = append(items, li)
	})
	return items
}
