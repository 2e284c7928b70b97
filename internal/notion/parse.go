package notion

import (
	"strings"
	"time"

	"github.com/jomei/notionapi"
)

// richTextToString flattens a rich text array to its plain text.
func richTextToString(rts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range rts {
		if rt.PlainText != "" {
			b.WriteString(rt.PlainText)
		} else if rt.Text != nil {
			b.WriteString(rt.Text.Content)
		}
	}
	return strings.TrimSpace(b.String())
}

// titleOf extracts the plain text of a title property, or "" if absent.
func titleOf(page notionapi.Page, name string) string {
	prop, ok := page.Properties[name]
	if !ok {
		return ""
	}
	title, ok := prop.(*notionapi.TitleProperty)
	if !ok {
		return ""
	}
	return richTextToString(title.Title)
}

// textOf extracts the plain text of a rich text property, or "" if absent.
func textOf(page notionapi.Page, name string) string {
	prop, ok := page.Properties[name]
	if !ok {
		return ""
	}
	rt, ok := prop.(*notionapi.RichTextProperty)
	if !ok {
		return ""
	}
	return richTextToString(rt.RichText)
}

// numberOf extracts a number property. The second return reports presence;
// Notion leaves cleared number cells as zero-valued properties.
func numberOf(page notionapi.Page, name string) (float64, bool) {
	prop, ok := page.Properties[name]
	if !ok {
		return 0, false
	}
	num, ok := prop.(*notionapi.NumberProperty)
	if !ok || num.Number == 0 {
		return 0, false
	}
	return num.Number, true
}

// selectOf extracts the selected option name, or "" if nothing is selected.
func selectOf(page notionapi.Page, name string) string {
	prop, ok := page.Properties[name]
	if !ok {
		return ""
	}
	sel, ok := prop.(*notionapi.SelectProperty)
	if !ok {
		return ""
	}
	return sel.Select.Name
}

// dateOf extracts the start of a date property rebuilt in loc. Date-only
// values come back from the API in UTC; rebuilding the wall clock keeps
// midnight deadlines on the right calendar day.
func dateOf(page notionapi.Page, name string, loc *time.Location) (time.Time, bool) {
	prop, ok := page.Properties[name]
	if !ok {
		return time.Time{}, false
	}
	dp, ok := prop.(*notionapi.DateProperty)
	if !ok || dp.Date == nil || dp.Date.Start == nil {
		return time.Time{}, false
	}
	t := time.Time(*dp.Date.Start)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), true
}

// relationIDs extracts the related page IDs of a relation property.
func relationIDs(page notionapi.Page, name string) []string {
	prop, ok := page.Properties[name]
	if !ok {
		return nil
	}
	rel, ok := prop.(*notionapi.RelationProperty)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(rel.Relation))
	for _, r := range rel.Relation {
		ids = append(ids, string(r.ID))
	}
	return ids
}

func titleProp(text string) *notionapi.TitleProperty {
	return &notionapi.TitleProperty{
		Title: []notionapi.RichText{{Text: &notionapi.Text{Content: text}}},
	}
}

func selectProp(name string) *notionapi.SelectProperty {
	return &notionapi.SelectProperty{
		Select: notionapi.Option{Name: name},
	}
}

func dateRangeProp(start, end time.Time) *notionapi.DateProperty {
	s := notionapi.Date(start)
	e := notionapi.Date(end)
	return &notionapi.DateProperty{
		Date: &notionapi.DateObject{Start: &s, End: &e},
	}
}

func relationProp(ids ...string) *notionapi.RelationProperty {
	rels := make([]notionapi.Relation, 0, len(ids))
	for _, id := range ids {
		rels = append(rels, notionapi.Relation{ID: notionapi.PageID(id)})
	}
	return &notionapi.RelationProperty{Relation: rels}
}
