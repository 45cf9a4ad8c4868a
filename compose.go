package immodiag

// Sources holds every attribute source recovered for one document.
type Sources struct {
	// Records are structured-data records read in document order.
	Records []Fact

	Meta      MetaFields
	Heuristic Fact

	// Site holds site adapter output. Only its location is used, and only
	// when no other source produced a city or postal code.
	Site Fact
}

// Compose merges sources field by field with fixed precedence: structured
// records, then meta title and description, then text heuristics, then
// the site adapter location. The first populated value wins. The site
// location is applied as a unit so a postal code is never paired with a
// city from another source.
func Compose(s Sources) Fact {
	var f Fact
	for _, rec := range s.Records {
		f = f.Merge(rec.Normalize())
	}
	f = f.Merge(Fact{Title: s.Meta.Title, Description: s.Meta.Description}.Normalize())
	f = f.Merge(s.Heuristic.Normalize())
	if f.City == "" && f.PostalCode == "" {
		f = f.Merge(Fact{City: s.Site.City, PostalCode: s.Site.PostalCode}.Normalize())
	}
	return f
}
