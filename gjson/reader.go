// Package gjson reads loosely-shaped JSON documents (embedded structured
// data and model answers) through gjson's tagged tree.
package gjson

import (
	"regexp"
	"strings"

	"github.com/fwojciec/immodiag"
	"github.com/tidwall/gjson"
)

// Ensure RecordReader implements immodiag.RecordReader at compile time.
var _ immodiag.RecordReader = (*RecordReader)(nil)

// ignoredTypes describe the publisher or the page rather than the listed
// property; their names and addresses would otherwise leak into the Fact.
var ignoredTypes = map[string]bool{
	"breadcrumblist":        true,
	"imageobject":           true,
	"localbusiness":         true,
	"organization":          true,
	"person":                true,
	"realestateagent":       true,
	"searchaction":          true,
	"sitenavigationelement": true,
	"webpage":               true,
	"website":               true,
}

// Each accessor lists alternative paths, tried in order.
var (
	titlePaths       = []string{"name", "headline", "itemOffered.name"}
	descriptionPaths = []string{"description", "itemOffered.description"}
	pricePaths       = []string{
		"offers.price",
		"offers.0.price",
		"offers.priceSpecification.price",
		"offers.lowPrice",
		"itemOffered.offers.price",
		"price",
	}
	surfacePaths = []string{
		"floorSize.value",
		"floorSize",
		"itemOffered.floorSize.value",
		"about.floorSize.value",
		"mainEntity.floorSize.value",
	}
	roomsPaths = []string{
		"numberOfRooms.value",
		"numberOfRooms",
		"itemOffered.numberOfRooms",
		"about.numberOfRooms",
	}
	bedroomsPaths = []string{
		"numberOfBedrooms.value",
		"numberOfBedrooms",
		"itemOffered.numberOfBedrooms",
		"about.numberOfBedrooms",
	}
	addressPrefixes = []string{"address", "itemOffered.address", "about.address", "location.address", "contentLocation.address"}
	energyPaths     = []string{
		"hasEnergyConsumptionDetails.hasEnergyEfficiencyCategory",
		"itemOffered.hasEnergyConsumptionDetails.hasEnergyEfficiencyCategory",
		"energyClass",
		"energyEfficiencyClass",
	}
	ghgPaths  = []string{"greenhouseGasEmissionClass", "ghgClass", "gesClass"}
	yearPaths = []string{"yearBuilt", "itemOffered.yearBuilt", "about.yearBuilt"}
)

// trailingGradeRe finds a grade letter ending free text such as
// "https://schema.org/EUEnergyEfficiencyCategoryD" or "Classe énergie : C".
var trailingGradeRe = regexp.MustCompile(`(?:^|[^A-Z])([A-G])[^A-Za-z0-9]*$`)

// RecordReader maps structured-data records to partial Facts.
type RecordReader struct{}

// NewRecordReader creates a new RecordReader.
func NewRecordReader() *RecordReader {
	return &RecordReader{}
}

// ReadRecord applies every accessor to rec. Records describing a publisher
// or page rather than a property yield an empty Fact.
func (r *RecordReader) ReadRecord(rec immodiag.StructuredRecord) immodiag.Fact {
	if ignoredTypes[strings.ToLower(rec.Type)] || !gjson.Valid(rec.JSON) {
		return immodiag.Fact{}
	}
	node := gjson.Parse(rec.JSON)
	if !node.IsObject() {
		return immodiag.Fact{}
	}

	f := immodiag.Fact{
		Title:       firstString(node, titlePaths),
		Description: firstString(node, descriptionPaths),
		Price:       firstQuantity(node, pricePaths),
		SurfaceM2:   firstQuantity(node, surfacePaths),
		Rooms:       firstInt(node, roomsPaths),
		Bedrooms:    firstInt(node, bedroomsPaths),
		City:        firstString(node, suffixed(addressPrefixes, "addressLocality")),
		PostalCode:  firstString(node, suffixed(addressPrefixes, "postalCode")),
		EnergyClass: TrailingGrade(firstString(node, energyPaths)),
		GHGClass:    TrailingGrade(firstString(node, ghgPaths)),
		YearBuilt:   firstInt(node, yearPaths),
	}
	return f.Normalize()
}

// TrailingGrade reduces free text to its trailing A-G grade letter.
func TrailingGrade(s string) string {
	if g := immodiag.Grade(s); g != "" {
		return g
	}
	if m := trailingGradeRe.FindStringSubmatch(strings.TrimSpace(s)); m != nil {
		return m[1]
	}
	return ""
}

func firstString(node gjson.Result, paths []string) string {
	for _, p := range paths {
		v := node.Get(p)
		switch v.Type {
		case gjson.String:
			if s := strings.TrimSpace(v.Str); s != "" {
				return s
			}
		case gjson.Number:
			return v.Raw
		}
	}
	return ""
}

func firstNumber(node gjson.Result, paths []string) *float64 {
	for _, p := range paths {
		if v := number(node.Get(p)); v != nil {
			return v
		}
	}
	return nil
}

// firstQuantity is firstNumber skipping values that are not positive or
// exceed immodiag.MaxQuantity.
func firstQuantity(node gjson.Result, paths []string) *float64 {
	for _, p := range paths {
		if v := number(node.Get(p)); v != nil && *v > 0 && *v <= immodiag.MaxQuantity {
			return v
		}
	}
	return nil
}

func firstInt(node gjson.Result, paths []string) *int {
	return immodiag.IntValue(firstNumber(node, paths))
}

// number reads numbers and numeric strings; other shapes are not found.
func number(v gjson.Result) *float64 {
	switch v.Type {
	case gjson.Number:
		f := v.Num
		return &f
	case gjson.String:
		return immodiag.ParseNumber(v.Str)
	}
	return nil
}

func suffixed(prefixes []string, key string) []string {
	paths := make([]string, len(prefixes))
	for i, p := range prefixes {
		paths[i] = p + "." + key
	}
	return paths
}
