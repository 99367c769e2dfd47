package facility

import (
	"fmt"
	"strings"
)

// Kind is the classified category of a facility name.
type Kind int

const (
	Unclassified Kind = iota
	CHC
	PHC
	DistrictHospital
	WomenHospital
	CombinedHospital
	MentalHealth
)

var kindNames = []string{
	Unclassified:     "UNCLASSIFIED",
	CHC:              "CHC",
	PHC:              "PHC",
	DistrictHospital: "DISTRICT_HOSPITAL",
	WomenHospital:    "WOMEN_HOSPITAL",
	CombinedHospital: "COMBINED_HOSPITAL",
	MentalHealth:     "MENTAL_HEALTH",
}

// Kinds returns every kind, UNCLASSIFIED first.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}
	return kinds
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind parses a kind name such as "DISTRICT_HOSPITAL". Matching is
// case-insensitive and accepts spaces or hyphens for underscores.
func ParseKind(s string) (Kind, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	want = strings.NewReplacer(" ", "_", "-", "_").Replace(want)
	for i, name := range kindNames {
		if name == want {
			return Kind(i), nil
		}
	}
	return Unclassified, fmt.Errorf("unknown facility kind %q", s)
}

// DefaultPlacement is the output layout used for a kind when its template
// does not name one: health centres read "<phrase> <area>", hospitals
// read "<phrase>, <area>".
func (k Kind) DefaultPlacement() Placement {
	switch k {
	case CHC, PHC:
		return PlacementPrefix
	case Unclassified:
		return PlacementNone
	default:
		return PlacementComma
	}
}

// Placement says where the translated area goes relative to the type phrase.
type Placement int

const (
	PlacementNone Placement = iota
	PlacementPrefix
	PlacementComma
)

func (p Placement) String() string {
	switch p {
	case PlacementPrefix:
		return "prefix"
	case PlacementComma:
		return "comma"
	default:
		return "none"
	}
}

// ParsePlacement parses "prefix" or "comma".
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prefix":
		return PlacementPrefix, nil
	case "comma":
		return PlacementComma, nil
	}
	return PlacementNone, fmt.Errorf("unknown placement %q (want prefix or comma)", s)
}
