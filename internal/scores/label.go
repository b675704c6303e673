package scores

// Label is a region's consensus classification.
type Label string

const (
	// Phage is called only by phage tools.
	Phage Label = "phage"

	// Plasmid is called only by plasmid tools.
	Plasmid Label = "plasmid"

	// PP is called by phage and plasmid tools, a phage-plasmid.
	PP Label = "PP"

	// PPV is called by phage, plasmid and other virus tools.
	PPV Label = "PPV"

	// Virus is called only by non-phage virus tools.
	Virus Label = "virus"

	// Uncertain is any other combination.
	Uncertain Label = "uncertain"
)

// Classify labels a region from the number of phage, plasmid and other
// virus tools that called it.
func Classify(phage, plasmid, other int) Label {
	switch {
	case phage >= 1 && plasmid == 0 && other == 0:
		return Phage
	case phage == 0 && plasmid >= 1 && other == 0:
		return Plasmid
	case phage >= 1 && plasmid >= 1 && other == 0:
		return PP
	case phage >= 1 && plasmid >= 1 && other >= 1:
		return PPV
	case phage == 0 && plasmid == 0 && other >= 1:
		return Virus
	}
	return Uncertain
}
