package constraint

// Place is a canonical city or region with its spelling variants and the
// neighbouring places a "surrounding area" query widens to.
type Place struct {
	Name       string
	Variants   []string
	Neighbours []string
}

// Rules is the data table driving extraction. Adding a role, place or marker
// is a data change only.
type Rules struct {
	// Roles are role-indicating words matched anywhere in the text.
	Roles []string
	// Places map canonical locations to spelling variants and neighbours.
	Places []Place
	// AreaQualifiers switch matched places from strict to loose.
	AreaQualifiers []string
	// CompanyMarkers precede a company name ("hos Novo Nordisk").
	CompanyMarkers []string
}

// DefaultRules returns the built-in Danish vocabulary.
func DefaultRules() Rules {
	return Rules{
		Roles: []string{
			"cfo", "ceo", "coo", "cto", "cio",
			"direktør", "økonomidirektør", "finansdirektør",
			"økonomichef", "regnskabschef", "finanschef", "controller", "controlling",
			"bogholder", "revisor", "treasury", "business partner",
			"økonomi", "regnskab", "finance", "accounting",
			"interim", "konsulent", "leder", "chef", "manager",
		},
		Places: []Place{
			{
				Name:     "københavn",
				Variants: []string{"københavn", "kobenhavn", "koebenhavn", "kbh", "copenhagen", "cph"},
				Neighbours: []string{
					"frederiksberg", "gentofte", "hellerup", "lyngby", "valby", "ballerup", "glostrup",
					"herlev", "hvidovre", "søborg", "ørestad", "kastrup", "brøndby", "storkøbenhavn",
				},
			},
			{
				Name:       "aarhus",
				Variants:   []string{"aarhus", "århus", "arhus"},
				Neighbours: []string{"risskov", "viby", "højbjerg", "brabrand", "skanderborg", "hinnerup", "silkeborg", "randers"},
			},
			{
				Name:       "odense",
				Variants:   []string{"odense"},
				Neighbours: []string{"svendborg", "middelfart", "nyborg", "kerteminde", "faaborg", "fyn"},
			},
			{
				Name:       "aalborg",
				Variants:   []string{"aalborg", "ålborg"},
				Neighbours: []string{"nørresundby", "hjørring", "frederikshavn", "hobro", "nordjylland"},
			},
			{
				Name:       "esbjerg",
				Variants:   []string{"esbjerg"},
				Neighbours: []string{"varde", "ribe", "grindsted", "sydvestjylland"},
			},
			{
				Name:       "trekantområdet",
				Variants:   []string{"trekantområdet", "trekantomradet"},
				Neighbours: []string{"vejle", "kolding", "fredericia", "billund", "horsens"},
			},
			{
				Name:       "vejle",
				Variants:   []string{"vejle"},
				Neighbours: []string{"kolding", "fredericia", "horsens", "billund"},
			},
			{
				Name:       "roskilde",
				Variants:   []string{"roskilde"},
				Neighbours: []string{"køge", "holbæk", "ringsted", "greve"},
			},
			{
				Name:       "nordsjælland",
				Variants:   []string{"nordsjælland", "nordsjaelland"},
				Neighbours: []string{"hillerød", "helsingør", "fredensborg", "hørsholm", "allerød", "birkerød"},
			},
		},
		AreaQualifiers: []string{
			"omegn", "omegnen", "området", "omkring", "i nærheden", "nær", "tæt på",
			"regionen", "nearby", "surrounding", "in the area",
		},
		CompanyMarkers: []string{"hos", "ved", "at"},
	}
}

// WithCities returns a copy extended with catalog cities that are not
// already known. Added cities have no neighbours.
func (r Rules) WithCities(cities []string) Rules {
	known := make(map[string]bool)
	for _, p := range r.Places {
		for _, v := range p.Variants {
			known[v] = true
		}
	}
	places := append([]Place(nil), r.Places...)
	for _, c := range cities {
		c = normalize(c)
		if len([]rune(c)) < 3 || known[c] {
			continue
		}
		known[c] = true
		places = append(places, Place{Name: c, Variants: []string{c}})
	}
	r.Places = places
	return r
}
