package genre

// aliases maps common subject spellings to a canonical slug.
var aliases = map[string]string{
	// Science fiction
	"sci-fi":                          "science-fiction",
	"scifi":                           "science-fiction",
	"sf":                              "science-fiction",
	"fiction-science-fiction":         "science-fiction",
	"science-fiction-general":         "science-fiction",
	"fiction-science-fiction-general": "science-fiction",

	// Fantasy
	"fiction-fantasy":         "fantasy",
	"fantasy-fiction":         "fantasy",
	"fiction-fantasy-general": "fantasy",
	"fantasy-general":         "fantasy",
	"high-fantasy":            "epic-fantasy",
	"fiction-fantasy-epic":    "epic-fantasy",

	// Mystery and thriller
	"detective-and-mystery-stories": "mystery",
	"fiction-mystery-detective":     "mystery",
	"mystery-fiction":               "mystery",
	"suspense":                      "thriller",
	"fiction-thrillers":             "thriller",
	"thrillers":                     "thriller",

	// Romance
	"love-stories":     "romance",
	"fiction-romance":  "romance",
	"romance-fiction":  "romance",
	"romantic-fantasy": "romantasy",

	// Horror
	"horror-fiction": "horror",
	"horror-tales":   "horror",
	"fiction-horror": "horror",

	// Young adult
	"ya":                  "young-adult",
	"teen":                "young-adult",
	"young-adult-fiction": "young-adult",
	"juvenile-fiction":    "young-adult",

	// Non-fiction
	"biography":               "biography-memoir",
	"autobiography":           "biography-memoir",
	"memoir":                  "biography-memoir",
	"biography-autobiography": "biography-memoir",
	"self-help-techniques":    "self-help",
	"personal-development":    "self-help",
	"history-general":         "history",

	// Literary
	"literary-fiction": "literary",
	"fiction-literary": "literary",
	"fiction-general":  "fiction",
	"general-fiction":  "fiction",
	"novels":           "fiction",
}

// noiseSubjects are catalogue tags that say nothing about the book's genre.
var noiseSubjects = map[string]struct{}{
	"accessible-book":          {},
	"protected-daisy":          {},
	"in-library":               {},
	"lending-library":          {},
	"large-type-books":         {},
	"open-library-staff-picks": {},
	"overdrive":                {},
	"english-language":         {},
	"reading-level-grade-11":   {},
	"reading-level-grade-12":   {},
}

// labels holds display names the title caser gets wrong.
var labels = map[string]string{
	"science-fiction":  "Science Fiction",
	"young-adult":      "Young Adult",
	"biography-memoir": "Biography & Memoir",
	"self-help":        "Self-Help",
	"litrpg":           "LitRPG",
	"romantasy":        "Romantasy",
	"epic-fantasy":     "Epic Fantasy",
	"literary":         "Literary Fiction",
}
