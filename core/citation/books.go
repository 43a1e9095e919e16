package citation

// primaryBookSlug maps the customary Polish abbreviations (OT + NT) to
// the provider's canonical book slugs. Keys are matched case-insensitively.
var primaryBookSlug = map[string]string{
	// NT
	"Mt": "mat", "Mk": "mar", "Łk": "luk", "Lk": "luk", "Łuk": "luk",
	"J": "jan", "Jan": "jan",
	"Dz": "dz",
	"Rz": "rz",
	"1Kor": "1kor", "I Kor": "1kor", "1 Kor": "1kor",
	"2Kor": "2kor", "II Kor": "2kor", "2 Kor": "2kor",
	"Gal": "gal", "Ef": "ef", "Flp": "flp", "Kol": "kol",
	"1Tes": "1tes", "2Tes": "2tes",
	"1Tm": "1tm", "2Tm": "2tm",
	"Tt": "tt", "Flm": "flm",
	"Hbr": "hbr", "Jak": "jak",
	"1P": "1p", "2P": "2p",
	"1J": "1j", "2J": "2j", "3J": "3j",
	"Jud": "jud",
	"Obj": "obj", "Ap": "obj",

	// ST
	"Rdz": "rdz", "Wj": "wj", "Kpł": "kpl", "Kpl": "kpl", "Lb": "lb", "Pwt": "pwt",
	"Joz": "joz", "Sdz": "sdz", "Rut": "rut",
	"1Sm": "1sm", "2Sm": "2sm",
	"1Krl": "1krl", "2Krl": "2krl",
	"1Krn": "1krn", "2Krn": "2krn",
	"Ezd": "ezd", "Neh": "neh", "Est": "est",
	"Hi": "hi", "Jb": "hi",
	"Ps": "ps", "Prz": "prz", "Koh": "koh", "Pnp": "pnp",
	"Iz": "iz", "Jer": "jer", "Lm": "lm", "Ez": "ez", "Dn": "dn",
	"Oz": "oz", "Jl": "jl", "Am": "am", "Ab": "ab", "Jon": "jon",
	"Mi": "mi", "Na": "na", "Ha": "ha", "So": "so",
	"Ag": "ag", "Za": "za", "Ml": "ml",
}

// extraAliases carries additional lower-case surface forms (full names,
// common misspellings) on top of primaryBookSlug. The table is known to
// be incomplete for some Old Testament minor variants; missing entries
// are config data to be added, not intentional omissions.
var extraAliases = map[string]string{
	"mt": "mat", "mateusz": "mat", "mateusza": "mat",
	"mk": "mar", "marka": "mar", "marek": "mar",
	"lk": "luk", "łk": "luk", "łuk": "luk", "luk": "luk", "łukasza": "luk",
	"j": "jan", "jan": "jan", "jana": "jan",
	"ap": "obj", "apo": "obj", "apokalipsa": "obj",
	"rodzaju": "rdz",
	"psalm": "ps", "psalmy": "ps",
}

// slugVariants lists alternate provider slugs per canonical slug, in the
// order they should be attempted. The provider has renamed several book
// slugs across revisions; a 404 on the canonical slug is retried against
// the alternates before reporting not-found.
var slugVariants = map[string][]string{
	"jan": {"jan", "ewjan", "joan"},
	"mat": {"mat", "ewmat"},
	"mar": {"mar", "ewmar"},
	"luk": {"luk", "ewluk"},
	"obj": {"obj", "apokal", "ap"},
}
