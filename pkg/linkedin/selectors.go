package linkedin

// Selectors holds every CSS selector the extractor relies on. LinkedIn ships
// markup changes often, so the whole set can be replaced with WithSelectors.
//
//nolint:govet // fieldalignment: grouped by page region
type Selectors struct {
	// Top card.
	FullName string
	Headline string
	Location string

	// Section anchors. Each anchor sits inside the <section> it names.
	About      string
	Experience string
	Education  string
	Skills     string
	Section    string

	// About text: the "see more" container holds the full text in a hidden span.
	AboutExpandable string
	AboutFullText   string
	AboutVisible    string

	// Lists.
	ListItem      string
	SubComponents string
	NestedList    string
	NestedItem    string

	// Experience rows.
	Role    string
	Company string
	Date    string

	// Education rows.
	School    string
	Degree    string
	DateRange string

	// Skills expansion.
	ShowAllSkills string
	SkillReady    string
	LoadMore      string
	SkillItem     string
	SkillName     string
	SkillNameAlt  string
}

// DefaultSelectors matches the profile markup served to logged-in members.
func DefaultSelectors() Selectors {
	return Selectors{
		FullName: ".inline.t-24.v-align-middle.break-words",
		Headline: ".text-body-medium.break-words",
		Location: ".text-body-small.inline.t-black--light.break-words",

		About:      "#about",
		Experience: "#experience",
		Education:  "#education",
		Skills:     "#skills",
		Section:    "section",

		AboutExpandable: `div[class*="inline-show-more-text"]`,
		AboutFullText:   `span[aria-hidden="true"]`,
		AboutVisible:    `div.display-flex.ph5.pv3 span[aria-hidden="true"]`,

		ListItem:      "ul > li",
		SubComponents: ".pvs-entity__sub-components",
		NestedList:    ".pvs-entity__sub-components ul",
		NestedItem:    "li",

		Role:    `.mr1 span[aria-hidden="true"]`,
		Company: `span.t-14.t-normal span[aria-hidden="true"]`,
		Date:    ".pvs-entity__caption-wrapper",

		School:    `.mr1 span[aria-hidden="true"]`,
		Degree:    `.t-14.t-normal span[aria-hidden="true"]`,
		DateRange: `.t-14.t-normal.t-black--light span[aria-hidden="true"]`,

		ShowAllSkills: `a[id^="navigation-index-Show-all"][href*="details/skills"]`,
		SkillReady:    ".pv-skill-category-entity__name-text, .pv-skill-entity__skill-name, li.pvs-list__paged-list-item",
		LoadMore:      "button.scaffold-finite-scroll__load-button",
		SkillItem:     "li.pvs-list__paged-list-item",
		SkillName:     `.mr1.hoverable-link-text.t-bold span[aria-hidden="true"]`,
		SkillNameAlt:  `span[aria-hidden="true"]`,
	}
}
