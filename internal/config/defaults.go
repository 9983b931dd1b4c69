package config

// Scan defaults.
const (
	DefaultMinScore     = 45
	DefaultLookbackDays = 2
	DefaultConcurrency  = 4
	DefaultLedgerPath   = "data/seen_urls.json"
	DefaultSender       = "onboarding@resend.dev"
)

// DefaultRequiredKeywords is the stock relevance vocabulary. At least one of
// these must appear in a record's title or body for it to score at all.
var DefaultRequiredKeywords = []string{
	// Case management
	"case management",
	"case management system",
	"case management software",
	"case management platform",
	// Licensing and certification
	"licensing system",
	"licensing platform",
	"licensing software",
	"license management",
	"certification system",
	"certification management",
	"certification platform",
	"credentialing system",
	"credentialing platform",
	// Permitting
	"permit management",
	"permitting system",
	"permitting software",
	"permitting platform",
	"permit tracking",
	// Benefits and services
	"benefits administration",
	"benefits management",
	"benefits platform",
	// Intake and workflow
	"intake management",
	"intake system",
	"workflow management",
	"workflow platform",
	"workflow automation",
	// Portals
	"constituent portal",
	"citizen portal",
	"client portal",
	"self-service portal",
	// Grants
	"grants management",
	"grants management system",
	"grant tracking",
	// Compliance and inspections
	"compliance management",
	"compliance management system",
	"inspection management",
	"enforcement management",
	"regulatory management",
	// Application tracking
	"application tracking system",
	"application management system",
	"application processing",
	// Forms and review
	"form management",
	"digital forms",
	"online application",
	"online permitting",
}

// DefaultBoostKeywords raise the relevance score but are never required.
var DefaultBoostKeywords = []string{
	"request for proposal",
	"rfp",
	"solicitation",
	"procurement",
	"bid",
	"rfi",
	"request for information",
	"software",
	"platform",
	"system",
	"application",
	"saas",
	"cloud",
	"cloud-based",
	"web-based",
	"digital transformation",
	"modernization",
	"implementation",
	"government",
	"state",
	"county",
	"municipal",
	"nonprofit",
	"non-profit",
	"agency",
}

// DefaultNegativeKeywords mark employment postings; any hit zeroes the score.
var DefaultNegativeKeywords = []string{
	"job posting",
	"career opportunity",
	"employment opportunity",
	"hiring",
	"salary",
	"resume",
	"curriculum vitae",
	"internship",
}

// DefaultSearchQueries are fed one at a time to the Google Search API.
var DefaultSearchQueries = []string{
	// Core procurement queries
	`"request for proposal" "case management" software`,
	`"request for proposal" "case management system"`,
	`"request for proposal" "licensing system" OR "licensing platform" software`,
	`"request for proposal" "certification management" OR "certification system" software`,
	`"request for proposal" "permitting system" OR "permit management" software`,
	`"request for proposal" "intake management" OR "intake system" software`,
	`"request for proposal" "workflow management" OR "workflow platform" software`,
	`"request for proposal" "constituent portal" OR "citizen portal"`,
	`"request for proposal" "benefits administration" OR "benefits management" software`,
	`"request for proposal" "grants management" system software`,
	`"request for proposal" "compliance management" software government`,
	`"request for proposal" "credentialing system" OR "credentialing platform"`,
	`"request for information" "case management" software government`,
	`"request for proposal" "application processing" software government`,
	`"request for proposal" "online permitting" OR "online licensing" platform`,
	`"request for proposal" "form management" OR "digital forms" government software`,
	// .gov domain targeting
	`site:.gov "request for proposal" "case management" software`,
	`site:.gov "request for proposal" "licensing system" OR "permitting system"`,
	`site:.gov "request for proposal" "workflow management" software`,
	`site:.gov "solicitation" "case management" OR "permitting" software`,
	`site:.gov "request for proposal" "grants management" software`,
	`site:.gov "request for proposal" "benefits administration" software`,
	`site:.gov "request for proposal" "credentialing" OR "certification management"`,
	`site:.gov "invitation to bid" "case management" OR "licensing system"`,
	`site:.gov solicitation "intake management" OR "intake system" software`,
	`site:.gov "request for information" "case management" OR "workflow" software`,
	// State portals Google has indexed
	`site:eva.virginia.gov "case management" OR "licensing" OR "permitting" software`,
	`site:esbd.cpa.texas.gov "case management" OR "workflow" OR "permitting"`,
	`site:ips.state.nc.us "case management" OR "licensing" OR "permitting"`,
	`site:emaryland.buyspeed.com "case management" OR "workflow" OR "licensing"`,
	// Year-anchored queries for fresh results
	`RFP "case management" (state OR county OR municipality) software 2026`,
	`RFP "licensing software" OR "licensing platform" government 2026`,
	`"request for proposal" "case management system" government 2026`,
	`"request for proposal" "permitting software" OR "permitting platform" 2026`,
	`"request for proposal" "workflow automation" government agency 2026`,
	`"request for proposal" "citizen portal" OR "constituent portal" software 2026`,
}

// DefaultBidNetKeywords drive the platform keyword searches (BidNet, OpenGov)
// and the state-portal row filters.
var DefaultBidNetKeywords = []string{
	"case management",
	"licensing system",
	"certification management",
	"permit management",
	"benefits administration",
	"workflow management",
	"constituent portal",
	"grants management",
	"credentialing",
	"intake system",
}

// DefaultSamKeywords are searched against SAM.gov when an API key is set.
var DefaultSamKeywords = []string{
	"case management software",
	"case management system",
	"licensing system",
	"certification management",
	"permit management software",
	"workflow management platform",
	"constituent portal",
	"grants management system",
	"benefits administration software",
}

// DefaultUSASpendingKeywords are matched against federal contracts expiring
// within the next year. The USASpending keyword search is exact-phrase based,
// so this list stays focused.
var DefaultUSASpendingKeywords = []string{
	"case management software",
	"case management system",
	"licensing system",
	"licensing software",
	"permitting software",
	"permit management",
	"certification management",
	"credentialing system",
	"workflow management",
	"benefits administration",
	"grants management",
	"constituent portal",
	"intake management",
}

// DefaultBlockedDomains are known non-procurement sites.
var DefaultBlockedDomains = []string{
	// E-commerce and corporate blogs
	"amazon.com", "amazon.co.uk",
	// Job boards
	"linkedin.com", "indeed.com", "glassdoor.com", "ziprecruiter.com",
	"monster.com", "careerbuilder.com",
	// News and media
	"medium.com", "substack.com", "forbes.com", "bloomberg.com",
	"reuters.com", "techcrunch.com", "venturebeat.com", "wired.com",
	"theverge.com", "zdnet.com", "cnet.com",
	// PR wire services carry press releases, not solicitations
	"businesswire.com", "prnewswire.com", "globenewswire.com", "prweb.com",
	"accesswire.com",
	// Reference
	"wikipedia.org", "en.wikipedia.org",
	// Social media
	"twitter.com", "x.com", "facebook.com", "reddit.com",
}

// DefaultForeignTLDs mark hosts outside the US.
var DefaultForeignTLDs = []string{
	// UK
	".co.uk", ".org.uk", ".gov.uk", ".ac.uk", ".me.uk",
	// Australia and New Zealand
	".com.au", ".net.au", ".org.au", ".gov.au", ".co.nz", ".govt.nz",
	// Canada
	".ca",
	// Europe
	".de", ".fr", ".eu", ".it", ".es", ".nl", ".be", ".se", ".no",
	".dk", ".fi", ".pl", ".at", ".ch", ".ie", ".pt", ".cz", ".hu",
	// Asia and Pacific
	".cn", ".jp", ".kr", ".in", ".sg", ".hk", ".tw",
	// Latin America
	".br", ".mx", ".ar", ".co", ".cl",
	// Africa and Middle East
	".za", ".ae", ".sa",
	// Other
	".ru", ".ua",
}

// DefaultJunkURLPaths flag blog posts and news articles by path segment.
var DefaultJunkURLPaths = []string{
	"/blog/", "/blogs/",
	"/news/", "/newsroom/",
	"/article/", "/articles/",
	"/press/", "/press-release/", "/press-releases/",
	"/media/", "/media-center/",
	"/insights/", "/insight/",
	"/resources/", "/resource/",
	"/thought-leadership/",
	"/whitepaper/", "/white-paper/",
	"/podcast/", "/webinar/",
	"/story/", "/stories/",
	"/post/", "/posts/",
}

// DefaultPortals lists the state procurement portals running the Infor
// Public Sector platform. All share one pagination pattern. To add a state,
// confirm its /ajax.aspx/en/rfp/request_browse_public endpoint returns 200,
// then add an entry here or in the config file.
var DefaultPortals = []map[string]any{
	{"name": "Arizona", "url": "https://app.az.gov"},
	// Candidates not yet enabled:
	//   Maryland https://emma.maryland.gov  (browser-check CAPTCHA)
	//   Colorado https://bids.colorado.gov  (TLS issues as of Feb 2026)
	//   Delaware https://bid.delaware.gov   (connection refused as of Feb 2026)
}
