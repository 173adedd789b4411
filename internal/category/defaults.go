package category

// DefaultLabels returns the fixed label enumeration in display order.
func DefaultLabels() []string {
	return []string{
		Development,
		Learning,
		Work,
		News,
		Social,
		Shopping,
		Entertainment,
		Other,
	}
}

// Default returns the taxonomy used by every run.
func Default() *Taxonomy {
	return New(DefaultLabels(), DefaultRules())
}

// DefaultRules returns the curated rule list. Order matters: a specific host
// or path must come before any broader substring or prefix rule that would
// also match it.
func DefaultRules() []Rule {
	return []Rule{
		// Specific hosts and paths that broader rules below would steal.
		{"programming subreddits", URLContains("reddit.com/r/programming"), Development},
		{"hacker news", AnyHost("news.ycombinator.com"), Development},
		{"google workspace", AnyHost("docs.google.com", "drive.google.com", "sheets.google.com", "calendar.google.com"), Work},
		{"google drive path", URLContains("google.com/drive"), Work},
		{"microsoft office", AnyHost("office.com", "sharepoint.com"), Work},

		// Development & Tech
		{"code hosting", AnyHost("github.com", "gitlab.com", "bitbucket.org", "github.io"), Development},
		{"q&a", AnyHost("stackoverflow.com", "stackexchange.com", "serverfault.com", "superuser.com"), Development},
		{"dev blogs", AnyHost("dev.to", "medium.com", "hashnode.dev", "go.dev"), Development},
		{"dev keywords", HostContains("github", "stackoverflow", "hackernews", "developer"), Development},
		{"docs subdomain", HostPrefix("docs."), Development},
		{"api subdomain", HostPrefix("api."), Development},

		// Learning & Education
		{"course platforms", HostContains("coursera", "udemy", "pluralsight", "khanacademy", "edx"), Learning},
		{"video lectures", AnyHost("youtube.com", "youtu.be"), Learning},
		{"universities", HostContains("university", "harvard"), Learning},
		{"academic tld", HostSuffix("edu"), Learning},

		// Work & Productivity
		{"collaboration", HostContains("slack", "notion", "trello", "jira", "confluence", "atlassian", "dropbox"), Work},
		{"office suites", HostContains("office"), Work},

		// News & Information
		{"news outlets", HostContains("news", "bbc", "cnn", "reuters", "techcrunch", "arstechnica", "ars-technica"), News},
		{"reference", AnyHost("wikipedia.org"), News},

		// Social Media
		{"social networks", HostContains("facebook", "twitter", "linkedin", "instagram", "tiktok"), Social},
		{"social hosts", AnyHost("x.com", "reddit.com", "threads.net", "bsky.app", "mastodon.social"), Social},

		// Shopping
		{"marketplaces", HostContains("amazon", "ebay", "etsy", "aliexpress"), Shopping},
		{"shop keywords", HostContains("shop", "store", "buy", "market"), Shopping},

		// Entertainment
		{"streaming", HostContains("netflix", "spotify", "twitch", "hulu", "disneyplus"), Entertainment},
		{"app stores", AnyHost("apps.apple.com", "play.google.com"), Entertainment},
		{"entertainment keywords", HostContains("gaming", "entertainment"), Entertainment},
	}
}
