package i18n

var dictionaries = map[string]map[string]any{
	"en": {
		"header": map[string]any{
			"techBlog": "Tech Blog",
			"rssFeed":  "RSS feed",
		},
		"home": map[string]any{
			"title":       "Tech Blog",
			"subtitle":    "Notes on game development, tooling and the web.",
			"latest":      "Latest posts",
			"minRead":     "min read",
			"noPosts":     "No posts yet.",
			"readArticle": "Read article",
		},
		"post": map[string]any{
			"backToAll":       "Back to all posts",
			"continueReading": "Continue reading",
			"newerPost":       "Newer post",
			"olderPost":       "Older post",
			"notFound":        "Post not found",
			"onThisPage":      "On this page",
			"relatedPosts":    "Related posts",
			"by":              "by",
		},
		"taxonomy": map[string]any{
			"categoryTitle": "Category",
			"tagTitle":      "Tag",
			"categories":    "Categories",
			"tags":          "Tags",
			"noPosts":       "No posts in this section.",
			"postCount":     "posts",
		},
		"footer": map[string]any{
			"rights": "All rights reserved.",
		},
		"date": map[string]any{
			"invalid": "Invalid Date",
		},
	},
	"cs": {
		"header": map[string]any{
			"techBlog": "Technický blog",
			"rssFeed":  "RSS kanál",
		},
		"home": map[string]any{
			"title":       "Technický blog",
			"subtitle":    "Poznámky o vývoji her, nástrojích a webu.",
			"latest":      "Nejnovější články",
			"minRead":     "min čtení",
			"noPosts":     "Zatím žádné články.",
			"readArticle": "Přečíst článek",
		},
		"post": map[string]any{
			"backToAll":       "Zpět na všechny články",
			"continueReading": "Pokračovat ve čtení",
			"newerPost":       "Novější článek",
			"olderPost":       "Starší článek",
			"notFound":        "Článek nenalezen",
			"onThisPage":      "Na této stránce",
			"relatedPosts":    "Související články",
			"by":              "autor",
		},
		"taxonomy": map[string]any{
			"categoryTitle": "Kategorie",
			"tagTitle":      "Štítek",
			"categories":    "Kategorie",
			"tags":          "Štítky",
			"noPosts":       "V této sekci nejsou žádné články.",
			"postCount":     "článků",
		},
		"footer": map[string]any{
			"rights": "Všechna práva vyhrazena.",
		},
		"date": map[string]any{
			"invalid": "Neplatné datum",
		},
	},
}

var monthNames = map[string][12]string{
	"en": {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	// Genitive forms, as used in "5. ledna 2024".
	"cs": {
		"ledna", "února", "března", "dubna", "května", "června",
		"července", "srpna", "září", "října", "listopadu", "prosince",
	},
}
