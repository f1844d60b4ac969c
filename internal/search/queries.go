package search

import "unicode"

// Keyword clusters behind the generated queries: planning, recovery,
// housing and governance, each in Ukrainian and English.
var queryClusters = [][]string{
	{
		"урбаністика Україна події",
		"урбан-планування Україна конференція",
		"просторове планування Україна",
		"містобудування Україна події",
		"public space Ukraine events",
		"green infrastructure Ukraine conference",
		"urban planning Ukraine events",
	},
	{
		"відбудова України події",
		"відновлення громад Україна",
		"стійке відновлення Україна",
		"resilient cities Ukraine events",
		"sustainable urban development Ukraine",
		"post-war recovery Ukraine events",
		"Ukraine reconstruction events",
	},
	{
		"житлова політика Україна події",
		"доступне житло Україна",
		"housing policy Ukraine events",
		"архітектура Україна конференція",
		"енергоефективність Україна події",
		"affordable housing Ukraine events",
	},
	{
		"розвиток спроможності Україна",
		"capacity building Ukraine events",
		"децентралізація Україна події",
		"місцеве самоврядування Україна",
		"municipal governance Ukraine",
		"digital governance Ukraine events",
	},
}

// Queries returns the fixed multilingual query list, each keyword
// combination suffixed with the search timeframe in its own language.
func Queries() []string {
	var queries []string
	for _, cluster := range queryClusters {
		for _, kw := range cluster {
			if hasCyrillic(kw) {
				queries = append(queries, kw+" наступні 4 тижні")
			} else {
				queries = append(queries, kw+" next 4 weeks")
			}
		}
	}
	return queries
}

func hasCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}
